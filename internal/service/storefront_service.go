package service

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/fjod/storefront-checkout/domain"
	"github.com/fjod/storefront-checkout/internal/cart"
	"github.com/fjod/storefront-checkout/internal/checkout"
)

// ProductSource looks up catalog records when items are added to a cart.
// Consumers define this interface, not the catalog implementation.
type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}

// StockKeeper removes sold quantities once an order is placed.
type StockKeeper interface {
	Deduct(items []domain.LineItem) error
}

// OrderPublisher announces placed orders to the rest of the system.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, userID string, order domain.Order) error
}

// userState is everything the storefront holds for one shopper. mu orders
// cart mutations against checkout start and confirmation.
type userState struct {
	mu       sync.Mutex
	cart     *cart.Store
	checkout *checkout.Session
}

// StorefrontService hosts one cart and at most one open checkout per user.
type StorefrontService struct {
	mu    sync.Mutex
	users map[string]*userState

	products  ProductSource
	stock     StockKeeper
	checkouts *checkout.Service
	publisher OrderPublisher
	log       *zap.Logger
}

func NewStorefrontService(
	products ProductSource,
	stock StockKeeper,
	checkouts *checkout.Service,
	publisher OrderPublisher,
	log *zap.Logger) *StorefrontService {
	return &StorefrontService{
		users:     make(map[string]*userState),
		products:  products,
		stock:     stock,
		checkouts: checkouts,
		publisher: publisher,
		log:       log,
	}
}

func (s *StorefrontService) user(userID string) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		u = &userState{cart: cart.NewStore()}
		s.users[userID] = u
	}
	return u
}

func (s *StorefrontService) GetCart(userID string) domain.CartSnapshot {
	return s.user(userID).cart.Snapshot()
}

// AddItem looks the product up and adds quantity of it to the user's cart.
func (s *StorefrontService) AddItem(ctx context.Context, userID string, productID int64, quantity int) (domain.CartSnapshot, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}

	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.cart.AddItem(product, quantity); err != nil {
		s.log.Info("add item rejected",
			zap.String("user_id", userID),
			zap.Int64("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Error(err))
		return domain.CartSnapshot{}, err
	}
	return u.cart.Snapshot(), nil
}

func (s *StorefrontService) UpdateQuantity(userID string, productID int64, quantity int) (domain.CartSnapshot, error) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.cart.UpdateQuantity(productID, quantity); err != nil {
		return domain.CartSnapshot{}, err
	}
	return u.cart.Snapshot(), nil
}

func (s *StorefrontService) RemoveItem(userID string, productID int64) domain.CartSnapshot {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	u.cart.RemoveItem(productID)
	return u.cart.Snapshot()
}

func (s *StorefrontService) ClearCart(userID string) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	u.cart.Clear()
}

// StartCheckout opens a session over the user's current cart. An open session
// must be finished or cancelled first; a finished one is replaced.
func (s *StorefrontService) StartCheckout(userID string) (*checkout.Session, error) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.checkout != nil && !u.checkout.Step().IsTerminal() {
		return nil, errors.Wrapf(domain.ErrCheckoutInProgress, "checkout %s", u.checkout.ID())
	}

	session, err := s.checkouts.InitiateCheckout(u.cart)
	if err != nil {
		return nil, err
	}
	u.checkout = session
	return session, nil
}

// Checkout returns the user's latest session, open or finished.
func (s *StorefrontService) Checkout(userID string) (*checkout.Session, error) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.checkout == nil {
		return nil, domain.ErrNoActiveCheckout
	}
	return u.checkout, nil
}

func (s *StorefrontService) CancelCheckout(userID string) error {
	session, err := s.Checkout(userID)
	if err != nil {
		return err
	}
	return session.Cancel()
}

// ConfirmOrder places the order for the user's session. Once the order exists,
// stock deduction and publication failures are logged and never undo it.
func (s *StorefrontService) ConfirmOrder(ctx context.Context, userID string) (domain.Order, error) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.checkout == nil {
		return domain.Order{}, domain.ErrNoActiveCheckout
	}

	order, err := u.checkout.ConfirmOrder(ctx)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.stock.Deduct(order.LineItems); err != nil {
		s.log.Error("failed to deduct stock",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
	if err := s.publisher.PublishOrderPlaced(ctx, userID, order); err != nil {
		s.log.Error("failed to publish order",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
	return order, nil
}
