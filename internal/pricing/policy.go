package pricing

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/fjod/storefront-checkout/domain"
)

const centsPlaces = 2

var hundred = decimal.NewFromInt(100)

// Config is the deployment-specific fee table.
type Config struct {
	StandardShippingFee   decimal.Decimal
	ExpressShippingFee    decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	TaxRate               decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		StandardShippingFee:   decimal.RequireFromString("9.99"),
		ExpressShippingFee:    decimal.RequireFromString("15.99"),
		FreeShippingThreshold: decimal.NewFromInt(50),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

func (c Config) Validate() error {
	switch {
	case c.StandardShippingFee.IsNegative():
		return errors.New("standard shipping fee must not be negative")
	case c.ExpressShippingFee.IsNegative():
		return errors.New("express shipping fee must not be negative")
	case c.FreeShippingThreshold.IsNegative():
		return errors.New("free shipping threshold must not be negative")
	case c.TaxRate.IsNegative() || c.TaxRate.GreaterThan(decimal.NewFromInt(1)):
		return errors.Errorf("tax rate %s must be between 0 and 1", c.TaxRate)
	}
	return nil
}

// Policy derives price breakdowns. It holds only its immutable config, so equal
// inputs always give equal outputs.
type Policy struct {
	cfg Config
}

func NewPolicy(cfg Config) (*Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid pricing config")
	}
	return &Policy{cfg: cfg}, nil
}

func (p *Policy) Config() Config {
	return p.cfg
}

// ComputeBreakdown prices a cart snapshot. promo may be nil.
func (p *Policy) ComputeBreakdown(
	snapshot domain.CartSnapshot,
	method domain.ShippingMethod,
	promo *domain.PromotionCode) (domain.PriceBreakdown, error) {

	subtotal := snapshot.Subtotal()

	shipping, err := p.ShippingCost(subtotal, method)
	if err != nil {
		return domain.PriceBreakdown{}, err
	}

	// tax is charged on goods only, never on shipping
	tax := subtotal.Mul(p.cfg.TaxRate).Round(centsPlaces)
	discount := p.discount(subtotal, promo)

	total := subtotal.Add(shipping).Add(tax).Sub(discount).Round(centsPlaces)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return domain.PriceBreakdown{
		Subtotal:       subtotal,
		ShippingCost:   shipping,
		TaxAmount:      tax,
		DiscountAmount: discount,
		Total:          total,
	}, nil
}

// ShippingCost prices a shipping method. Only standard shipping can become free;
// express is charged regardless of the subtotal.
func (p *Policy) ShippingCost(subtotal decimal.Decimal, method domain.ShippingMethod) (decimal.Decimal, error) {
	switch method {
	case domain.ShippingStandard:
		if subtotal.GreaterThan(p.cfg.FreeShippingThreshold) {
			return decimal.Zero, nil
		}
		return p.cfg.StandardShippingFee, nil
	case domain.ShippingExpress:
		return p.cfg.ExpressShippingFee, nil
	default:
		return decimal.Zero, errors.Wrapf(domain.ErrUnknownShippingMethod, "%q", method)
	}
}

// ShippingOptions lists every method priced for the snapshot.
func (p *Policy) ShippingOptions(snapshot domain.CartSnapshot) []domain.ShippingOption {
	subtotal := snapshot.Subtotal()
	methods := []domain.ShippingMethod{domain.ShippingStandard, domain.ShippingExpress}

	options := make([]domain.ShippingOption, 0, len(methods))
	for _, m := range methods {
		// methods holds only known methods, so ShippingCost cannot fail here
		cost, _ := p.ShippingCost(subtotal, m)
		options = append(options, domain.ShippingOption{
			Method:           m,
			Cost:             cost,
			DeliveryEstimate: m.DeliveryEstimate(),
		})
	}
	return options
}

func (p *Policy) discount(subtotal decimal.Decimal, promo *domain.PromotionCode) decimal.Decimal {
	if promo == nil || promo.DiscountPercent <= 0 {
		return decimal.Zero
	}
	amount := subtotal.Mul(decimal.NewFromInt(int64(promo.DiscountPercent))).Div(hundred).Round(centsPlaces)
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}
