package promotion

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/go-faster/errors"

	"github.com/fjod/storefront-checkout/domain"
)

// ErrCodeNotFound is returned by registries for unknown codes.
var ErrCodeNotFound = errors.New("promo code not found")

// Registry looks up promotion codes. Codes passed in are already normalised.
type Registry interface {
	Lookup(ctx context.Context, code string) (domain.PromotionCode, error)
}

// Normalize trims and upper-cases a user supplied code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// MemoryRegistry is a static in-process code table.
type MemoryRegistry struct {
	mu    sync.RWMutex
	codes map[string]domain.PromotionCode
}

func NewMemoryRegistry(codes ...domain.PromotionCode) (*MemoryRegistry, error) {
	r := &MemoryRegistry{codes: make(map[string]domain.PromotionCode, len(codes))}
	for _, c := range codes {
		if err := r.Put(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *MemoryRegistry) Put(code domain.PromotionCode) error {
	code.Code = Normalize(code.Code)
	if !code.IsValid() {
		return errors.Errorf("invalid promotion %q with %d%%", code.Code, code.DiscountPercent)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[code.Code] = code
	return nil
}

func (r *MemoryRegistry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, Normalize(code))
}

func (r *MemoryRegistry) Lookup(_ context.Context, code string) (domain.PromotionCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	promo, ok := r.codes[code]
	if !ok {
		return domain.PromotionCode{}, ErrCodeNotFound
	}
	return promo, nil
}

// ParseCodes reads "CODE:PERCENT" pairs separated by commas,
// e.g. "SAVE10:10,WELCOME15:15".
func ParseCodes(raw string) ([]domain.PromotionCode, error) {
	var codes []domain.PromotionCode
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, percent, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, errors.Errorf("promo code %q: expected CODE:PERCENT", pair)
		}
		value, err := strconv.Atoi(strings.TrimSpace(percent))
		if err != nil {
			return nil, errors.Wrapf(err, "promo code %q", pair)
		}
		code := domain.PromotionCode{Code: Normalize(name), DiscountPercent: value}
		if !code.IsValid() {
			return nil, errors.Errorf("promo code %q: percent must be 0-100", pair)
		}
		codes = append(codes, code)
	}
	return codes, nil
}
