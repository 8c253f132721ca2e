package checkout

import (
	"strings"

	"go.uber.org/zap"

	"github.com/fjod/storefront-checkout/domain"
)

// SubmitShipping validates the shipping form and, on success, stores it and
// moves to the payment step.
func (s *Session) SubmitShipping(info domain.ShippingInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStepLocked(domain.CheckoutStepShipping); err != nil {
		return err
	}

	info = trimShipping(info)
	if info.Method == "" {
		info.Method = domain.ShippingStandard
	}
	if err := s.svc.validate.Struct(info); err != nil {
		s.svc.log.Info("shipping rejected", zap.String("checkout_id", s.id), zap.Error(err))
		return err
	}

	if err := s.transitionLocked(domain.CheckoutStepPayment); err != nil {
		return err
	}
	s.shipping = &info
	return nil
}

func trimShipping(info domain.ShippingInfo) domain.ShippingInfo {
	info.FirstName = strings.TrimSpace(info.FirstName)
	info.LastName = strings.TrimSpace(info.LastName)
	info.Email = strings.TrimSpace(info.Email)
	info.Phone = strings.TrimSpace(info.Phone)
	info.Address = strings.TrimSpace(info.Address)
	info.City = strings.TrimSpace(info.City)
	info.State = strings.TrimSpace(info.State)
	info.ZipCode = strings.TrimSpace(info.ZipCode)
	info.Method = domain.ShippingMethod(strings.ToLower(strings.TrimSpace(string(info.Method))))
	return info
}
