package domain

import "strings"

// ShippingInfo is the data collected by the shipping step.
type ShippingInfo struct {
	FirstName string         `json:"first_name" validate:"required"`
	LastName  string         `json:"last_name" validate:"required"`
	Email     string         `json:"email" validate:"required,email"`
	Phone     string         `json:"phone" validate:"required,phone"`
	Address   string         `json:"address" validate:"required"`
	City      string         `json:"city" validate:"required"`
	State     string         `json:"state" validate:"required"`
	ZipCode   string         `json:"zip_code" validate:"required,zipcode"`
	Method    ShippingMethod `json:"shipping_method" validate:"required,shipping_method"`
}

func (s ShippingInfo) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentPayPal       PaymentMethod = "paypal"
	PaymentApplePay     PaymentMethod = "apple_pay"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCard, PaymentPayPal, PaymentApplePay, PaymentBankTransfer:
		return true
	default:
		return false
	}
}

// IsRedirect reports whether the method completes at an external provider and
// therefore collects no fields during checkout.
func (m PaymentMethod) IsRedirect() bool {
	return m == PaymentPayPal || m == PaymentApplePay || m == PaymentBankTransfer
}

func (m PaymentMethod) String() string {
	return string(m)
}

type CardDetails struct {
	Number     string `json:"card_number" validate:"required,credit_card"`
	Expiry     string `json:"expiry_date" validate:"required,card_expiry"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	HolderName string `json:"cardholder_name" validate:"required"`
	SaveCard   bool   `json:"save_card"`
}

// LastFour returns the trailing four digits of the card number.
func (c CardDetails) LastFour() string {
	digits := strings.ReplaceAll(c.Number, " ", "")
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// Masked hides all but the last four digits.
func (c CardDetails) Masked() string {
	return "**** **** **** " + c.LastFour()
}

// PaymentSelection is the method tag plus method-specific fields.
type PaymentSelection struct {
	Method PaymentMethod `json:"method"`
	Card   *CardDetails  `json:"card,omitempty"`
}

// Redacted drops sensitive card fields, keeping only what an order may show.
func (p PaymentSelection) Redacted() PaymentSelection {
	if p.Card == nil {
		return PaymentSelection{Method: p.Method}
	}
	return PaymentSelection{
		Method: p.Method,
		Card: &CardDetails{
			Number:     p.Card.Masked(),
			HolderName: p.Card.HolderName,
			SaveCard:   p.Card.SaveCard,
		},
	}
}
