package domain

type CheckoutStep string

const (
	CheckoutStepShipping  CheckoutStep = "SHIPPING"
	CheckoutStepPayment   CheckoutStep = "PAYMENT"
	CheckoutStepReview    CheckoutStep = "REVIEW"
	CheckoutStepComplete  CheckoutStep = "COMPLETE"
	CheckoutStepCancelled CheckoutStep = "CANCELLED"
)

// allowedTransitions lists, per step, every step it may move to directly.
// Forward moves go one step at a time; backward moves preserve entered data.
var allowedTransitions = map[CheckoutStep][]CheckoutStep{
	CheckoutStepShipping:  {CheckoutStepPayment, CheckoutStepCancelled},
	CheckoutStepPayment:   {CheckoutStepReview, CheckoutStepShipping, CheckoutStepCancelled},
	CheckoutStepReview:    {CheckoutStepComplete, CheckoutStepPayment, CheckoutStepCancelled},
	CheckoutStepComplete:  {},
	CheckoutStepCancelled: {},
}

func CanTransitionTo(from, to CheckoutStep) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Previous returns the step a "back" action leads to, if any.
func (s CheckoutStep) Previous() (CheckoutStep, bool) {
	switch s {
	case CheckoutStepPayment:
		return CheckoutStepShipping, true
	case CheckoutStepReview:
		return CheckoutStepPayment, true
	default:
		return "", false
	}
}

func (s CheckoutStep) IsTerminal() bool {
	return s == CheckoutStepComplete || s == CheckoutStepCancelled
}

// String representation (for logging)
func (s CheckoutStep) String() string {
	return string(s)
}
