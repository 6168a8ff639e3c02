package enums

import "fmt"

// PaymentMethod describes how a buyer intends to settle a transaction.
// Pure trades carry no payment method at all; the empty value is legal
// there and is handled by the action resolvers explicitly.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "Cash on Hand"
	PaymentMethodOnline PaymentMethod = "Online Payment"
	PaymentMethodNone   PaymentMethod = ""
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodOnline,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known non-empty PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	if value == "" {
		return PaymentMethodNone, nil
	}
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
