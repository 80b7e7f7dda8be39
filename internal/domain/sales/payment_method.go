package sales

// PaymentMethod represents how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodTransfer      PaymentMethod = "transfer"
	PaymentMethodQR            PaymentMethod = "qr"
	PaymentMethodCard          PaymentMethod = "card"
	PaymentMethodNotApplicable PaymentMethod = "not_applicable"
)

// IsValid checks if the value is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodQR,
		PaymentMethodCard, PaymentMethodNotApplicable:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}
