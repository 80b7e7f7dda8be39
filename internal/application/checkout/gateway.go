package checkout

import (
	"context"

	"github.com/shopspring/decimal"
)

// PreferenceRequest asks the payment gateway to open a checkout preference
// for an order's amount due. ExternalReference carries the order ID so the
// webhook can find its order back without a session.
type PreferenceRequest struct {
	ExternalReference string
	Title             string
	Amount            decimal.Decimal
	PayerEmail        string
}

// Preference is the gateway's handle for a started checkout
type Preference struct {
	ID        string
	InitPoint string
}

// PaymentInfo is the gateway's view of one payment, fetched when a webhook
// notification arrives
type PaymentInfo struct {
	PaymentID         string
	Status            PaymentStatus
	ExternalReference string
}

// PaymentStatus normalizes the gateway's payment states
type PaymentStatus string

const (
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// PaymentGateway is the port to the external payment provider
type PaymentGateway interface {
	// CreatePreference opens a checkout preference for the given amount
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)
	// GetPayment fetches the current state of a payment by provider ID
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
}
