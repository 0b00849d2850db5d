package finance

import (
	"strings"
	"time"

	"github.com/agency/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodOther        PaymentMethod = "other"
)

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodCash:         "نقدي",
	PaymentMethodBankTransfer: "تحويل بنكي",
	PaymentMethodCard:         "بطاقة",
	PaymentMethodCheque:       "شيك",
	PaymentMethodOther:        "أخرى",
}

// AllPaymentMethods returns every payment method
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard,
		PaymentMethodCheque, PaymentMethodOther,
	}
}

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	_, ok := paymentMethodLabels[m]
	return ok
}

// Label returns the Arabic display text for the method
func (m PaymentMethod) Label() string {
	if label, ok := paymentMethodLabels[m]; ok {
		return label
	}
	return string(m)
}

// Payment is money received from a customer against an order
type Payment struct {
	shared.BaseEntity
	OrderID    uuid.UUID
	CustomerID uuid.UUID
	Amount     decimal.Decimal
	Method     PaymentMethod
	PaidAt     time.Time
	Reference  string
	Notes      string
}

// NewPayment creates a new payment
func NewPayment(orderID, customerID uuid.UUID, amount decimal.Decimal, method PaymentMethod, paidAt time.Time) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if method == "" {
		method = PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method: "+string(method))
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		CustomerID: customerID,
		Amount:     amount.Round(2),
		Method:     method,
		PaidAt:     paidAt,
	}, nil
}

// SetNotes sets the reference and free-text notes
func (p *Payment) SetNotes(reference, notes string) {
	p.Reference = strings.TrimSpace(reference)
	p.Notes = notes
}
