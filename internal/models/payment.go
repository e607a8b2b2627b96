package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PaymentStatus string

const (
	StatusCompleted PaymentStatus = "COMPLETED"
	StatusFailed    PaymentStatus = "FAILED"
)

// Payment is the persisted payment record. The ID is assigned by the store on
// insert and never reassigned. TransactionID is empty (stored as NULL) for
// failed payments.
type Payment struct {
	bun.BaseModel `bun:"table:payments"`

	ID              int64         `bun:"id,pk,autoincrement" json:"id"`
	OrderReference  string        `bun:"order_reference,notnull" json:"order_reference"`
	Amount          float64       `bun:"amount,notnull" json:"amount"`
	PaymentMethod   string        `bun:"payment_method" json:"payment_method"`
	PaymentStatus   PaymentStatus `bun:"payment_status,notnull" json:"payment_status"`
	TransactionID   string        `bun:"transaction_id,nullzero" json:"transaction_id,omitempty"`
	TransactionDate time.Time     `bun:"transaction_date,notnull" json:"transaction_date"`
}

// PaymentProcessingRequest is the inbound processing payload. MethodDetails is
// only ever inspected by the gateway simulation, never persisted.
type PaymentProcessingRequest struct {
	OrderReference string  `json:"order_reference"`
	Amount         float64 `json:"amount"`
	MethodDetails  string  `json:"method_details"`
}

type PaymentEvent struct {
	Type           string    `json:"type"`
	PaymentID      int64     `json:"payment_id"`
	OrderReference string    `json:"order_reference,omitempty"`
	Payment        *Payment  `json:"payment,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
