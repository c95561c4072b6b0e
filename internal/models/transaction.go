package models

import "time"

const (
	// TransactionKindPayment is money received from a person
	TransactionKindPayment = "payment"
	// TransactionKindRefund is money returned to a person
	TransactionKindRefund = "refund"
	// TransactionKindAdjustment is a manual correction made by an administrator
	TransactionKindAdjustment = "adjustment"
)

// Transaction describes one booking inside a transaction log
// Events carry the ID of the log their payments are booked against
type Transaction struct {
	// Internal ID
	ID uint `db:"id" json:"id"`
	// The transaction log this booking belongs to
	LogID uint `db:"logId" json:"logId"`
	// The person the booking is associated with
	PersonID uint `db:"personId" json:"personId"`
	// The amount in cents - negative for refunds
	AmountCents int64 `db:"amountCents" json:"amountCents"`
	// What kind of booking this is - see the TransactionKind* constants
	Kind string `db:"kind" json:"kind"`
	// When the booking happened
	OccurredAt time.Time `db:"occurredAt" json:"occurredAt"`
	// Free-form note
	Note string `db:"note" json:"note,omitempty"`
	// Creation date of this entry
	CreatedAt time.Time `db:"createdAt" json:"createdAt"`
	// Date of the last update of this entry
	UpdatedAt time.Time `db:"updatedAt" json:"updatedAt"`
}

// ValidTransactionKind checks if the given value is a valid transaction kind
func ValidTransactionKind(kind string) bool {
	return kind == TransactionKindPayment || kind == TransactionKindRefund || kind == TransactionKindAdjustment
}
