package ledger

import (
	"time"

	"github.com/google/uuid"
)

// RecordKind distinguishes billed semester records from manual adjustment entries.
type RecordKind string

// Record kinds.
const (
	KindSemester   RecordKind = "semester"
	KindAdjustment RecordKind = "adjustment"
)

// Transaction is one append-only money movement applied to a fee record.
type Transaction struct {
	Amount    int64     `json:"amount"`
	Date      time.Time `json:"date"`
	Mode      string    `json:"mode"`
	Reference string    `json:"reference"`
}

// FeeRecord is one semester's billing entry for one fee category.
type FeeRecord struct {
	ID           string        `json:"id"`
	Kind         RecordKind    `json:"kind"`
	Year         int           `json:"year"`
	Semester     int           `json:"semester"`
	FeeType      FeeType       `json:"fee_type"`
	AmountDue    int64         `json:"amount_due"`
	AmountPaid   int64         `json:"amount_paid"`
	Status       Status        `json:"status"`
	Transactions []Transaction `json:"transactions"`
}

func newSemesterRecord(year, semester int, feeType FeeType, amountDue int64) FeeRecord {
	return FeeRecord{
		ID:           uuid.NewString(),
		Kind:         KindSemester,
		Year:         year,
		Semester:     semester,
		FeeType:      feeType,
		AmountDue:    amountDue,
		Status:       DeriveStatus(0, amountDue),
		Transactions: []Transaction{},
	}
}

// Outstanding returns the amount still owed on the record, never below zero.
func (r *FeeRecord) Outstanding() int64 {
	return floorZero(r.AmountDue - r.AmountPaid)
}

// Settled reports whether the record is paid and not under-settled.
func (r *FeeRecord) Settled() bool {
	return r.Status == StatusPaid && r.AmountPaid >= r.AmountDue
}

// IsAdjustment reports whether the record is a manual adjustment entry.
func (r *FeeRecord) IsAdjustment() bool {
	return r.Kind == KindAdjustment
}

func (r *FeeRecord) refreshStatus() {
	r.Status = DeriveStatus(r.AmountPaid, r.AmountDue)
}

// RecordTransaction appends a transaction to the record, increments the paid amount
// and recomputes the status. Negative amounts are rejected.
func RecordTransaction(record *FeeRecord, amount int64, mode, reference string, at time.Time) error {
	if record == nil {
		return NotFound("RecordTransaction", "fee record not found")
	}
	if amount < 0 {
		return Validation("RecordTransaction", "transaction amount must not be negative")
	}

	record.Transactions = append(record.Transactions, Transaction{
		Amount:    amount,
		Date:      at,
		Mode:      mode,
		Reference: reference,
	})
	record.AmountPaid += amount
	record.refreshStatus()
	return nil
}
