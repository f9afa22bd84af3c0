package ledger

import (
	"fmt"
	"time"
)

// ModeAutoClear labels the synthetic transactions written when a due is manually zeroed.
const ModeAutoClear = "Auto-Clear"

// OverrideResult describes the ledger side effects of a manual due overwrite.
type OverrideResult struct {
	FeeType    FeeType  `json:"fee_type"`
	Previous   int64    `json:"previous"`
	Current    int64    `json:"current"`
	ClearedIDs []string `json:"cleared_record_ids,omitempty"`
	Cleared    int64    `json:"cleared_amount"`
	Adjustment int64    `json:"adjustment_amount"`
}

// ApplyPayment distributes a lump payment over the ledger and lowers the aggregate
// due of feeType by the full paid amount, floored at zero.
func (a *Account) ApplyPayment(feeType FeeType, amount int64, mode, reference string, at time.Time) ([]Allocation, error) {
	if !feeType.Valid() {
		return nil, Validation("ApplyPayment", "unknown fee type")
	}
	if amount <= 0 {
		return nil, Validation("ApplyPayment", "payment amount must be positive")
	}

	allocations := Distribute(a.Records, feeType, amount, mode, reference, at)
	a.Dues.Reduce(feeType, amount)
	return allocations, nil
}

// PayRecord applies amount directly to the billed record identified by recordID.
// Adjustment entries never take payments.
func (a *Account) PayRecord(recordID string, amount int64, mode, reference string, at time.Time) (*FeeRecord, error) {
	if amount <= 0 {
		return nil, Validation("PayRecord", "payment amount must be positive")
	}

	record := a.Records.FindByID(recordID)
	if record == nil {
		return nil, NotFound("PayRecord", "fee record not found")
	}
	if record.IsAdjustment() {
		return nil, Validation("PayRecord", "adjustment entries cannot take payments")
	}

	if err := RecordTransaction(record, amount, mode, reference, at); err != nil {
		return nil, err
	}
	a.Dues.Reduce(record.FeeType, amount)
	return record, nil
}

// MarkSemesterPaid settles the billed record of feeType for semester, in any year.
// It returns the amount applied; zero means the semester was already settled.
func (a *Account) MarkSemesterPaid(feeType FeeType, semester int, mode string, at time.Time) (int64, error) {
	if semester < 1 || semester > FinalYear*2 {
		return 0, Validation("MarkSemesterPaid", fmt.Sprintf("semester must be between 1 and %d", FinalYear*2))
	}

	record := a.Records.FindBySemester(semester, feeType)
	if record == nil {
		return 0, NotFound("MarkSemesterPaid", fmt.Sprintf("fee record for semester %d not found", semester))
	}

	residual := record.Outstanding()
	if residual <= 0 {
		return 0, nil
	}

	if err := RecordTransaction(record, residual, mode, fmt.Sprintf("Semester %d Payment", semester), at); err != nil {
		return 0, err
	}
	a.Dues.Reduce(feeType, residual)
	return residual, nil
}

// OverrideDue sets the aggregate due of feeType directly and reconciles the ledger.
// Zero force-closes every unpaid record with an Auto-Clear transaction for its residual.
// A lower positive value books the difference as an adjustment entry labelled with mode.
// A higher value only moves the aggregate.
func (a *Account) OverrideDue(feeType FeeType, newDue int64, mode, reference string, at time.Time) (OverrideResult, error) {
	if !feeType.HasAggregate() {
		return OverrideResult{}, Validation("OverrideDue", "fee type has no aggregate due")
	}
	if newDue < 0 {
		return OverrideResult{}, Validation("OverrideDue", "due must not be negative")
	}

	result := OverrideResult{FeeType: feeType, Previous: a.Dues.Get(feeType), Current: newDue}

	switch {
	case newDue == 0:
		for _, record := range a.Records.Unsettled(feeType) {
			residual := record.Outstanding()
			record.AmountPaid = record.AmountDue
			record.refreshStatus()
			if residual > 0 {
				record.Transactions = append(record.Transactions, Transaction{
					Amount:    residual,
					Date:      at,
					Mode:      ModeAutoClear,
					Reference: reference,
				})
			}
			result.ClearedIDs = append(result.ClearedIDs, record.ID)
			result.Cleared += residual
		}
	case newDue < result.Previous:
		diff := result.Previous - newDue
		a.Records.AppendAdjustment(a.CurrentYear, feeType, diff, Transaction{
			Amount:    diff,
			Date:      at,
			Mode:      mode,
			Reference: reference,
		})
		result.Adjustment = diff
	}

	a.Dues.Set(feeType, newDue)
	return result, nil
}

// Resync re-derives every aggregate due from the ledger.
func (a *Account) Resync() {
	for _, feeType := range DueCategories {
		a.Dues.Set(feeType, a.Records.Outstanding(feeType))
	}
}
