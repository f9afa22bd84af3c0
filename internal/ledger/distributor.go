package ledger

import "time"

// Allocation is the share of a payment applied to one record.
type Allocation struct {
	RecordID string `json:"record_id"`
	Year     int    `json:"year"`
	Semester int    `json:"semester"`
	Amount   int64  `json:"amount"`
}

// Distribute applies paidAmount of feeType to the unpaid records of l, earliest
// obligation first, logging one transaction per touched record. Anything beyond the
// total outstanding is dropped: there is no carry-forward and no refund entry.
// The aggregate due is not touched; callers adjust it by paidAmount themselves.
func Distribute(l Ledger, feeType FeeType, paidAmount int64, mode, reference string, at time.Time) []Allocation {
	allocations := make([]Allocation, 0)
	remaining := paidAmount

	for _, record := range l.Unsettled(feeType) {
		if remaining <= 0 {
			break
		}

		deduction := record.Outstanding()
		if deduction > remaining {
			deduction = remaining
		}
		if deduction <= 0 {
			continue
		}

		// deduction is positive so RecordTransaction cannot fail here.
		_ = RecordTransaction(record, deduction, mode, reference, at)
		remaining -= deduction

		allocations = append(allocations, Allocation{
			RecordID: record.ID,
			Year:     record.Year,
			Semester: record.Semester,
			Amount:   deduction,
		})
	}

	return allocations
}

// TotalAllocated sums the amounts of allocations.
func TotalAllocated(allocations []Allocation) int64 {
	var total int64
	for _, a := range allocations {
		total += a.Amount
	}
	return total
}
