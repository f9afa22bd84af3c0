package ledger

// FinalYear is the last year of the programme; advancing from it graduates the student.
const FinalYear = 4

// SplitAnnual divides an annual amount into two semester shares. The first share is
// ceil(total/2) so odd totals put the larger half in the first semester, and the
// shares always sum to total.
func SplitAnnual(total int64) (first, second int64) {
	if total <= 0 {
		return 0, 0
	}
	first = total/2 + total%2
	return first, total - first
}

// DeriveStatus computes the settlement state from the paid and due amounts.
func DeriveStatus(amountPaid, amountDue int64) Status {
	switch {
	case amountPaid >= amountDue:
		return StatusPaid
	case amountPaid > 0:
		return StatusPartial
	default:
		return StatusPending
	}
}

// SemesterPair returns the global semester numbers covered by a programme year.
func SemesterPair(year int) (first, second int) {
	return year*2 - 1, year * 2
}

// ValidYear reports whether year lies within the programme.
func ValidYear(year int) bool {
	return year >= 1 && year <= FinalYear
}

func floorZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
