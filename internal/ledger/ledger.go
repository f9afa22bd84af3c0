package ledger

import "sort"

// Ledger is the ordered collection of a student's fee records.
type Ledger []FeeRecord

// FindBySemester returns the billed record for the semester and fee type regardless
// of year. Backlog clearing relies on this shape; callers must not create duplicates.
func (l Ledger) FindBySemester(semester int, feeType FeeType) *FeeRecord {
	for i := range l {
		r := &l[i]
		if r.IsAdjustment() {
			continue
		}
		if r.Semester == semester && r.FeeType == feeType {
			return r
		}
	}
	return nil
}

// FindByYearSemester returns the billed record scoped by year, semester and fee type.
func (l Ledger) FindByYearSemester(year, semester int, feeType FeeType) *FeeRecord {
	for i := range l {
		r := &l[i]
		if r.IsAdjustment() {
			continue
		}
		if r.Year == year && r.Semester == semester && r.FeeType == feeType {
			return r
		}
	}
	return nil
}

// FindByID returns the record with the given identifier.
func (l Ledger) FindByID(id string) *FeeRecord {
	for i := range l {
		if l[i].ID == id {
			return &l[i]
		}
	}
	return nil
}

// UpsertSemesterPair splits total across the two semesters of year. Existing records
// keep their payments and history and only have amountDue and status refreshed;
// missing records are created unpaid. Calling it twice with the same total is a no-op.
func (l *Ledger) UpsertSemesterPair(year int, feeType FeeType, total int64) {
	semA, semB := SemesterPair(year)
	amountA, amountB := SplitAnnual(total)

	l.upsert(year, semA, feeType, amountA)
	l.upsert(year, semB, feeType, amountB)
}

func (l *Ledger) upsert(year, semester int, feeType FeeType, amountDue int64) {
	if existing := l.FindByYearSemester(year, semester, feeType); existing != nil {
		existing.AmountDue = amountDue
		existing.refreshStatus()
		return
	}
	*l = append(*l, newSemesterRecord(year, semester, feeType, amountDue))
}

// AppendAdjustment adds a settled entry that records an ad-hoc payment of amount
// against feeType without targeting a billed semester.
func (l *Ledger) AppendAdjustment(year int, feeType FeeType, amount int64, tx Transaction) *FeeRecord {
	_, semB := SemesterPair(year)
	record := newSemesterRecord(year, semB, feeType, 0)
	record.Kind = KindAdjustment
	record.AmountPaid = amount
	record.Transactions = append(record.Transactions, tx)
	record.refreshStatus()

	*l = append(*l, record)
	return &(*l)[len(*l)-1]
}

// Unsettled returns pointers to the records of feeType that are not paid, ordered
// earliest obligation first (year, then semester).
func (l Ledger) Unsettled(feeType FeeType) []*FeeRecord {
	records := make([]*FeeRecord, 0)
	for i := range l {
		if l[i].FeeType == feeType && l[i].Status != StatusPaid {
			records = append(records, &l[i])
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Year != records[j].Year {
			return records[i].Year < records[j].Year
		}
		return records[i].Semester < records[j].Semester
	})
	return records
}

// Outstanding sums the unpaid balance of every unpaid or partial record of feeType.
func (l Ledger) Outstanding(feeType FeeType) int64 {
	var total int64
	for i := range l {
		r := &l[i]
		if r.FeeType == feeType && r.Status != StatusPaid {
			total += r.Outstanding()
		}
	}
	return total
}

// HasUnsettledInYear reports whether any record billed for year is unpaid or under-settled.
func (l Ledger) HasUnsettledInYear(year int) bool {
	for i := range l {
		if l[i].Year == year && !l[i].Settled() {
			return true
		}
	}
	return false
}

// ForYear returns copies of the records billed for year.
func (l Ledger) ForYear(year int) []FeeRecord {
	records := make([]FeeRecord, 0)
	for _, r := range l {
		if r.Year == year {
			records = append(records, r)
		}
	}
	return records
}
