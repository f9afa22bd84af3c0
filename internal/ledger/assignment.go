package ledger

// AssignAnnualFee records amount as the yearly baseline of feeType, regenerates the
// semester pair for year and re-derives the aggregate due of feeType so payments
// already made stay counted.
func (a *Account) AssignAnnualFee(feeType FeeType, year int, amount int64) error {
	if !feeType.HasAggregate() {
		return Validation("AssignAnnualFee", "fee type has no annual baseline")
	}
	if !ValidYear(year) {
		return Validation("AssignAnnualFee", "year must be between 1 and 4")
	}
	if amount < 0 {
		return Validation("AssignAnnualFee", "amount must not be negative")
	}

	a.Annual.Set(feeType, amount)
	a.Records.UpsertSemesterPair(year, feeType, amount)
	a.Dues.Set(feeType, a.Records.Outstanding(feeType))
	return nil
}

// SeedEntryYear creates the entry-year records of every category with a positive
// baseline and sets the aggregate due to that baseline.
func (a *Account) SeedEntryYear() {
	for _, feeType := range DueCategories {
		amount := a.Annual.Get(feeType)
		if amount <= 0 || !a.Opted(feeType) {
			continue
		}
		a.Records.UpsertSemesterPair(a.CurrentYear, feeType, amount)
		a.Dues.Set(feeType, amount)
	}
}
