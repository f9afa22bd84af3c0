package ledger

// Outcome is the result of one promotion attempt.
type Outcome string

// Promotion outcomes.
const (
	OutcomePromoted  Outcome = "promoted"
	OutcomeGraduated Outcome = "graduated"
	OutcomeSkipped   Outcome = "skipped"
)

// SkipReason names a failed promotion guard.
type SkipReason string

// Promotion guard failures.
const (
	ReasonInactive         SkipReason = "inactive"
	ReasonAggregateDue     SkipReason = "aggregate_due"
	ReasonUnsettledRecords SkipReason = "unsettled_records"
	ReasonLibraryBooks     SkipReason = "library_books"
)

// PromotionResult reports what an advance attempt did.
type PromotionResult struct {
	Outcome  Outcome      `json:"outcome"`
	FromYear int          `json:"from_year"`
	ToYear   int          `json:"to_year"`
	Reasons  []SkipReason `json:"reasons,omitempty"`
}

// PromotionBlockers evaluates the promotion guard. An empty result means the
// account may advance.
func (a *Account) PromotionBlockers(pendingBooks int) []SkipReason {
	reasons := make([]SkipReason, 0)
	if a.Status != LifecycleActive {
		reasons = append(reasons, ReasonInactive)
	}
	if a.TotalDue() != 0 {
		reasons = append(reasons, ReasonAggregateDue)
	}
	if a.Records.HasUnsettledInYear(a.CurrentYear) {
		reasons = append(reasons, ReasonUnsettledRecords)
	}
	if pendingBooks > 0 {
		reasons = append(reasons, ReasonLibraryBooks)
	}
	return reasons
}

// Advance moves the account to the next year, or graduates it from the final year,
// when every guard holds. On promotion the new year is billed from the annual
// baselines of each opted category and the aggregate due reset to the baseline.
// A skipped attempt leaves the account untouched.
func (a *Account) Advance(pendingBooks int) PromotionResult {
	result := PromotionResult{FromYear: a.CurrentYear, ToYear: a.CurrentYear}

	if reasons := a.PromotionBlockers(pendingBooks); len(reasons) > 0 {
		result.Outcome = OutcomeSkipped
		result.Reasons = reasons
		return result
	}

	if a.CurrentYear >= FinalYear {
		a.Status = LifecycleGraduated
		result.Outcome = OutcomeGraduated
		return result
	}

	nextYear := a.CurrentYear + 1
	a.CurrentYear = nextYear
	for _, feeType := range DueCategories {
		if !a.Opted(feeType) {
			continue
		}
		baseline := a.Annual.Get(feeType)
		a.Records.UpsertSemesterPair(nextYear, feeType, baseline)
		a.Dues.Set(feeType, baseline)
	}

	result.Outcome = OutcomePromoted
	result.ToYear = nextYear
	return result
}
