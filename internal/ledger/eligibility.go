package ledger

// Eligibility is the exam eligibility verdict of an account.
type Eligibility struct {
	Eligible   bool     `json:"eligible"`
	Computed   bool     `json:"computed"`
	Overridden bool     `json:"overridden"`
	Reasons    []string `json:"reasons,omitempty"`
}

// ExamEligibility computes eligibility from the current-year ledger and library dues.
// An administrator override, when set, decides the verdict.
func (a *Account) ExamEligibility(pendingBooks int) Eligibility {
	reasons := make([]string, 0)
	if a.Records.HasUnsettledInYear(a.CurrentYear) {
		reasons = append(reasons, string(ReasonUnsettledRecords))
	}
	if pendingBooks > 0 {
		reasons = append(reasons, string(ReasonLibraryBooks))
	}

	verdict := Eligibility{Computed: len(reasons) == 0, Reasons: reasons}
	verdict.Eligible = verdict.Computed
	if a.EligibilityOverride != nil {
		verdict.Eligible = *a.EligibilityOverride
		verdict.Overridden = true
	}
	return verdict
}
