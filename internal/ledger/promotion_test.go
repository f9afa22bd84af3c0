package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func settledAccount(t *testing.T, year int) *Account {
	t.Helper()
	a := newTestAccount(year, 10000)
	_, err := a.ApplyPayment(FeeCollege, 10000, "Online", "pay", testTime)
	require.NoError(t, err)
	return a
}

func TestAdvancePromotesAndBillsNewYear(t *testing.T) {
	a := settledAccount(t, 1)
	a.HostelOpted = true
	a.Annual.Hostel = 3001

	result := a.Advance(0)
	require.Equal(t, OutcomePromoted, result.Outcome)
	require.Equal(t, 1, result.FromYear)
	require.Equal(t, 2, result.ToYear)
	require.Equal(t, 2, a.CurrentYear)

	require.Equal(t, int64(10000), a.Dues.College)
	require.Equal(t, int64(3001), a.Dues.Hostel)
	require.Zero(t, a.Dues.Transport)

	semA := a.Records.FindByYearSemester(2, 3, FeeHostel)
	require.NotNil(t, semA)
	require.Equal(t, int64(1501), semA.AmountDue)
	require.Nil(t, a.Records.FindByYearSemester(2, 3, FeeTransport))
	require.Equal(t, StatusPaid, a.Records.FindBySemester(1, FeeCollege).Status)
}

func TestAdvanceRepeatedDoesNotDuplicateRecords(t *testing.T) {
	a := settledAccount(t, 1)

	require.Equal(t, OutcomePromoted, a.Advance(0).Outcome)
	count := len(a.Records)

	second := a.Advance(0)
	require.Equal(t, OutcomeSkipped, second.Outcome)
	require.Equal(t, 2, a.CurrentYear)
	require.Len(t, a.Records, count)
}

func TestAdvanceFinalYearWithHostelDueSkips(t *testing.T) {
	a := settledAccount(t, 4)
	a.Dues.Hostel = 500

	result := a.Advance(0)
	require.Equal(t, OutcomeSkipped, result.Outcome)
	require.Contains(t, result.Reasons, ReasonAggregateDue)
	require.Equal(t, LifecycleActive, a.Status)
	require.Equal(t, 4, a.CurrentYear)
}

func TestAdvanceFinalYearGraduates(t *testing.T) {
	a := settledAccount(t, 4)
	count := len(a.Records)

	result := a.Advance(0)
	require.Equal(t, OutcomeGraduated, result.Outcome)
	require.Equal(t, LifecycleGraduated, a.Status)
	require.Equal(t, 4, a.CurrentYear)
	require.Len(t, a.Records, count)
}

func TestPromotionBlockers(t *testing.T) {
	t.Run("unsettled current year record", func(t *testing.T) {
		a := newTestAccount(2, 1000)
		a.Dues.College = 0

		reasons := a.PromotionBlockers(0)
		require.Equal(t, []SkipReason{ReasonUnsettledRecords}, reasons)
	})

	t.Run("library books", func(t *testing.T) {
		a := settledAccount(t, 2)
		require.Equal(t, []SkipReason{ReasonLibraryBooks}, a.PromotionBlockers(2))
	})

	t.Run("inactive", func(t *testing.T) {
		a := settledAccount(t, 2)
		a.Status = LifecycleDetained
		require.Equal(t, []SkipReason{ReasonInactive}, a.PromotionBlockers(0))
	})

	t.Run("clear", func(t *testing.T) {
		a := settledAccount(t, 2)
		require.Empty(t, a.PromotionBlockers(0))
	})
}

func TestAdvanceSkipLeavesAccountUntouched(t *testing.T) {
	a := newTestAccount(1, 1000)
	before := *a
	before.Records = append(Ledger(nil), a.Records...)

	result := a.Advance(1)
	require.Equal(t, OutcomeSkipped, result.Outcome)
	require.ElementsMatch(t, []SkipReason{ReasonAggregateDue, ReasonUnsettledRecords, ReasonLibraryBooks}, result.Reasons)
	require.Equal(t, before, *a)
}

func TestExamEligibility(t *testing.T) {
	a := newTestAccount(1, 1000)

	verdict := a.ExamEligibility(0)
	require.False(t, verdict.Eligible)
	require.Equal(t, []string{string(ReasonUnsettledRecords)}, verdict.Reasons)

	allowed := true
	a.EligibilityOverride = &allowed
	verdict = a.ExamEligibility(3)
	require.True(t, verdict.Eligible)
	require.False(t, verdict.Computed)
	require.True(t, verdict.Overridden)

	a.EligibilityOverride = nil
	_, err := a.ApplyPayment(FeeCollege, 1000, "Online", "p", testTime)
	require.NoError(t, err)
	require.True(t, a.ExamEligibility(0).Eligible)
	require.False(t, a.ExamEligibility(1).Eligible)
}
