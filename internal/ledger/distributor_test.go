package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistributeEarliestFirstAcrossRecords(t *testing.T) {
	var l Ledger
	l.UpsertSemesterPair(2, FeeCollege, 10000)
	l.UpsertSemesterPair(1, FeeCollege, 10000)
	require.NoError(t, RecordTransaction(l.FindBySemester(1, FeeCollege), 1000, "Cash", "r", testTime))

	allocations := Distribute(l, FeeCollege, 12000, "Online", "pay_1", testTime)

	require.Len(t, allocations, 3)
	require.Equal(t, 1, allocations[0].Semester)
	require.Equal(t, int64(4000), allocations[0].Amount)
	require.Equal(t, int64(5000), allocations[1].Amount)
	require.Equal(t, 3, allocations[2].Semester)
	require.Equal(t, int64(3000), allocations[2].Amount)
	require.Equal(t, int64(12000), TotalAllocated(allocations))

	require.Equal(t, StatusPaid, l.FindBySemester(1, FeeCollege).Status)
	require.Equal(t, StatusPaid, l.FindBySemester(2, FeeCollege).Status)
	require.Equal(t, StatusPartial, l.FindBySemester(3, FeeCollege).Status)
	require.Equal(t, StatusPending, l.FindBySemester(4, FeeCollege).Status)
}

func TestDistributeDropsSurplus(t *testing.T) {
	var l Ledger
	l.UpsertSemesterPair(1, FeeTransport, 3001)

	allocations := Distribute(l, FeeTransport, 5000, "Online", "pay_2", testTime)

	require.Equal(t, int64(3001), TotalAllocated(allocations))
	require.Equal(t, int64(0), l.Outstanding(FeeTransport))
	for _, r := range l {
		require.Equal(t, r.AmountDue, r.AmountPaid)
		require.Len(t, r.Transactions, 1)
	}
}

func TestDistributeConservation(t *testing.T) {
	payments := []int64{0, 1, 499, 500, 2500, 5001, 9999, 10000, 25000}

	for _, payment := range payments {
		var l Ledger
		l.UpsertSemesterPair(1, FeeHostel, 5001)
		l.UpsertSemesterPair(2, FeeHostel, 4999)
		require.NoError(t, RecordTransaction(&l[1], 700, "Cash", "seed", testTime))

		before := make(map[string]int64, len(l))
		for _, r := range l {
			before[r.ID] = r.AmountPaid
		}
		outstanding := l.Outstanding(FeeHostel)

		allocations := Distribute(l, FeeHostel, payment, "Online", "p", testTime)

		expected := payment
		if outstanding < expected {
			expected = outstanding
		}
		require.Equal(t, expected, TotalAllocated(allocations), "payment %d", payment)
		for _, a := range allocations {
			require.Positive(t, a.Amount)
		}
		for _, r := range l {
			require.GreaterOrEqual(t, r.AmountPaid, before[r.ID])
			require.Equal(t, DeriveStatus(r.AmountPaid, r.AmountDue), r.Status)
		}
	}
}

func TestDistributeIgnoresOtherFeeTypes(t *testing.T) {
	var l Ledger
	l.UpsertSemesterPair(1, FeeCollege, 1000)
	l.UpsertSemesterPair(1, FeePlacement, 1000)

	Distribute(l, FeePlacement, 1000, "Online", "p", testTime)

	require.Equal(t, int64(1000), l.Outstanding(FeeCollege))
	require.Equal(t, int64(0), l.Outstanding(FeePlacement))
}
