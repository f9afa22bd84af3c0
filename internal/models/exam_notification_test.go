package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExamNotificationVisibility(t *testing.T) {
	regular := ExamNotification{Year: 2, ExamType: ExamRegular}
	require.True(t, regular.VisibleTo(2))
	require.False(t, regular.VisibleTo(3))
	require.False(t, regular.VisibleTo(1))

	supply := ExamNotification{Year: 2, ExamType: ExamSupplementary}
	require.True(t, supply.VisibleTo(2))
	require.True(t, supply.VisibleTo(4))
	require.False(t, supply.VisibleTo(1))
}

func TestExamNotificationWindowAndLateFee(t *testing.T) {
	notification := ExamNotification{
		ExamFee:             1500,
		LateFee:             200,
		StartDate:           time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		LastDateWithoutFine: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:             time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		IsActive:            true,
	}

	require.False(t, notification.Open(time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC)))
	require.True(t, notification.Open(time.Date(2024, 6, 20, 18, 0, 0, 0, time.UTC)))
	require.False(t, notification.Open(time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)))

	require.Equal(t, int64(1500), notification.EffectiveFee(time.Date(2024, 6, 10, 17, 0, 0, 0, time.UTC)))
	require.Equal(t, int64(1700), notification.EffectiveFee(time.Date(2024, 6, 11, 9, 0, 0, 0, time.UTC)))

	notification.IsActive = false
	require.False(t, notification.Open(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)))
}
