package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-ledger-api/internal/models"
)

func TestConfigRepositoryUpsertsValue(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConfigRepository(db)
	ctx := context.Background()

	_, ok, err := repo.GetInt(ctx, models.ConfigDefaultGovFee)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.SetInt(ctx, models.ConfigDefaultGovFee, 45000))
	require.NoError(t, repo.SetInt(ctx, models.ConfigDefaultGovFee, 47000))

	value, ok, err := repo.GetInt(ctx, models.ConfigDefaultGovFee)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(47000), value)
}

func TestLibraryRepositoryCountsOnlyUnreturned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLibraryRepository(db)
	ctx := context.Background()

	returnedAt := time.Now()
	require.NoError(t, repo.Create(ctx, &models.LibraryRecord{StudentID: 1, BookTitle: "Compilers", Status: models.LibraryStatusIssued, IssuedAt: time.Now()}))
	require.NoError(t, repo.Create(ctx, &models.LibraryRecord{StudentID: 1, BookTitle: "Networks", Status: models.LibraryStatusReturned, IssuedAt: time.Now(), ReturnedAt: &returnedAt}))
	require.NoError(t, repo.Create(ctx, &models.LibraryRecord{StudentID: 2, BookTitle: "Algorithms", Status: models.LibraryStatusIssued, IssuedAt: time.Now()}))

	count, err := repo.CountOutstanding(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = repo.CountOutstanding(ctx, 3)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestPaymentRepositoryListsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	older := models.Payment{StudentID: 7, Amount: 100, PaymentType: models.PaymentCollegeFee, GatewayOrderID: "order_1", GatewayPaymentID: "pay_1", Status: models.PaymentStatusCompleted, CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.Payment{StudentID: 7, Amount: 200, PaymentType: models.PaymentExamFee, GatewayOrderID: "order_2", GatewayPaymentID: "pay_2", Status: models.PaymentStatusCompleted, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &older))
	require.NoError(t, repo.Create(ctx, &newer))

	found, err := repo.GetByGatewayPaymentID(ctx, "pay_1")
	require.NoError(t, err)
	require.Equal(t, older.ID, found.ID)

	_, err = repo.GetByGatewayPaymentID(ctx, "pay_3")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	payments, err := repo.ListByStudent(ctx, 7)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	require.Equal(t, "pay_2", payments[0].GatewayPaymentID)

	require.Error(t, repo.Create(ctx, &models.Payment{StudentID: 7, Amount: 1, PaymentType: models.PaymentCollegeFee, GatewayOrderID: "order_3", GatewayPaymentID: "pay_1", Status: models.PaymentStatusCompleted}))
}
