package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/models"
	"github.com/noah-isme/campus-ledger-api/internal/observability"
	"github.com/noah-isme/campus-ledger-api/internal/repository"
)

type memoryActivityRepo struct {
	entries []models.ActivityLog
}

func (m *memoryActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	return append([]models.ActivityLog(nil), m.entries...), int64(len(m.entries)), nil
}

func (m *memoryActivityRepo) actions() []string {
	actions := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

func TestActivityServiceRecordMasksEmail(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, testLogger())

	entry, err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    1,
		ActorRole:  "Admin",
		Action:     "Ledger.Due_Overridden",
		EntityType: "student",
		EntityID:   ptrUint(5),
		EntityKey:  " 1AB21CS001 ",
		Metadata: map[string]interface{}{
			"email":    "student@example.com",
			"fee_type": "college",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "***", entry.Metadata["email"])
	require.Equal(t, "college", entry.Metadata["fee_type"])
	require.Equal(t, "ledger.due_overridden", entry.Action)
	require.Equal(t, "admin", entry.ActorRole)
	require.Equal(t, "1AB21CS001", entry.EntityKey)
}

func TestActivityServiceRecordRequiresAction(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, testLogger())
	_, err := svc.Record(context.Background(), ActivityEntry{EntityType: "student"})
	require.Error(t, err)
}

func TestActivityServiceListPaginates(t *testing.T) {
	repos := setupRepos(t)
	svc := NewActivityService(repos.activity, testLogger())
	ctx := context.Background()

	for _, usn := range []string{"1AB21CS001", "1AB21CS002", "1AB21CS001"} {
		_, err := svc.Record(ctx, ActivityEntry{ActorID: 9, ActorRole: "admin", Action: "ledger.resynced", EntityType: "student", EntityKey: usn})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, dto.ActivityListRequest{Page: 1, PageSize: 10, EntityKey: "1AB21CS001"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	require.Equal(t, int64(2), resp.Pagination.TotalItems)
	require.Equal(t, 1, resp.Pagination.TotalPages)
}

func TestActivityServiceRecordCarriesCorrelationID(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, testLogger())
	ctx := observability.WithCorrelationID(context.Background(), "req-9")

	entry, err := svc.Record(ctx, ActivityEntry{Action: "ledger.resynced", EntityType: "student"})
	require.NoError(t, err)
	require.Equal(t, "req-9", entry.CorrelationID)
	require.Equal(t, "req-9", repo.entries[0].CorrelationID)
}

func TestActivityServiceListFiltersByTime(t *testing.T) {
	repos := setupRepos(t)
	svc := NewActivityService(repos.activity, testLogger())
	ctx := context.Background()

	_, err := svc.Record(ctx, ActivityEntry{Action: "ledger.due_overridden", EntityType: "student", EntityKey: "1AB21CS001"})
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	resp, err := svc.List(ctx, dto.ActivityListRequest{Page: 1, PageSize: 10, From: &past, To: &future})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	resp, err = svc.List(ctx, dto.ActivityListRequest{Page: 1, PageSize: 10, From: &future})
	require.NoError(t, err)
	require.Empty(t, resp.Items)
}
