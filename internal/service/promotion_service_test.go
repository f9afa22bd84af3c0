package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/models"
)

// seedSettled stores a student whose year is fully paid and whose next-year
// baselines are set.
func seedSettled(t *testing.T, repos testRepos, usn string, year int) models.Student {
	t.Helper()
	student := seedStudent(t, repos, usn, year, models.QuotaManagement, 10000)
	_, err := student.OverrideDue(ledger.FeeCollege, 0, ModeManual, "settled", fixedNow)
	require.NoError(t, err)
	require.NoError(t, repos.students.Save(context.Background(), &student))
	return student
}

func TestPromoteBatchOutcomes(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	seedSettled(t, repos, "1AB21CS001", 1)
	seedStudent(t, repos, "1AB21CS002", 1, models.QuotaManagement, 10000)
	withBook := seedSettled(t, repos, "1AB21CS003", 1)
	require.NoError(t, repos.library.Create(ctx, &models.LibraryRecord{StudentID: withBook.ID, BookTitle: "Algorithms", Status: models.LibraryStatusIssued}))
	seedSettled(t, repos, "1AB20CS004", 2)

	activity := &memoryActivityRepo{}
	svc := NewPromotionService(repos.students, repos.library, nil, testValidator(), NewActivityService(activity, testLogger()), testLogger())

	summary, err := svc.Promote(ctx, dto.PromotionRequest{Year: 1}, ActivityActor{ID: 1, Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, 3, summary.Total)
	require.Equal(t, 1, summary.Promoted)
	require.Equal(t, 2, summary.Skipped)
	require.Zero(t, summary.Failed)
	require.Len(t, summary.Results, 3)

	promoted := reload(t, repos, "1AB21CS001")
	require.Equal(t, 2, promoted.CurrentYear)
	require.Equal(t, int64(10000), promoted.Dues.College)
	require.Equal(t, int64(5000), promoted.Records.FindByYearSemester(2, 3, ledger.FeeCollege).AmountDue)

	require.Equal(t, 1, reload(t, repos, "1AB21CS002").CurrentYear)
	require.Equal(t, 1, reload(t, repos, "1AB21CS003").CurrentYear)
	require.Equal(t, 2, reload(t, repos, "1AB20CS004").CurrentYear)

	for _, result := range summary.Results {
		switch result.USN {
		case "1AB21CS001":
			require.Equal(t, string(ledger.OutcomePromoted), result.Outcome)
			require.Equal(t, 2, result.ToYear)
		case "1AB21CS002":
			require.ElementsMatch(t, []ledger.SkipReason{ledger.ReasonAggregateDue, ledger.ReasonUnsettledRecords}, result.Reasons)
		case "1AB21CS003":
			require.Equal(t, []ledger.SkipReason{ledger.ReasonLibraryBooks}, result.Reasons)
		}
	}
	require.Equal(t, []string{"promotion.batch_completed"}, activity.actions())

	again, err := svc.Promote(ctx, dto.PromotionRequest{Year: 1}, ActivityActor{})
	require.NoError(t, err)
	require.Equal(t, 2, again.Total)
	require.Zero(t, again.Promoted)
}

func TestPromoteIsolatesFailedStudent(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	seedSettled(t, repos, "1AB21CS001", 1)
	seedSettled(t, repos, "1AB21CS002", 1)
	seedSettled(t, repos, "1AB21CS003", 1)

	students := &failingSaveRepo{StudentRepository: repos.students, failUSN: "1AB21CS002"}
	svc := NewPromotionService(students, repos.library, nil, testValidator(), nil, testLogger())

	summary, err := svc.Promote(ctx, dto.PromotionRequest{Year: 1}, ActivityActor{ID: 1, Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, 3, summary.Total)
	require.Equal(t, 2, summary.Promoted)
	require.Equal(t, 1, summary.Failed)
	require.ElementsMatch(t, []string{"1AB21CS001", "1AB21CS003"}, students.saved)

	for _, result := range summary.Results {
		if result.USN == "1AB21CS002" {
			require.Equal(t, outcomeFailed, result.Outcome)
		}
	}

	require.Equal(t, 2, reload(t, repos, "1AB21CS001").CurrentYear)
	require.Equal(t, 1, reload(t, repos, "1AB21CS002").CurrentYear)
	require.Equal(t, 2, reload(t, repos, "1AB21CS003").CurrentYear)
}

func TestPromoteFinalYearGraduates(t *testing.T) {
	repos := setupRepos(t)
	seedSettled(t, repos, "1AB18CS001", ledger.FinalYear)
	svc := NewPromotionService(repos.students, repos.library, nil, testValidator(), nil, testLogger())

	summary, err := svc.Promote(context.Background(), dto.PromotionRequest{Year: ledger.FinalYear}, ActivityActor{})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Graduated)

	graduated := reload(t, repos, "1AB18CS001")
	require.Equal(t, ledger.LifecycleGraduated, graduated.Status)
	require.Equal(t, ledger.FinalYear, graduated.CurrentYear)
}

func TestPromoteValidatesYear(t *testing.T) {
	repos := setupRepos(t)
	svc := NewPromotionService(repos.students, repos.library, nil, testValidator(), nil, testLogger())

	_, err := svc.Promote(context.Background(), dto.PromotionRequest{Year: 7}, ActivityActor{})
	require.Error(t, err)
}
