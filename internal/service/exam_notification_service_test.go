package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/models"
)

func newExamServiceForTest(repos testRepos, activity ActivityRecorder) ExamNotificationService {
	return NewExamNotificationService(repos.exams, repos.students, testValidator(), activity, testLogger())
}

func createExamRequest(title string, year int, examType string) dto.CreateExamNotificationRequest {
	return dto.CreateExamNotificationRequest{
		Title:     title,
		Year:      year,
		Semester:  year * 2,
		ExamType:  examType,
		ExamFee:   1500,
		StartDate: "2024-06-20",
		EndDate:   "2024-07-10",
	}
}

func TestExamNotificationCreateDefaultsAndAudit(t *testing.T) {
	repos := setupRepos(t)
	activity := &memoryActivityRepo{}
	svc := newExamServiceForTest(repos, NewActivityService(activity, testLogger()))
	actor := ActivityActor{ID: 3, Role: "exam_head"}

	created, err := svc.Create(context.Background(), createExamRequest("<b>Year 1</b> exams", 1, ""), actor)
	require.NoError(t, err)
	require.Equal(t, "Year 1 exams", created.Title)
	require.Equal(t, models.ExamRegular, created.ExamType)
	require.True(t, created.IsActive)
	require.Zero(t, created.LateFee)
	require.Equal(t, created.EndDate, created.LastDateWithoutFine)
	require.Equal(t, []string{"exam_notification.create"}, activity.actions())

	_, err = svc.Create(context.Background(), dto.CreateExamNotificationRequest{Title: "Broken", Year: 1, Semester: 1, ExamFee: 10, StartDate: "2024-07-10", EndDate: "2024-07-01"}, actor)
	require.ErrorIs(t, err, ledger.ErrValidation)

	_, err = svc.Create(context.Background(), dto.CreateExamNotificationRequest{Title: "Broken", Year: 1, Semester: 1, ExamFee: 10, StartDate: "10/07/2024", EndDate: "2024-07-11"}, actor)
	require.ErrorIs(t, err, ledger.ErrValidation)

	_, err = svc.Create(context.Background(), dto.CreateExamNotificationRequest{Title: "Broken", Year: 6, Semester: 1, ExamFee: 10, StartDate: "2024-07-01", EndDate: "2024-07-11"}, actor)
	require.Error(t, err)
}

func TestExamNotificationExtendKeepsFineDeadline(t *testing.T) {
	repos := setupRepos(t)
	svc := newExamServiceForTest(repos, nil)
	ctx := context.Background()
	actor := ActivityActor{ID: 1, Role: "admin"}

	created, err := svc.Create(ctx, createExamRequest("Year 1 exams", 1, "regular"), actor)
	require.NoError(t, err)

	extended := "2024-07-20"
	lateFee := int64(300)
	updated, err := svc.Update(ctx, created.ID, dto.UpdateExamNotificationRequest{EndDate: &extended, LateFee: &lateFee}, actor)
	require.NoError(t, err)
	require.True(t, updated.EndDate.Equal(time.Date(2024, 7, 20, 0, 0, 0, 0, time.UTC)))
	require.True(t, updated.LastDateWithoutFine.Equal(time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, int64(300), updated.LateFee)

	stored, err := repos.exams.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1800), stored.EffectiveFee(time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC)))

	early := "2024-06-01"
	_, err = svc.Update(ctx, created.ID, dto.UpdateExamNotificationRequest{EndDate: &early}, actor)
	require.ErrorIs(t, err, ledger.ErrValidation)

	inactive := false
	updated, err = svc.Update(ctx, created.ID, dto.UpdateExamNotificationRequest{IsActive: &inactive}, actor)
	require.NoError(t, err)
	require.False(t, updated.IsActive)

	_, err = svc.Update(ctx, 999, dto.UpdateExamNotificationRequest{IsActive: &inactive}, actor)
	require.ErrorIs(t, err, ledger.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID, actor))
	require.ErrorIs(t, svc.Delete(ctx, created.ID, actor), ledger.ErrNotFound)
}

func TestExamNotificationListAppliesStudentVisibility(t *testing.T) {
	repos := setupRepos(t)
	svc := newExamServiceForTest(repos, nil)
	ctx := context.Background()
	admin := ActivityActor{ID: 1, Role: "admin"}

	student := seedStudent(t, repos, "1AB21CS001", 2, models.QuotaGovernment, 0)
	userID := uint(42)
	student.UserID = &userID
	require.NoError(t, repos.students.Save(ctx, &student))

	_, err := svc.Create(ctx, createExamRequest("Year 2 regular", 2, "regular"), admin)
	require.NoError(t, err)
	_, err = svc.Create(ctx, createExamRequest("Year 3 regular", 3, "regular"), admin)
	require.NoError(t, err)
	_, err = svc.Create(ctx, createExamRequest("Year 1 supply", 1, "supplementary"), admin)
	require.NoError(t, err)
	closed, err := svc.Create(ctx, createExamRequest("Year 2 closed", 2, "regular"), admin)
	require.NoError(t, err)
	inactive := false
	_, err = svc.Update(ctx, closed.ID, dto.UpdateExamNotificationRequest{IsActive: &inactive}, admin)
	require.NoError(t, err)

	visible, err := svc.List(ctx, ActivityActor{ID: 42, Role: "student"}, nil)
	require.NoError(t, err)
	titles := make([]string, 0, len(visible))
	for _, n := range visible {
		titles = append(titles, n.Title)
	}
	require.ElementsMatch(t, []string{"Year 2 regular", "Year 1 supply"}, titles)

	all, err := svc.List(ctx, admin, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)

	onlyInactive, err := svc.List(ctx, admin, &inactive)
	require.NoError(t, err)
	require.Len(t, onlyInactive, 1)

	_, err = svc.List(ctx, ActivityActor{ID: 77, Role: "student"}, nil)
	require.ErrorIs(t, err, ledger.ErrNotFound)
}
