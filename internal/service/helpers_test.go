package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/models"
	"github.com/noah-isme/campus-ledger-api/internal/repository"
)

var fixedNow = time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

type testRepos struct {
	db       *gorm.DB
	students repository.StudentRepository
	configs  repository.ConfigRepository
	library  repository.LibraryRepository
	payments repository.PaymentRepository
	activity repository.ActivityLogRepository
	exams    repository.ExamNotificationRepository
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.SystemConfig{}, &models.LibraryRecord{}, &models.Payment{}, &models.ActivityLog{}, &models.ExamNotification{}))

	return testRepos{
		db:       db,
		students: repository.NewStudentRepository(db),
		configs:  repository.NewConfigRepository(db),
		library:  repository.NewLibraryRepository(db),
		payments: repository.NewPaymentRepository(db),
		activity: repository.NewActivityLogRepository(db),
		exams:    repository.NewExamNotificationRepository(db),
	}
}

// seedStudent stores a student billed for year with the given annual college fee.
func seedStudent(t *testing.T, repos testRepos, usn string, year int, quota string, collegeFee int64) models.Student {
	t.Helper()
	student := models.Student{
		USN:        usn,
		Name:       "Student " + usn,
		Email:      strings.ToLower(usn) + "@campus.test",
		Department: "CSE",
		Quota:      quota,
		Entry:      models.EntryRegular,
	}
	student.CurrentYear = year
	student.Status = ledger.LifecycleActive
	if collegeFee > 0 {
		require.NoError(t, student.AssignAnnualFee(ledger.FeeCollege, year, collegeFee))
	}
	require.NoError(t, repos.students.Create(context.Background(), &student))
	return student
}

func reload(t *testing.T, repos testRepos, usn string) models.Student {
	t.Helper()
	student, err := repos.students.GetByUSN(context.Background(), usn)
	require.NoError(t, err)
	return student
}

func ptrInt64(v int64) *int64 {
	return &v
}

func ptrInt(v int) *int {
	return &v
}

func ptrBool(v bool) *bool {
	return &v
}

func ptrUint(v uint) *uint {
	return &v
}

// failingSaveRepo rejects Save for one USN and delegates everything else.
type failingSaveRepo struct {
	repository.StudentRepository
	failUSN string
	saved   []string
}

func (r *failingSaveRepo) Save(ctx context.Context, student *models.Student) error {
	if student.USN == r.failUSN {
		return errors.New("disk full")
	}
	if err := r.StudentRepository.Save(ctx, student); err != nil {
		return err
	}
	r.saved = append(r.saved, student.USN)
	return nil
}
