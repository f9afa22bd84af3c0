package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/lock"
	"github.com/noah-isme/campus-ledger-api/internal/models"
	"github.com/noah-isme/campus-ledger-api/internal/observability"
	"github.com/noah-isme/campus-ledger-api/internal/repository"
)

// errNoChange lets a mutation finish without a write.
var errNoChange = errors.New("ledger unchanged")

// ledgerStore runs every ledger change as lock, load, mutate in memory, save.
// A mutation that fails leaves the stored row untouched.
type ledgerStore struct {
	students repository.StudentRepository
	locker   lock.Locker
	now      func() time.Time
	logger   zerolog.Logger
}

func newLedgerStore(students repository.StudentRepository, locker lock.Locker, logger zerolog.Logger) *ledgerStore {
	if locker == nil {
		locker = lock.Noop{}
	}
	return &ledgerStore{
		students: students,
		locker:   locker,
		now:      time.Now,
		logger:   logger,
	}
}

// saveFunc persists a mutated student. The zero value saves only the student row.
type saveFunc func(context.Context, *models.Student) error

func (s *ledgerStore) mutateByUSN(ctx context.Context, op, usn string, fn func(*models.Student) error) (models.Student, bool, error) {
	return s.mutate(ctx, op, usn, func(ctx context.Context) (models.Student, error) {
		return s.students.GetByUSN(ctx, usn)
	}, fn, nil)
}

func (s *ledgerStore) mutateByID(ctx context.Context, op, usn string, id uint, fn func(*models.Student) error) (models.Student, bool, error) {
	return s.mutateByIDWith(ctx, op, usn, id, fn, nil)
}

func (s *ledgerStore) mutateByIDWith(ctx context.Context, op, usn string, id uint, fn func(*models.Student) error, save saveFunc) (models.Student, bool, error) {
	return s.mutate(ctx, op, usn, func(ctx context.Context) (models.Student, error) {
		return s.students.GetByID(ctx, id)
	}, fn, save)
}

// mutate reports whether a write happened alongside the resulting student.
func (s *ledgerStore) mutate(ctx context.Context, op, key string, load func(context.Context) (models.Student, error), fn func(*models.Student) error, save saveFunc) (models.Student, bool, error) {
	if save == nil {
		save = s.students.Save
	}

	release, err := s.locker.Acquire(ctx, key)
	if err != nil {
		observability.LedgerMutations().WithLabelValues(op, "locked").Inc()
		if errors.Is(err, lock.ErrLockHeld) {
			return models.Student{}, false, &ledger.Error{Op: op, Kind: ledger.ErrConcurrentModification, Message: "student ledger is busy, retry shortly"}
		}
		return models.Student{}, false, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn().Err(err).
				Str("usn", key).
				Str("operation", op).
				Str("correlation_id", observability.CorrelationID(ctx)).
				Msg("failed to release student lock")
		}
	}()

	student, err := load(ctx)
	if err != nil {
		observability.LedgerMutations().WithLabelValues(op, "error").Inc()
		return models.Student{}, false, studentLookupError(op, err)
	}

	if err := fn(&student); err != nil {
		if errors.Is(err, errNoChange) {
			observability.LedgerMutations().WithLabelValues(op, "unchanged").Inc()
			return student, false, nil
		}
		observability.LedgerMutations().WithLabelValues(op, "rejected").Inc()
		return models.Student{}, false, err
	}

	if err := save(ctx, &student); err != nil {
		observability.LedgerMutations().WithLabelValues(op, "error").Inc()
		switch {
		case errors.Is(err, repository.ErrStaleStudent):
			return models.Student{}, false, &ledger.Error{Op: op, Kind: ledger.ErrConcurrentModification, Message: "student was modified concurrently, retry"}
		case errors.Is(err, gorm.ErrRecordNotFound):
			return models.Student{}, false, ledger.NotFound(op, "student not found")
		default:
			return models.Student{}, false, err
		}
	}

	observability.LedgerMutations().WithLabelValues(op, "saved").Inc()
	return student, true, nil
}

func studentLookupError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledger.NotFound(op, "student not found")
	}
	return err
}
