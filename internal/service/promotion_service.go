package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/lock"
	"github.com/noah-isme/campus-ledger-api/internal/models"
	"github.com/noah-isme/campus-ledger-api/internal/observability"
	"github.com/noah-isme/campus-ledger-api/internal/repository"
)

const outcomeFailed = "failed"

// PromotionService advances a cohort to the next year.
type PromotionService interface {
	Promote(ctx context.Context, req dto.PromotionRequest, actor ActivityActor) (dto.PromotionSummary, error)
}

type promotionService struct {
	store     *ledgerStore
	library   repository.LibraryRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewPromotionService constructs the promotion service.
func NewPromotionService(
	students repository.StudentRepository,
	library repository.LibraryRepository,
	locker lock.Locker,
	validate *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) PromotionService {
	scoped := logger.With().Str("component", "promotion_service").Logger()
	return &promotionService{
		store:     newLedgerStore(students, locker, scoped),
		library:   library,
		validator: validate,
		activity:  activity,
		logger:    scoped,
	}
}

// Promote attempts every active student of the year. Each student is reloaded and
// written under its own lock; a failure is counted and the batch continues.
func (s *promotionService) Promote(ctx context.Context, req dto.PromotionRequest, actor ActivityActor) (dto.PromotionSummary, error) {
	const op = "Promote"

	tracer := otel.Tracer("github.com/noah-isme/campus-ledger-api/internal/service/promotion")
	ctx, span := tracer.Start(ctx, "promotion.batch")
	span.SetAttributes(attribute.Int("promotion.year", req.Year))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		failSpan(span, err, "validation_failed")
		return dto.PromotionSummary{}, err
	}

	candidates, err := s.store.students.List(ctx, repository.StudentFilter{Year: req.Year, Status: ledger.LifecycleActive})
	if err != nil {
		failSpan(span, err, "list_students_failed")
		return dto.PromotionSummary{}, err
	}

	summary := dto.PromotionSummary{
		Year:    req.Year,
		Total:   len(candidates),
		Results: make([]dto.PromotionStudentResult, 0, len(candidates)),
	}

	for _, candidate := range candidates {
		result, err := s.promoteOne(ctx, op, candidate)
		if err != nil {
			span.RecordError(err)
			s.logger.Error().Err(err).Str("usn", candidate.USN).Msg("failed to promote student")
			observability.PromotionOutcomes().WithLabelValues(outcomeFailed).Inc()
			summary.Failed++
			summary.Results = append(summary.Results, dto.PromotionStudentResult{USN: candidate.USN, Outcome: outcomeFailed})
			continue
		}

		observability.PromotionOutcomes().WithLabelValues(string(result.Outcome)).Inc()
		entry := dto.PromotionStudentResult{USN: candidate.USN, Outcome: string(result.Outcome)}
		switch result.Outcome {
		case ledger.OutcomePromoted:
			summary.Promoted++
			entry.ToYear = result.ToYear
		case ledger.OutcomeGraduated:
			summary.Graduated++
		default:
			summary.Skipped++
			entry.Reasons = result.Reasons
			s.logger.Debug().Str("usn", candidate.USN).Interface("reasons", result.Reasons).Msg("promotion skipped")
		}
		summary.Results = append(summary.Results, entry)
	}

	span.SetAttributes(
		attribute.Int("promotion.total", summary.Total),
		attribute.Int("promotion.promoted", summary.Promoted),
		attribute.Int("promotion.graduated", summary.Graduated),
		attribute.Int("promotion.skipped", summary.Skipped),
		attribute.Int("promotion.failed", summary.Failed),
	)

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "promotion.batch_completed",
		EntityType: "cohort",
		Metadata: map[string]interface{}{
			"year":      summary.Year,
			"total":     summary.Total,
			"promoted":  summary.Promoted,
			"graduated": summary.Graduated,
			"skipped":   summary.Skipped,
			"failed":    summary.Failed,
		},
	})

	return summary, nil
}

func (s *promotionService) promoteOne(ctx context.Context, op string, candidate models.Student) (ledger.PromotionResult, error) {
	books, err := s.library.CountOutstanding(ctx, candidate.ID)
	if err != nil {
		return ledger.PromotionResult{}, err
	}

	var result ledger.PromotionResult
	_, _, err = s.store.mutateByID(ctx, op, candidate.USN, candidate.ID, func(student *models.Student) error {
		if student.CurrentYear != candidate.CurrentYear {
			return ledger.Conflict(op, "student year changed since the batch started")
		}
		result = student.Advance(books)
		if result.Outcome == ledger.OutcomeSkipped {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return ledger.PromotionResult{}, err
	}
	return result, nil
}
