package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/lock"
	"github.com/noah-isme/campus-ledger-api/internal/models"
	"github.com/noah-isme/campus-ledger-api/internal/repository"
)

// FeeAssignmentResult is the outcome of an assignment; exactly one of Bulk and
// Student is set depending on the quota.
type FeeAssignmentResult struct {
	Quota   string                      `json:"quota"`
	Bulk    *dto.BulkAssignmentResponse `json:"bulk,omitempty"`
	Student *dto.StudentResponse        `json:"student,omitempty"`
}

// FeeAssignmentService assigns annual college fees per quota.
type FeeAssignmentService interface {
	Assign(ctx context.Context, req dto.FeeAssignmentRequest, actor ActivityActor) (FeeAssignmentResult, error)
	SetGovernmentFee(ctx context.Context, year int, amount int64, actor ActivityActor) (dto.BulkAssignmentResponse, error)
	AssignManagementFee(ctx context.Context, usn string, year int, amount int64, actor ActivityActor) (dto.StudentResponse, error)
	GetSystemConfig(ctx context.Context) (dto.SystemConfigResponse, error)
}

type feeAssignmentService struct {
	store     *ledgerStore
	configs   repository.ConfigRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewFeeAssignmentService constructs the fee assignment service.
func NewFeeAssignmentService(
	students repository.StudentRepository,
	configs repository.ConfigRepository,
	locker lock.Locker,
	validate *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) FeeAssignmentService {
	scoped := logger.With().Str("component", "fee_assignment_service").Logger()
	return &feeAssignmentService{
		store:     newLedgerStore(students, locker, scoped),
		configs:   configs,
		validator: validate,
		activity:  activity,
		logger:    scoped,
	}
}

func (s *feeAssignmentService) Assign(ctx context.Context, req dto.FeeAssignmentRequest, actor ActivityActor) (FeeAssignmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return FeeAssignmentResult{}, err
	}

	result := FeeAssignmentResult{Quota: req.Quota}
	if req.Quota == models.QuotaGovernment {
		bulk, err := s.SetGovernmentFee(ctx, req.Year, *req.Amount, actor)
		if err != nil {
			return FeeAssignmentResult{}, err
		}
		result.Bulk = &bulk
		return result, nil
	}

	student, err := s.AssignManagementFee(ctx, req.USN, req.Year, *req.Amount, actor)
	if err != nil {
		return FeeAssignmentResult{}, err
	}
	result.Student = &student
	return result, nil
}

// SetGovernmentFee revises the college fee of every active government student in
// year. Each student is written independently so one failure does not stop the rest.
func (s *feeAssignmentService) SetGovernmentFee(ctx context.Context, year int, amount int64, actor ActivityActor) (dto.BulkAssignmentResponse, error) {
	const op = "SetGovernmentFee"

	tracer := otel.Tracer("github.com/noah-isme/campus-ledger-api/internal/service/fee_assignment")
	ctx, span := tracer.Start(ctx, "fee.assign_government")
	span.SetAttributes(attribute.Int("fee.year", year), attribute.Int64("fee.amount", amount))
	defer span.End()

	if !ledger.ValidYear(year) {
		err := ledger.Validation(op, "year must be between 1 and 4")
		failSpan(span, err, "validation_failed")
		return dto.BulkAssignmentResponse{}, err
	}
	if amount < 0 {
		err := ledger.Validation(op, "amount must not be negative")
		failSpan(span, err, "validation_failed")
		return dto.BulkAssignmentResponse{}, err
	}

	students, err := s.store.students.List(ctx, repository.StudentFilter{
		Year:   year,
		Quota:  models.QuotaGovernment,
		Status: ledger.LifecycleActive,
	})
	if err != nil {
		failSpan(span, err, "list_students_failed")
		return dto.BulkAssignmentResponse{}, err
	}

	resp := dto.BulkAssignmentResponse{Year: year, Amount: amount, Matched: len(students)}
	for _, candidate := range students {
		_, changed, err := s.store.mutateByID(ctx, op, candidate.USN, candidate.ID, func(student *models.Student) error {
			if student.Quota != models.QuotaGovernment || student.Status != ledger.LifecycleActive || student.CurrentYear != year {
				return errNoChange
			}
			return student.AssignAnnualFee(ledger.FeeCollege, year, amount)
		})
		if err != nil {
			span.RecordError(err)
			s.logger.Error().Err(err).Str("usn", candidate.USN).Msg("failed to assign government fee")
			resp.Failed++
			resp.FailedUSNs = append(resp.FailedUSNs, candidate.USN)
			continue
		}
		if changed {
			resp.Updated++
		}
	}

	if err := s.configs.SetInt(ctx, models.ConfigDefaultGovFee, amount); err != nil {
		failSpan(span, err, "persist_default_fee_failed")
		return dto.BulkAssignmentResponse{}, err
	}

	span.SetAttributes(
		attribute.Int("fee.matched", resp.Matched),
		attribute.Int("fee.updated", resp.Updated),
		attribute.Int("fee.failed", resp.Failed),
	)

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "fee.government_assigned",
		EntityType: "system_config",
		EntityKey:  models.ConfigDefaultGovFee,
		Metadata: map[string]interface{}{
			"year":    year,
			"amount":  amount,
			"matched": resp.Matched,
			"updated": resp.Updated,
			"failed":  resp.Failed,
		},
	})

	return resp, nil
}

func (s *feeAssignmentService) AssignManagementFee(ctx context.Context, usn string, year int, amount int64, actor ActivityActor) (dto.StudentResponse, error) {
	const op = "AssignManagementFee"

	if !ledger.ValidYear(year) {
		return dto.StudentResponse{}, ledger.Validation(op, "year must be between 1 and 4")
	}

	student, _, err := s.store.mutateByUSN(ctx, op, normalizeUSN(usn), func(student *models.Student) error {
		if student.Quota != models.QuotaManagement {
			return ledger.NotFound(op, "management quota student not found")
		}
		return student.AssignAnnualFee(ledger.FeeCollege, year, amount)
	})
	if err != nil {
		return dto.StudentResponse{}, err
	}

	studentID := student.ID
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "fee.management_assigned",
		EntityType: "student",
		EntityID:   &studentID,
		EntityKey:  student.USN,
		Metadata: map[string]interface{}{
			"year":   year,
			"amount": amount,
		},
	})

	return dto.NewStudentResponse(student), nil
}

func (s *feeAssignmentService) GetSystemConfig(ctx context.Context) (dto.SystemConfigResponse, error) {
	fee, _, err := s.configs.GetInt(ctx, models.ConfigDefaultGovFee)
	if err != nil {
		return dto.SystemConfigResponse{}, err
	}
	return dto.SystemConfigResponse{DefaultGovFee: fee}, nil
}

func failSpan(span trace.Span, err error, status string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
}
