package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/models"
	"github.com/noah-isme/campus-ledger-api/internal/repository"
)

// StudentService covers enrolment and read access to student ledgers.
type StudentService interface {
	Create(ctx context.Context, req dto.CreateStudentRequest, actor ActivityActor) (dto.StudentResponse, error)
	GetByUSN(ctx context.Context, usn string) (dto.StudentResponse, error)
	GetByUserID(ctx context.Context, userID uint) (dto.StudentResponse, error)
	Search(ctx context.Context, query string) (dto.StudentResponse, error)
	ListActiveByYear(ctx context.Context, year int) ([]dto.StudentSummary, error)
	Eligibility(ctx context.Context, usn string) (dto.EligibilityResponse, error)
}

type studentService struct {
	students  repository.StudentRepository
	configs   repository.ConfigRepository
	library   repository.LibraryRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(
	students repository.StudentRepository,
	configs repository.ConfigRepository,
	library repository.LibraryRepository,
	validate *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		students:  students,
		configs:   configs,
		library:   library,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		activity:  activity,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Create(ctx context.Context, req dto.CreateStudentRequest, actor ActivityActor) (dto.StudentResponse, error) {
	const op = "CreateStudent"

	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	usn := normalizeUSN(req.USN)
	if _, err := s.students.GetByUSN(ctx, usn); err == nil {
		return dto.StudentResponse{}, ledger.Conflict(op, "student with this USN already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		UserID:     req.UserID,
		USN:        usn,
		Name:       sanitizeText(s.sanitizer, req.Name),
		Email:      strings.TrimSpace(req.Email),
		Department: sanitizeText(s.sanitizer, req.Department),
		Quota:      req.Quota,
		Entry:      req.Entry,
	}
	if student.Entry == "" {
		student.Entry = models.EntryRegular
	}
	if student.Name == "" {
		return dto.StudentResponse{}, ledger.Validation(op, "name is required")
	}

	student.CurrentYear = req.CurrentYear
	student.Status = ledger.LifecycleActive
	student.HostelOpted = req.HostelOpted
	student.TransportOpted = req.TransportOpted && !req.HostelOpted
	student.PlacementOpted = req.PlacementOpted
	if student.TransportOpted {
		student.TransportRoute = sanitizeText(s.sanitizer, req.TransportRoute)
	}

	collegeFee := req.AssignedCollegeFee
	if req.Quota == models.QuotaGovernment {
		fee, _, err := s.configs.GetInt(ctx, models.ConfigDefaultGovFee)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to read default government fee")
			return dto.StudentResponse{}, err
		}
		collegeFee = fee
	}

	student.Annual.Set(ledger.FeeCollege, collegeFee)
	if student.TransportOpted {
		student.Annual.Set(ledger.FeeTransport, req.AssignedTransportFee)
	}
	if student.HostelOpted {
		student.Annual.Set(ledger.FeeHostel, req.AssignedHostelFee)
	}
	if student.PlacementOpted {
		student.Annual.Set(ledger.FeePlacement, req.AssignedPlacementFee)
	}
	student.SeedEntryYear()

	if err := s.students.Create(ctx, &student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.StudentResponse{}, ledger.Conflict(op, "student with this USN already exists")
		}
		s.logger.Error().Err(err).Str("usn", usn).Msg("failed to create student")
		return dto.StudentResponse{}, err
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     "student.created",
		EntityType: "student",
		EntityID:   &student.ID,
		EntityKey:  student.USN,
		Metadata: map[string]interface{}{
			"quota":        student.Quota,
			"current_year": student.CurrentYear,
			"total_due":    student.TotalDue(),
		},
	})

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) GetByUSN(ctx context.Context, usn string) (dto.StudentResponse, error) {
	student, err := s.students.GetByUSN(ctx, normalizeUSN(usn))
	if err != nil {
		return dto.StudentResponse{}, studentLookupError("GetStudent", err)
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) GetByUserID(ctx context.Context, userID uint) (dto.StudentResponse, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return dto.StudentResponse{}, studentLookupError("GetStudent", err)
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Search(ctx context.Context, query string) (dto.StudentResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return dto.StudentResponse{}, ledger.Validation("SearchStudent", "search query is required")
	}

	student, err := s.students.Search(ctx, query)
	if err != nil {
		return dto.StudentResponse{}, studentLookupError("SearchStudent", err)
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) ListActiveByYear(ctx context.Context, year int) ([]dto.StudentSummary, error) {
	if !ledger.ValidYear(year) {
		return nil, ledger.Validation("ListActiveByYear", "year must be between 1 and 4")
	}

	students, err := s.students.List(ctx, repository.StudentFilter{Year: year, Status: ledger.LifecycleActive})
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.StudentSummary, 0, len(students))
	for _, student := range students {
		summaries = append(summaries, dto.NewStudentSummary(student))
	}
	return summaries, nil
}

func (s *studentService) Eligibility(ctx context.Context, usn string) (dto.EligibilityResponse, error) {
	student, err := s.students.GetByUSN(ctx, normalizeUSN(usn))
	if err != nil {
		return dto.EligibilityResponse{}, studentLookupError("Eligibility", err)
	}

	books, err := s.library.CountOutstanding(ctx, student.ID)
	if err != nil {
		return dto.EligibilityResponse{}, err
	}

	return dto.EligibilityResponse{
		USN:          student.USN,
		CurrentYear:  student.CurrentYear,
		PendingBooks: books,
		Eligibility:  student.ExamEligibility(books),
	}, nil
}

func normalizeUSN(usn string) string {
	return strings.ToUpper(strings.TrimSpace(usn))
}

func sanitizeText(policy *bluemonday.Policy, value string) string {
	return strings.TrimSpace(policy.Sanitize(strings.TrimSpace(value)))
}
