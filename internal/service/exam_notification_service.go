package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-ledger-api/internal/dto"
	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/models"
	"github.com/noah-isme/campus-ledger-api/internal/repository"
)

// RoleStudent is the only role whose notification list is narrowed to its own year.
const RoleStudent = "student"

// ExamNotificationService manages exam announcements and the fee windows attached to them.
type ExamNotificationService interface {
	Create(ctx context.Context, req dto.CreateExamNotificationRequest, actor ActivityActor) (dto.ExamNotificationResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateExamNotificationRequest, actor ActivityActor) (dto.ExamNotificationResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
	List(ctx context.Context, viewer ActivityActor, active *bool) ([]dto.ExamNotificationResponse, error)
}

type examNotificationService struct {
	notifications repository.ExamNotificationRepository
	students      repository.StudentRepository
	validator     *validator.Validate
	sanitizer     *bluemonday.Policy
	activity      ActivityRecorder
	logger        zerolog.Logger
}

// NewExamNotificationService constructs the exam notification service.
func NewExamNotificationService(
	notifications repository.ExamNotificationRepository,
	students repository.StudentRepository,
	validate *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) ExamNotificationService {
	return &examNotificationService{
		notifications: notifications,
		students:      students,
		validator:     validate,
		sanitizer:     bluemonday.StrictPolicy(),
		activity:      activity,
		logger:        logger.With().Str("component", "exam_notification_service").Logger(),
	}
}

func (s *examNotificationService) Create(ctx context.Context, req dto.CreateExamNotificationRequest, actor ActivityActor) (dto.ExamNotificationResponse, error) {
	const op = "CreateExamNotification"

	if err := s.validator.Struct(req); err != nil {
		return dto.ExamNotificationResponse{}, err
	}

	start, err := parseExamDate(op, "start_date", req.StartDate)
	if err != nil {
		return dto.ExamNotificationResponse{}, err
	}
	end, err := parseExamDate(op, "end_date", req.EndDate)
	if err != nil {
		return dto.ExamNotificationResponse{}, err
	}
	if end.Before(start) {
		return dto.ExamNotificationResponse{}, ledger.Validation(op, "end date must not precede start date")
	}

	examType := models.ExamType(req.ExamType)
	if examType == "" {
		examType = models.ExamRegular
	}

	notification := models.ExamNotification{
		Title:               sanitizeText(s.sanitizer, req.Title),
		Description:         sanitizeText(s.sanitizer, req.Description),
		Year:                req.Year,
		Semester:            req.Semester,
		ExamType:            examType,
		ExamFee:             req.ExamFee,
		StartDate:           start,
		EndDate:             end,
		LastDateWithoutFine: end,
		IsActive:            true,
	}
	if notification.Title == "" {
		return dto.ExamNotificationResponse{}, ledger.Validation(op, "title is required")
	}

	if err := s.notifications.Create(ctx, &notification); err != nil {
		s.logger.Error().Err(err).Msg("failed to store exam notification")
		return dto.ExamNotificationResponse{}, err
	}

	s.audit(ctx, actor, "exam_notification.create", notification, map[string]interface{}{
		"year":      notification.Year,
		"semester":  notification.Semester,
		"exam_type": string(notification.ExamType),
		"exam_fee":  notification.ExamFee,
	})
	return dto.NewExamNotificationResponse(notification), nil
}

// Update never moves LastDateWithoutFine, so an extended end date becomes the late window.
func (s *examNotificationService) Update(ctx context.Context, id uint, req dto.UpdateExamNotificationRequest, actor ActivityActor) (dto.ExamNotificationResponse, error) {
	const op = "UpdateExamNotification"

	if err := s.validator.Struct(req); err != nil {
		return dto.ExamNotificationResponse{}, err
	}

	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return dto.ExamNotificationResponse{}, notificationLookupError(op, err)
	}

	metadata := map[string]interface{}{}
	if req.EndDate != nil {
		end, err := parseExamDate(op, "end_date", *req.EndDate)
		if err != nil {
			return dto.ExamNotificationResponse{}, err
		}
		if end.Before(notification.StartDate) {
			return dto.ExamNotificationResponse{}, ledger.Validation(op, "end date must not precede start date")
		}
		metadata["previous_end_date"] = notification.EndDate.Format(time.DateOnly)
		metadata["end_date"] = end.Format(time.DateOnly)
		notification.EndDate = end
	}
	if req.LateFee != nil {
		metadata["late_fee"] = *req.LateFee
		notification.LateFee = *req.LateFee
	}
	if req.IsActive != nil {
		metadata["is_active"] = *req.IsActive
		notification.IsActive = *req.IsActive
	}

	if err := s.notifications.Save(ctx, &notification); err != nil {
		return dto.ExamNotificationResponse{}, notificationLookupError(op, err)
	}

	s.audit(ctx, actor, "exam_notification.update", notification, metadata)
	return dto.NewExamNotificationResponse(notification), nil
}

func (s *examNotificationService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	const op = "DeleteExamNotification"

	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return notificationLookupError(op, err)
	}
	if err := s.notifications.Delete(ctx, id); err != nil {
		return notificationLookupError(op, err)
	}

	s.audit(ctx, actor, "exam_notification.delete", notification, map[string]interface{}{"title": notification.Title})
	return nil
}

// List narrows students to notifications visible in their current year and to active
// ones unless active is given. Other roles see everything matching active.
func (s *examNotificationService) List(ctx context.Context, viewer ActivityActor, active *bool) ([]dto.ExamNotificationResponse, error) {
	filter := repository.ExamNotificationFilter{Active: active}

	if strings.EqualFold(strings.TrimSpace(viewer.Role), RoleStudent) {
		student, err := s.students.GetByUserID(ctx, viewer.ID)
		if err != nil {
			return nil, studentLookupError("ListExamNotifications", err)
		}
		filter.VisibleToYear = student.CurrentYear
		if filter.Active == nil {
			isActive := true
			filter.Active = &isActive
		}
	}

	notifications, err := s.notifications.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ExamNotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, dto.NewExamNotificationResponse(notification))
	}
	return responses, nil
}

func (s *examNotificationService) audit(ctx context.Context, actor ActivityActor, action string, notification models.ExamNotification, metadata map[string]interface{}) {
	id := notification.ID
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "exam_notification",
		EntityID:   &id,
		Metadata:   metadata,
	})
}

func parseExamDate(op, field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.DateOnly, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, ledger.Validation(op, field+" must be a date (YYYY-MM-DD)")
	}
	return parsed.UTC(), nil
}

func notificationLookupError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledger.NotFound(op, "exam notification not found")
	}
	return err
}
