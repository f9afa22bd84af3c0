package dto

import (
	"time"

	"github.com/noah-isme/campus-ledger-api/internal/models"
)

// CreateExamNotificationRequest announces an exam. Dates accept YYYY-MM-DD or RFC 3339.
type CreateExamNotificationRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Year        int    `json:"year" validate:"required,min=1,max=4"`
	Semester    int    `json:"semester" validate:"required,min=1,max=8"`
	ExamType    string `json:"exam_type" validate:"omitempty,oneof=regular supplementary"`
	ExamFee     int64  `json:"exam_fee" validate:"required,gt=0"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
}

// UpdateExamNotificationRequest extends the window, sets the late fee or toggles
// the notification. Nil fields are left untouched.
type UpdateExamNotificationRequest struct {
	EndDate  *string `json:"end_date"`
	LateFee  *int64  `json:"late_fee" validate:"omitempty,min=0"`
	IsActive *bool   `json:"is_active"`
}

// ExamNotificationResponse serialises an exam notification.
type ExamNotificationResponse struct {
	ID                  uint            `json:"id"`
	Title               string          `json:"title"`
	Description         string          `json:"description,omitempty"`
	Year                int             `json:"year"`
	Semester            int             `json:"semester"`
	ExamType            models.ExamType `json:"exam_type"`
	ExamFee             int64           `json:"exam_fee"`
	LateFee             int64           `json:"late_fee"`
	StartDate           time.Time       `json:"start_date"`
	EndDate             time.Time       `json:"end_date"`
	LastDateWithoutFine time.Time       `json:"last_date_without_fine"`
	IsActive            bool            `json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
}

// NewExamNotificationResponse converts a model into the API shape.
func NewExamNotificationResponse(n models.ExamNotification) ExamNotificationResponse {
	return ExamNotificationResponse{
		ID:                  n.ID,
		Title:               n.Title,
		Description:         n.Description,
		Year:                n.Year,
		Semester:            n.Semester,
		ExamType:            n.ExamType,
		ExamFee:             n.ExamFee,
		LateFee:             n.LateFee,
		StartDate:           n.StartDate,
		EndDate:             n.EndDate,
		LastDateWithoutFine: n.LastDateWithoutFine,
		IsActive:            n.IsActive,
		CreatedAt:           n.CreatedAt,
	}
}
