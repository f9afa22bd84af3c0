package dto

import (
	"time"

	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/models"
)

// CreateStudentRequest captures the registrar payload for enrolling a student.
type CreateStudentRequest struct {
	USN                  string `json:"usn" validate:"required,min=3,max=32"`
	Name                 string `json:"name" validate:"required,min=1,max=255"`
	Email                string `json:"email" validate:"omitempty,email"`
	UserID               *uint  `json:"user_id"`
	Department           string `json:"department" validate:"required,max=64"`
	CurrentYear          int    `json:"current_year" validate:"required,gte=1,lte=4"`
	Quota                string `json:"quota" validate:"required,oneof=government management"`
	Entry                string `json:"entry" validate:"omitempty,oneof=regular lateral"`
	TransportOpted       bool   `json:"transport_opted"`
	TransportRoute       string `json:"transport_route" validate:"max=128"`
	HostelOpted          bool   `json:"hostel_opted"`
	PlacementOpted       bool   `json:"placement_opted"`
	AssignedCollegeFee   int64  `json:"assigned_college_fee" validate:"gte=0"`
	AssignedTransportFee int64  `json:"assigned_transport_fee" validate:"gte=0"`
	AssignedHostelFee    int64  `json:"assigned_hostel_fee" validate:"gte=0"`
	AssignedPlacementFee int64  `json:"assigned_placement_fee" validate:"gte=0"`
}

// StudentResponse serialises a student and the full fee ledger.
type StudentResponse struct {
	ID                  uint               `json:"id"`
	USN                 string             `json:"usn"`
	Name                string             `json:"name"`
	Email               string             `json:"email"`
	Department          string             `json:"department"`
	Quota               string             `json:"quota"`
	Entry               string             `json:"entry"`
	CurrentYear         int                `json:"current_year"`
	Status              ledger.Lifecycle   `json:"status"`
	TransportOpted      bool               `json:"transport_opted"`
	TransportRoute      string             `json:"transport_route"`
	HostelOpted         bool               `json:"hostel_opted"`
	PlacementOpted      bool               `json:"placement_opted"`
	Dues                ledger.Dues        `json:"dues"`
	TotalDue            int64              `json:"total_due"`
	LastSemDues         int64              `json:"last_sem_dues"`
	AnnualFees          ledger.Dues        `json:"annual_fees"`
	EligibilityOverride *bool              `json:"eligibility_override"`
	FeeRecords          []ledger.FeeRecord `json:"fee_records"`
	Version             int64              `json:"version"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// StudentSummary is the compact listing shape used by the promotion screen.
type StudentSummary struct {
	ID          uint             `json:"id"`
	USN         string           `json:"usn"`
	Name        string           `json:"name"`
	Department  string           `json:"department"`
	Quota       string           `json:"quota"`
	CurrentYear int              `json:"current_year"`
	Status      ledger.Lifecycle `json:"status"`
	TotalDue    int64            `json:"total_due"`
	Settled     bool             `json:"current_year_settled"`
}

// EligibilityResponse reports exam eligibility for a student.
type EligibilityResponse struct {
	USN          string `json:"usn"`
	CurrentYear  int    `json:"current_year"`
	PendingBooks int    `json:"pending_books"`
	ledger.Eligibility
}

// NewStudentResponse converts a model into the API shape.
func NewStudentResponse(student models.Student) StudentResponse {
	records := make([]ledger.FeeRecord, 0, len(student.Records))
	for _, record := range student.Records {
		if record.Transactions == nil {
			record.Transactions = []ledger.Transaction{}
		}
		records = append(records, record)
	}

	return StudentResponse{
		ID:                  student.ID,
		USN:                 student.USN,
		Name:                student.Name,
		Email:               student.Email,
		Department:          student.Department,
		Quota:               student.Quota,
		Entry:               student.Entry,
		CurrentYear:         student.CurrentYear,
		Status:              student.Status,
		TransportOpted:      student.TransportOpted,
		TransportRoute:      student.TransportRoute,
		HostelOpted:         student.HostelOpted,
		PlacementOpted:      student.PlacementOpted,
		Dues:                student.Dues,
		TotalDue:            student.TotalDue(),
		LastSemDues:         student.LastSemDues,
		AnnualFees:          student.Annual,
		EligibilityOverride: student.EligibilityOverride,
		FeeRecords:          records,
		Version:             student.Version,
		CreatedAt:           student.CreatedAt,
		UpdatedAt:           student.UpdatedAt,
	}
}

// NewStudentSummary converts a model into the listing shape.
func NewStudentSummary(student models.Student) StudentSummary {
	return StudentSummary{
		ID:          student.ID,
		USN:         student.USN,
		Name:        student.Name,
		Department:  student.Department,
		Quota:       student.Quota,
		CurrentYear: student.CurrentYear,
		Status:      student.Status,
		TotalDue:    student.TotalDue(),
		Settled:     !student.Records.HasUnsettledInYear(student.CurrentYear),
	}
}
