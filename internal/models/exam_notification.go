package models

import "time"

// ExamType separates regular sittings from supplementary (backlog) sittings.
type ExamType string

// Supported exam types.
const (
	ExamRegular       ExamType = "regular"
	ExamSupplementary ExamType = "supplementary"
)

// ExamNotification announces an exam and the fee students pay to sit it.
// LastDateWithoutFine starts at the original end date; extending EndDate later
// opens a late window in which LateFee is added.
type ExamNotification struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Title               string    `gorm:"size:200;not null" json:"title"`
	Description         string    `gorm:"type:text" json:"description"`
	Year                int       `gorm:"not null;index" json:"year"`
	Semester            int       `gorm:"not null" json:"semester"`
	ExamType            ExamType  `gorm:"size:16;not null" json:"exam_type"`
	ExamFee             int64     `gorm:"not null" json:"exam_fee"`
	LateFee             int64     `gorm:"not null" json:"late_fee"`
	StartDate           time.Time `gorm:"not null" json:"start_date"`
	EndDate             time.Time `gorm:"not null" json:"end_date"`
	LastDateWithoutFine time.Time `gorm:"not null" json:"last_date_without_fine"`
	IsActive            bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// VisibleTo reports whether a student in year may see the notification. Regular
// exams target one year; supplementary exams stay open to every later year.
func (n ExamNotification) VisibleTo(year int) bool {
	if n.ExamType == ExamSupplementary {
		return n.Year <= year
	}
	return n.Year == year
}

// Open reports whether fees are accepted at the given time. Both dates are whole days.
func (n ExamNotification) Open(at time.Time) bool {
	if !n.IsActive {
		return false
	}
	return !at.Before(startOfDay(n.StartDate)) && at.Before(nextDay(n.EndDate))
}

// EffectiveFee is the exam fee due at the given time, including the late fee once
// the last date without fine has passed.
func (n ExamNotification) EffectiveFee(at time.Time) int64 {
	if at.Before(nextDay(n.LastDateWithoutFine)) {
		return n.ExamFee
	}
	return n.ExamFee + n.LateFee
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func nextDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}
