package models

import "time"

// Library record states.
const (
	LibraryStatusIssued   = "issued"
	LibraryStatusReturned = "returned"
)

// LibraryRecord tracks a book issued to a student. Anything not returned blocks
// promotion and exam fee payment.
type LibraryRecord struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	StudentID  uint       `gorm:"not null;index" json:"student_id"`
	BookTitle  string     `gorm:"size:255;not null" json:"book_title"`
	Status     string     `gorm:"size:16;not null;index" json:"status"`
	IssuedAt   time.Time  `json:"issued_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}
