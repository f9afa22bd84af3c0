package models

import (
	"time"

	"github.com/noah-isme/campus-ledger-api/internal/ledger"
)

// Quota constants describe the admission quota of a student.
const (
	QuotaGovernment = "government"
	QuotaManagement = "management"
)

// Entry constants describe how a student joined the programme.
const (
	EntryRegular = "regular"
	EntryLateral = "lateral"
)

// Student is an enrolled learner together with the fee ledger embedded in the same row.
type Student struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	UserID         *uint  `gorm:"uniqueIndex" json:"user_id,omitempty"`
	USN            string `gorm:"column:usn;size:32;uniqueIndex;not null" json:"usn"`
	Name           string `gorm:"size:255;not null" json:"name"`
	Email          string `gorm:"size:255" json:"email"`
	Department     string `gorm:"size:64;not null" json:"department"`
	Quota          string `gorm:"size:16;not null;index" json:"quota"`
	Entry          string `gorm:"size:16" json:"entry"`
	TransportRoute string `gorm:"size:128" json:"transport_route"`

	ledger.Account

	Version   int64     `gorm:"not null" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
