package models

import "time"

// ConfigDefaultGovFee stores the annual college fee applied to government quota students.
const ConfigDefaultGovFee = "default_gov_fee"

// SystemConfig is a durable key/value setting.
type SystemConfig struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     int64     `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
