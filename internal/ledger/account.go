package ledger

// Account is the ledger-bearing part of a student: enrolment year and lifecycle,
// opt-in flags, the cached aggregate dues, the annual baselines and the ledger itself.
// It is embedded in the persisted student so one row holds the whole ledger.
type Account struct {
	CurrentYear         int       `gorm:"not null;index" json:"current_year"`
	Status              Lifecycle `gorm:"size:16;not null;default:'active';index" json:"status"`
	TransportOpted      bool      `gorm:"not null;default:false" json:"transport_opted"`
	HostelOpted         bool      `gorm:"not null;default:false" json:"hostel_opted"`
	PlacementOpted      bool      `gorm:"not null;default:false" json:"placement_opted"`
	Dues                Dues      `gorm:"embedded;embeddedPrefix:due_" json:"dues"`
	LastSemDues         int64     `gorm:"not null;default:0" json:"last_sem_dues"`
	Annual              Dues      `gorm:"embedded;embeddedPrefix:annual_" json:"annual_fees"`
	EligibilityOverride *bool     `json:"eligibility_override"`
	Records             Ledger    `gorm:"type:json;serializer:json" json:"fee_records"`
}

// Opted reports whether the account is billed for feeType. College is always billed.
func (a *Account) Opted(feeType FeeType) bool {
	switch feeType {
	case FeeCollege:
		return true
	case FeeTransport:
		return a.TransportOpted
	case FeeHostel:
		return a.HostelOpted
	case FeePlacement:
		return a.PlacementOpted
	default:
		return false
	}
}

// TotalDue sums the four aggregate dues.
func (a *Account) TotalDue() int64 {
	return a.Dues.Total()
}
