package dto

import "github.com/noah-isme/campus-ledger-api/internal/ledger"

// DepartmentUpdateRequest is the payload a department desk submits for one student.
// Every field is optional; set fields are applied in one ledger write.
type DepartmentUpdateRequest struct {
	Due            *int64  `json:"due" validate:"omitempty,gte=0"`
	MarkSemPaid    *int    `json:"mark_sem_paid" validate:"omitempty,gte=1,lte=8"`
	AnnualFee      *int64  `json:"annual_fee" validate:"omitempty,gte=0"`
	Year           *int    `json:"year" validate:"omitempty,gte=1,lte=4"`
	TransportOpted *bool   `json:"transport_opted"`
	TransportRoute *string `json:"transport_route" validate:"omitempty,max=128"`
	HostelOpted    *bool   `json:"hostel_opted"`
	PlacementOpted *bool   `json:"placement_opted"`
	Reference      string  `json:"reference" validate:"max=255"`
}

// OverrideDueRequest sets one aggregate due directly.
type OverrideDueRequest struct {
	Due       *int64 `json:"due" validate:"required,gte=0"`
	Reference string `json:"reference" validate:"max=255"`
}

// MarkSemesterRequest settles one semester record.
type MarkSemesterRequest struct {
	Semester int `json:"semester" validate:"required,gte=1,lte=8"`
}

// AssignAnnualFeeRequest assigns or revises an annual fee. Year defaults to the current year.
type AssignAnnualFeeRequest struct {
	Year   int    `json:"year" validate:"omitempty,gte=1,lte=4"`
	Amount *int64 `json:"amount" validate:"required,gte=0"`
}

// AdminFeeUpdateRequest is the administrator's composite fee edit.
type AdminFeeUpdateRequest struct {
	FeeRecordID string `json:"fee_record_id" validate:"required_with=Amount"`
	Amount      *int64 `json:"amount" validate:"omitempty,gt=0"`
	Mode        string `json:"mode" validate:"max=64"`
	Reference   string `json:"reference" validate:"max=255"`

	CollegeFeeDue   *int64 `json:"college_fee_due" validate:"omitempty,gte=0"`
	TransportFeeDue *int64 `json:"transport_fee_due" validate:"omitempty,gte=0"`
	HostelFeeDue    *int64 `json:"hostel_fee_due" validate:"omitempty,gte=0"`
	PlacementFeeDue *int64 `json:"placement_fee_due" validate:"omitempty,gte=0"`

	AnnualCollegeFee   *int64 `json:"annual_college_fee" validate:"omitempty,gte=0"`
	AnnualTransportFee *int64 `json:"annual_transport_fee" validate:"omitempty,gte=0"`
	AnnualHostelFee    *int64 `json:"annual_hostel_fee" validate:"omitempty,gte=0"`
	AnnualPlacementFee *int64 `json:"annual_placement_fee" validate:"omitempty,gte=0"`

	LastSemDues              *int64  `json:"last_sem_dues" validate:"omitempty,gte=0"`
	Status                   *string `json:"status" validate:"omitempty,oneof=active detained dropout graduated"`
	TransportOpted           *bool   `json:"transport_opted"`
	EligibilityOverride      *bool   `json:"eligibility_override"`
	ClearEligibilityOverride bool    `json:"clear_eligibility_override"`
}

// DueOverrides returns the requested aggregate overrides keyed by fee type.
func (r AdminFeeUpdateRequest) DueOverrides() map[ledger.FeeType]int64 {
	overrides := make(map[ledger.FeeType]int64)
	pairs := []struct {
		feeType ledger.FeeType
		value   *int64
	}{
		{ledger.FeeCollege, r.CollegeFeeDue},
		{ledger.FeeTransport, r.TransportFeeDue},
		{ledger.FeeHostel, r.HostelFeeDue},
		{ledger.FeePlacement, r.PlacementFeeDue},
	}
	for _, pair := range pairs {
		if pair.value != nil {
			overrides[pair.feeType] = *pair.value
		}
	}
	return overrides
}

// AnnualBaselines returns the requested annual baselines keyed by fee type.
func (r AdminFeeUpdateRequest) AnnualBaselines() map[ledger.FeeType]int64 {
	baselines := make(map[ledger.FeeType]int64)
	pairs := []struct {
		feeType ledger.FeeType
		value   *int64
	}{
		{ledger.FeeCollege, r.AnnualCollegeFee},
		{ledger.FeeTransport, r.AnnualTransportFee},
		{ledger.FeeHostel, r.AnnualHostelFee},
		{ledger.FeePlacement, r.AnnualPlacementFee},
	}
	for _, pair := range pairs {
		if pair.value != nil {
			baselines[pair.feeType] = *pair.value
		}
	}
	return baselines
}

// LedgerChangeResponse returns the updated student along with what the change did.
type LedgerChangeResponse struct {
	Student        StudentResponse         `json:"student"`
	Overrides      []ledger.OverrideResult `json:"overrides,omitempty"`
	SemesterPaid   int64                   `json:"semester_paid_amount,omitempty"`
	AlreadySettled bool                    `json:"already_settled,omitempty"`
	Changed        bool                    `json:"changed"`
}

// FeeAssignmentRequest assigns the annual college fee for a quota. Government
// assignments apply to every active student of the year; management assignments
// target one USN.
type FeeAssignmentRequest struct {
	Quota  string `json:"quota" validate:"required,oneof=government management"`
	Year   int    `json:"current_year" validate:"required,gte=1,lte=4"`
	Amount *int64 `json:"amount" validate:"required,gte=0"`
	USN    string `json:"usn" validate:"required_if=Quota management,max=32"`
}

// BulkAssignmentResponse summarises a government fee revision.
type BulkAssignmentResponse struct {
	Year       int      `json:"year"`
	Amount     int64    `json:"amount"`
	Matched    int      `json:"matched"`
	Updated    int      `json:"updated"`
	Failed     int      `json:"failed"`
	FailedUSNs []string `json:"failed_usns,omitempty"`
}

// SystemConfigResponse exposes durable settings.
type SystemConfigResponse struct {
	DefaultGovFee int64 `json:"default_gov_fee"`
}
