package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/campus-ledger-api/internal/ledger"
)

// Department identifies the office performing a manual ledger action.
type Department string

// Supported departments.
const (
	DepartmentAdmin     Department = "admin"
	DepartmentAdmission Department = "admission"
	DepartmentTransport Department = "transport"
	DepartmentHostel    Department = "hostel"
	DepartmentPlacement Department = "placement"
)

// Departments lists the fee-owning departments in routing order.
var Departments = []Department{DepartmentAdmission, DepartmentTransport, DepartmentHostel, DepartmentPlacement}

// ModeManual labels transactions entered by an administrator.
const ModeManual = "Manual"

// FeeType returns the ledger category the department owns. Admin owns none.
func (d Department) FeeType() (ledger.FeeType, bool) {
	switch d {
	case DepartmentAdmission:
		return ledger.FeeCollege, true
	case DepartmentTransport:
		return ledger.FeeTransport, true
	case DepartmentHostel:
		return ledger.FeeHostel, true
	case DepartmentPlacement:
		return ledger.FeePlacement, true
	default:
		return "", false
	}
}

// Mode returns the payment-mode label written on the department's transactions.
func (d Department) Mode() string {
	switch d {
	case DepartmentAdmission:
		return "Admission Dept"
	case DepartmentTransport:
		return "Transport Dept"
	case DepartmentHostel:
		return "Hostel Office"
	case DepartmentPlacement:
		return "Placement Office"
	default:
		return ModeManual
	}
}

// Role is the JWT role that may act for the department.
func (d Department) Role() string {
	return string(d)
}

// ParseDepartment converts a route or role value into a Department.
func ParseDepartment(value string) (Department, error) {
	d := Department(strings.ToLower(strings.TrimSpace(value)))
	switch d {
	case DepartmentAdmin, DepartmentAdmission, DepartmentTransport, DepartmentHostel, DepartmentPlacement:
		return d, nil
	default:
		return "", ledger.Validation("ParseDepartment", fmt.Sprintf("unknown department %q", value))
	}
}
