package ledger

import (
	"fmt"
	"strings"
)

// FeeType identifies the billing category of a fee record.
type FeeType string

// Supported fee categories.
const (
	FeeCollege   FeeType = "college"
	FeeTransport FeeType = "transport"
	FeeHostel    FeeType = "hostel"
	FeePlacement FeeType = "placement"
	FeeOther     FeeType = "other"
)

// DueCategories lists the fee types that carry a top-level aggregate due, in display order.
var DueCategories = []FeeType{FeeCollege, FeeTransport, FeeHostel, FeePlacement}

// Valid reports whether the fee type belongs to the closed set.
func (f FeeType) Valid() bool {
	switch f {
	case FeeCollege, FeeTransport, FeeHostel, FeePlacement, FeeOther:
		return true
	default:
		return false
	}
}

// HasAggregate reports whether the fee type is tracked by an aggregate due scalar.
func (f FeeType) HasAggregate() bool {
	switch f {
	case FeeCollege, FeeTransport, FeeHostel, FeePlacement:
		return true
	default:
		return false
	}
}

// ParseFeeType converts user input into a FeeType.
func ParseFeeType(value string) (FeeType, error) {
	ft := FeeType(strings.ToLower(strings.TrimSpace(value)))
	if !ft.Valid() {
		return "", Validation("ParseFeeType", fmt.Sprintf("unknown fee type %q", value))
	}
	return ft, nil
}

// Status is the settlement state of a fee record.
type Status string

// Record settlement states.
const (
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// Lifecycle is the enrolment state of a student.
type Lifecycle string

// Student lifecycle states.
const (
	LifecycleActive    Lifecycle = "active"
	LifecycleDetained  Lifecycle = "detained"
	LifecycleDropout   Lifecycle = "dropout"
	LifecycleGraduated Lifecycle = "graduated"
)

// Valid reports whether the lifecycle value is known.
func (l Lifecycle) Valid() bool {
	switch l {
	case LifecycleActive, LifecycleDetained, LifecycleDropout, LifecycleGraduated:
		return true
	default:
		return false
	}
}
