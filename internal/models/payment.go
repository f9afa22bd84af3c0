package models

import (
	"time"

	"github.com/noah-isme/campus-ledger-api/internal/ledger"
)

// PaymentType identifies what a gateway payment was made for.
type PaymentType string

// Supported gateway payment types.
const (
	PaymentCollegeFee   PaymentType = "college_fee"
	PaymentTransportFee PaymentType = "transport_fee"
	PaymentHostelFee    PaymentType = "hostel_fee"
	PaymentPlacementFee PaymentType = "placement_fee"
	PaymentExamFee      PaymentType = "exam_fee"
)

// Payment statuses. A received payment has been stored but not yet applied to the ledger.
const (
	PaymentStatusReceived  = "received"
	PaymentStatusCompleted = "completed"
)

// FeeType maps the payment type to the ledger category it settles. Exam fees have
// no ledger category.
func (p PaymentType) FeeType() (ledger.FeeType, bool) {
	switch p {
	case PaymentCollegeFee:
		return ledger.FeeCollege, true
	case PaymentTransportFee:
		return ledger.FeeTransport, true
	case PaymentHostelFee:
		return ledger.FeeHostel, true
	case PaymentPlacementFee:
		return ledger.FeePlacement, true
	default:
		return "", false
	}
}

// Label returns a human readable name used in notifications.
func (p PaymentType) Label() string {
	switch p {
	case PaymentCollegeFee:
		return "College Fee"
	case PaymentTransportFee:
		return "Transport Fee"
	case PaymentHostelFee:
		return "Hostel Fee"
	case PaymentPlacementFee:
		return "Placement Fee"
	case PaymentExamFee:
		return "Exam Fee"
	default:
		return "Fee"
	}
}

// Payment is a verified receipt from the payment gateway.
type Payment struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	StudentID          uint        `gorm:"not null;index" json:"student_id"`
	Amount             int64       `gorm:"not null" json:"amount"`
	Allocated          int64       `gorm:"not null" json:"allocated"`
	PaymentType        PaymentType `gorm:"size:32;not null" json:"payment_type"`
	GatewayOrderID     string      `gorm:"size:128;not null" json:"gateway_order_id"`
	GatewayPaymentID   string      `gorm:"size:128;not null;uniqueIndex" json:"gateway_payment_id"`
	Status             string      `gorm:"size:16;not null" json:"status"`
	ExamNotificationID *uint       `json:"exam_notification_id,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
}
