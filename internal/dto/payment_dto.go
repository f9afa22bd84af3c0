package dto

import (
	"time"

	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/models"
)

// VerifyPaymentRequest is the gateway callback relayed by the student client.
type VerifyPaymentRequest struct {
	OrderID            string `json:"gateway_order_id" validate:"required,max=128"`
	PaymentID          string `json:"gateway_payment_id" validate:"required,max=128"`
	Signature          string `json:"signature" validate:"max=256"`
	PaymentType        string `json:"payment_type" validate:"required,oneof=college_fee transport_fee hostel_fee placement_fee exam_fee"`
	Amount             int64  `json:"amount" validate:"required,gt=0"`
	ExamNotificationID *uint  `json:"exam_notification_id"`
}

// PaymentResponse serialises a gateway payment receipt.
type PaymentResponse struct {
	ID                 uint                `json:"id"`
	StudentID          uint                `json:"student_id"`
	Amount             int64               `json:"amount"`
	Allocated          int64               `json:"allocated"`
	PaymentType        models.PaymentType  `json:"payment_type"`
	GatewayOrderID     string              `json:"gateway_order_id"`
	GatewayPaymentID   string              `json:"gateway_payment_id"`
	Status             string              `json:"status"`
	ExamNotificationID *uint               `json:"exam_notification_id,omitempty"`
	Allocations        []ledger.Allocation `json:"allocations,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// NewPaymentResponse converts a payment model into the API shape.
func NewPaymentResponse(payment models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                 payment.ID,
		StudentID:          payment.StudentID,
		Amount:             payment.Amount,
		Allocated:          payment.Allocated,
		PaymentType:        payment.PaymentType,
		GatewayOrderID:     payment.GatewayOrderID,
		GatewayPaymentID:   payment.GatewayPaymentID,
		Status:             payment.Status,
		ExamNotificationID: payment.ExamNotificationID,
		CreatedAt:          payment.CreatedAt,
	}
}
