package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-ledger-api/internal/models"
)

// PaymentRepository persists gateway payment receipts. Fee payments are completed
// through StudentRepository.SaveWithPayment together with the ledger write.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (models.Payment, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository constructs the payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	err := r.db.WithContext(ctx).Create(payment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePayment
	}
	return err
}

func (r *paymentRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("gateway_payment_id = ?", gatewayPaymentID).
		First(&payment).Error
	if err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

func (r *paymentRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

var (
	// ErrDuplicatePayment indicates the gateway payment was already recorded.
	ErrDuplicatePayment = errors.New("gateway payment already recorded")
	// ErrPaymentApplied indicates the payment was completed by another writer.
	ErrPaymentApplied = errors.New("gateway payment already applied")
)
