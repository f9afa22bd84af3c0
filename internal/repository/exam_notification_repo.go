package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-ledger-api/internal/models"
)

// ExamNotificationFilter narrows exam notification queries. VisibleToYear applies
// the student visibility rule when positive.
type ExamNotificationFilter struct {
	Active        *bool
	VisibleToYear int
}

// ExamNotificationRepository persists exam notifications.
type ExamNotificationRepository interface {
	Create(ctx context.Context, notification *models.ExamNotification) error
	GetByID(ctx context.Context, id uint) (models.ExamNotification, error)
	Save(ctx context.Context, notification *models.ExamNotification) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ExamNotificationFilter) ([]models.ExamNotification, error)
}

type examNotificationRepository struct {
	db *gorm.DB
}

// NewExamNotificationRepository constructs the exam notification repository.
func NewExamNotificationRepository(db *gorm.DB) ExamNotificationRepository {
	return &examNotificationRepository{db: db}
}

func (r *examNotificationRepository) Create(ctx context.Context, notification *models.ExamNotification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *examNotificationRepository) GetByID(ctx context.Context, id uint) (models.ExamNotification, error) {
	var notification models.ExamNotification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return models.ExamNotification{}, err
	}
	return notification, nil
}

// Save writes every column so deactivating or zeroing the late fee persists.
func (r *examNotificationRepository) Save(ctx context.Context, notification *models.ExamNotification) error {
	result := r.db.WithContext(ctx).
		Model(notification).
		Select("*").
		Omit("id", "created_at").
		Updates(notification)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *examNotificationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ExamNotification{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *examNotificationRepository) List(ctx context.Context, filter ExamNotificationFilter) ([]models.ExamNotification, error) {
	query := r.db.WithContext(ctx).Model(&models.ExamNotification{})

	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}

	if filter.VisibleToYear > 0 {
		query = query.Where(
			"(exam_type = ? AND year <= ?) OR (exam_type <> ? AND year = ?)",
			models.ExamSupplementary, filter.VisibleToYear,
			models.ExamSupplementary, filter.VisibleToYear,
		)
	}

	var notifications []models.ExamNotification
	if err := query.Order("created_at DESC").Order("id DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}
