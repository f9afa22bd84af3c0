package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-ledger-api/internal/models"
)

// LibraryRepository answers library-dues questions about a student.
type LibraryRepository interface {
	CountOutstanding(ctx context.Context, studentID uint) (int, error)
	Create(ctx context.Context, record *models.LibraryRecord) error
}

type libraryRepository struct {
	db *gorm.DB
}

// NewLibraryRepository constructs the library record repository.
func NewLibraryRepository(db *gorm.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

// CountOutstanding counts the records of studentID that are not returned.
func (r *libraryRepository) CountOutstanding(ctx context.Context, studentID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LibraryRecord{}).
		Where("student_id = ?", studentID).
		Where("status <> ?", models.LibraryStatusReturned).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *libraryRepository) Create(ctx context.Context, record *models.LibraryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
