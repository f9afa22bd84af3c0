package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-ledger-api/internal/ledger"
	"github.com/noah-isme/campus-ledger-api/internal/models"
)

// ErrStaleStudent indicates the student row changed since it was loaded.
var ErrStaleStudent = errors.New("student was modified concurrently")

// StudentFilter narrows bulk student queries.
type StudentFilter struct {
	Year   int
	Quota  string
	Status ledger.Lifecycle
}

// StudentRepository loads and persists students together with their embedded ledger.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByUSN(ctx context.Context, usn string) (models.Student, error)
	GetByUserID(ctx context.Context, userID uint) (models.Student, error)
	Search(ctx context.Context, query string) (models.Student, error)
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	Save(ctx context.Context, student *models.Student) error
	SaveWithPayment(ctx context.Context, student *models.Student, paymentID uint, allocated int64) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.Version == 0 {
		student.Version = 1
	}
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByUSN(ctx context.Context, usn string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("usn = ?", strings.TrimSpace(usn)).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

// Search returns the first student whose USN contains query, ignoring case.
func (r *studentRepository) Search(ctx context.Context, query string) (models.Student, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var student models.Student
	err := r.db.WithContext(ctx).
		Where("LOWER(usn) LIKE ?", like).
		Order("usn ASC").
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.Year > 0 {
		query = query.Where("current_year = ?", filter.Year)
	}
	if filter.Quota != "" {
		query = query.Where("quota = ?", filter.Quota)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var students []models.Student
	if err := query.Order("usn ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

// Save writes the whole student row guarded by its version. A row changed by another
// writer since it was loaded yields ErrStaleStudent and nothing is written.
func (r *studentRepository) Save(ctx context.Context, student *models.Student) error {
	return saveVersioned(r.db.WithContext(ctx), student)
}

// SaveWithPayment writes the student and completes the received payment paymentID in
// one transaction. A payment that is no longer received yields ErrPaymentApplied and
// neither row changes.
func (r *studentRepository) SaveWithPayment(ctx context.Context, student *models.Student, paymentID uint, allocated int64) error {
	loaded := student.Version
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, student); err != nil {
			return err
		}

		result := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", paymentID, models.PaymentStatusReceived).
			Updates(map[string]interface{}{
				"allocated": allocated,
				"status":    models.PaymentStatusCompleted,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPaymentApplied
		}
		return nil
	})
	if err != nil {
		student.Version = loaded
	}
	return err
}

func saveVersioned(db *gorm.DB, student *models.Student) error {
	loaded := student.Version
	student.Version = loaded + 1

	result := db.
		Model(student).
		Where("version = ?", loaded).
		Select("*").
		Omit("id", "created_at").
		Updates(student)
	if result.Error != nil {
		student.Version = loaded
		return result.Error
	}

	if result.RowsAffected == 0 {
		student.Version = loaded
		var count int64
		if err := db.Model(&models.Student{}).Where("id = ?", student.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStaleStudent
	}

	return nil
}
