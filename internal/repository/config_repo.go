package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/campus-ledger-api/internal/models"
)

// ConfigRepository reads and writes durable integer settings.
type ConfigRepository interface {
	// GetInt returns the stored value and whether the key exists.
	GetInt(ctx context.Context, key string) (int64, bool, error)
	SetInt(ctx context.Context, key string, value int64) error
}

type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository constructs the system config repository.
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) GetInt(ctx context.Context, key string) (int64, bool, error) {
	var entry models.SystemConfig
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return entry.Value, true, nil
}

func (r *configRepository) SetInt(ctx context.Context, key string, value int64) error {
	entry := models.SystemConfig{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}
