package services

import (
	"context"
	"errors"
	"fmt"

	"recircuit-api/config"
	"recircuit-api/models"

	"gorm.io/gorm"
)

// Store is the persistence surface the services need. Each method touches
// one table and no method spans a transaction.
type Store interface {
	CreateWasteRecord(ctx context.Context, rec *models.WasteRecord) error
	CreateInnovations(ctx context.Context, items []models.Innovation) error
	FindInnovation(ctx context.Context, id string) (*models.Innovation, error)
	// UpdateInnovationSteps writes steps only if the row is still at
	// expectedVersion. It reports whether the row was updated.
	UpdateInnovationSteps(ctx context.Context, id string, expectedVersion int, steps models.StepList, source string) (bool, error)
	ListInnovationsWithoutSteps(ctx context.Context, limit int) ([]models.Innovation, error)
	CreateSavedInnovation(ctx context.Context, saved *models.SavedInnovation) error
	ListSavedInnovations(ctx context.Context, userID string, limit int) ([]models.SavedInnovation, error)
	Ping(ctx context.Context) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	if db == nil {
		db = config.DB
	}
	return &GormStore{db: db}
}

func (s *GormStore) CreateWasteRecord(ctx context.Context, rec *models.WasteRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert waste record: %w", err)
	}
	return nil
}

func (s *GormStore) CreateInnovations(ctx context.Context, items []models.Innovation) error {
	if len(items) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&items).Error; err != nil {
		return fmt.Errorf("insert innovations: %w", err)
	}
	return nil
}

func (s *GormStore) FindInnovation(ctx context.Context, id string) (*models.Innovation, error) {
	var inv models.Innovation
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("innovation %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find innovation %s: %w", id, err)
	}
	return &inv, nil
}

func (s *GormStore) UpdateInnovationSteps(ctx context.Context, id string, expectedVersion int, steps models.StepList, source string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Innovation{}).
		Where("id = ? AND steps_version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"steps":         steps,
			"steps_source":  source,
			"steps_version": gorm.Expr("steps_version + 1"),
		})
	if res.Error != nil {
		return false, fmt.Errorf("update innovation steps %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ListInnovationsWithoutSteps(ctx context.Context, limit int) ([]models.Innovation, error) {
	if limit <= 0 {
		limit = 50
	}
	var items []models.Innovation
	if err := s.db.WithContext(ctx).
		Where("steps_source = ?", "").
		Order("created_at ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list innovations without steps: %w", err)
	}
	return items, nil
}

func (s *GormStore) CreateSavedInnovation(ctx context.Context, saved *models.SavedInnovation) error {
	if err := s.db.WithContext(ctx).Create(saved).Error; err != nil {
		return fmt.Errorf("insert saved innovation: %w", err)
	}
	return nil
}

func (s *GormStore) ListSavedInnovations(ctx context.Context, userID string, limit int) ([]models.SavedInnovation, error) {
	var items []models.SavedInnovation
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list saved innovations: %w", err)
	}
	return items, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
