package services

import (
	"context"
	"strings"
	"time"

	"recircuit-api/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const maxSavedInnovations = 100

type SavedInnovationService struct {
	store Store
	now   func() time.Time
}

func NewSavedInnovationService(store Store) *SavedInnovationService {
	return &SavedInnovationService{store: store, now: time.Now}
}

// Save bookmarks a copy of the innovation for userID.
func (s *SavedInnovationService) Save(ctx context.Context, innovationID, userID string) (*models.SavedInnovation, error) {
	innovationID = strings.TrimSpace(innovationID)
	userID = strings.TrimSpace(userID)
	if innovationID == "" {
		return nil, invalidInput("innovation_id is required")
	}
	if userID == "" {
		return nil, invalidInput("user_id is required")
	}

	inv, err := s.store.FindInnovation(ctx, innovationID)
	if err != nil {
		return nil, err
	}

	saved := &models.SavedInnovation{
		ID:         uuid.NewString(),
		Innovation: datatypes.NewJSONType(*inv),
		UserID:     userID,
		SavedAt:    s.now().UTC(),
	}
	if err := s.store.CreateSavedInnovation(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// ListByUser returns the user's saves, newest first, at most 100.
func (s *SavedInnovationService) ListByUser(ctx context.Context, userID string, limit int) ([]models.SavedInnovation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, invalidInput("user_id is required")
	}
	if limit <= 0 || limit > maxSavedInnovations {
		limit = maxSavedInnovations
	}

	items, err := s.store.ListSavedInnovations(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.SavedInnovation{}
	}
	return items, nil
}
