package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"recircuit-api/models"
)

// MemoryStore keeps every collection in process memory. It backs
// DB_DRIVER=memory for local runs and the package tests.
type MemoryStore struct {
	mu          sync.Mutex
	waste       map[string]models.WasteRecord
	innovations map[string]models.Innovation
	saved       []models.SavedInnovation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		waste:       make(map[string]models.WasteRecord),
		innovations: make(map[string]models.Innovation),
	}
}

func (m *MemoryStore) CreateWasteRecord(_ context.Context, rec *models.WasteRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.waste[rec.ID]; exists {
		return fmt.Errorf("insert waste record: duplicate id %s", rec.ID)
	}
	m.waste[rec.ID] = *rec
	return nil
}

func (m *MemoryStore) CreateInnovations(_ context.Context, items []models.Innovation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		if _, exists := m.innovations[item.ID]; exists {
			return fmt.Errorf("insert innovations: duplicate id %s", item.ID)
		}
	}
	for _, item := range items {
		m.innovations[item.ID] = item
	}
	return nil
}

func (m *MemoryStore) FindInnovation(_ context.Context, id string) (*models.Innovation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.innovations[id]
	if !ok {
		return nil, fmt.Errorf("innovation %s: %w", id, ErrNotFound)
	}
	return &inv, nil
}

func (m *MemoryStore) UpdateInnovationSteps(_ context.Context, id string, expectedVersion int, steps models.StepList, source string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.innovations[id]
	if !ok || inv.StepsVersion != expectedVersion {
		return false, nil
	}
	inv.Steps = steps
	inv.StepsSource = source
	inv.StepsVersion++
	m.innovations[id] = inv
	return true, nil
}

func (m *MemoryStore) ListInnovationsWithoutSteps(_ context.Context, limit int) ([]models.Innovation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Innovation
	for _, inv := range m.innovations {
		if inv.StepsSource == "" {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) CreateSavedInnovation(_ context.Context, saved *models.SavedInnovation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, *saved)
	return nil
}

func (m *MemoryStore) ListSavedInnovations(_ context.Context, userID string, limit int) ([]models.SavedInnovation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SavedInnovation
	for i := len(m.saved) - 1; i >= 0; i-- {
		if m.saved[i].UserID == userID {
			out = append(out, m.saved[i])
		}
	}
	// newest first; equal timestamps keep the later insert first
	sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
