package store

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/bigredeye/gradebook/internal/models"
	"github.com/bigredeye/gradebook/internal/validation"
)

type Memory struct {
	mu     sync.RWMutex
	grades map[uint]models.Grade
	lastID atomic.Uint64
}

func NewMemory() *Memory {
	return &Memory{grades: make(map[uint]models.Grade)}
}

func (m *Memory) ListGrades(ctx context.Context) ([]models.Grade, error) {
	return m.SearchGrades(ctx, "")
}

func (m *Memory) SearchGrades(_ context.Context, keyword string) ([]models.Grade, error) {
	m.mu.RLock()
	ids := maps.Keys(m.grades)
	grades := make([]models.Grade, 0, len(ids))
	for _, id := range ids {
		grade := m.grades[id]
		if strings.Contains(grade.Name, keyword) {
			grades = append(grades, grade)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(grades, func(a, b models.Grade) bool {
		return a.ID < b.ID
	})
	return grades, nil
}

func (m *Memory) FindGrade(_ context.Context, id uint) (*models.Grade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	grade, ok := m.grades[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &grade, nil
}

func (m *Memory) SaveGrade(_ context.Context, grade *models.Grade) (*models.Grade, error) {
	if err := validation.Check(grade); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	saved := *grade
	if saved.IsNew() {
		saved.ID = uint(m.lastID.Inc())
	} else if uint64(saved.ID) > m.lastID.Load() {
		// Keep the sequence ahead of explicitly chosen ids.
		m.lastID.Store(uint64(saved.ID))
	}
	m.grades[saved.ID] = saved
	return &saved, nil
}

func (m *Memory) DeleteGrade(_ context.Context, id uint) error {
	m.mu.Lock()
	delete(m.grades, id)
	m.mu.Unlock()
	return nil
}

func (m *Memory) DeleteGrades(_ context.Context, ids []uint) error {
	m.mu.Lock()
	for _, id := range ids {
		delete(m.grades, id)
	}
	m.mu.Unlock()
	return nil
}
