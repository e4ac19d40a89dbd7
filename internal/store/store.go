// Package store defines grade storage and its in-process implementations.
package store

import (
	"context"
	"errors"

	"github.com/bigredeye/gradebook/internal/models"
)

var ErrNotFound = errors.New("grade not found")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store keeps grades ordered by ID. Implementations validate before every
// write and never persist an invalid grade.
type Store interface {
	ListGrades(ctx context.Context) ([]models.Grade, error)
	// SearchGrades returns grades whose name contains keyword, case-sensitive.
	// An empty keyword lists everything.
	SearchGrades(ctx context.Context, keyword string) ([]models.Grade, error)
	FindGrade(ctx context.Context, id uint) (*models.Grade, error)
	// SaveGrade inserts grades with a zero ID under a fresh ID and
	// overwrites (or creates) the grade with the given ID otherwise.
	SaveGrade(ctx context.Context, grade *models.Grade) (*models.Grade, error)
	DeleteGrade(ctx context.Context, id uint) error
	DeleteGrades(ctx context.Context, ids []uint) error
}
