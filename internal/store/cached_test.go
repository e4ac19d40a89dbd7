package store_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/bigredeye/gradebook/internal/models"
	"github.com/bigredeye/gradebook/internal/store"
	"github.com/bigredeye/gradebook/internal/store/storetest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCached(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		cached := store.NewCached(store.NewMemory(), time.Minute, 100, zaptest.NewLogger(t))
		t.Cleanup(cached.Stop)
		return cached
	})
}

// countingStore counts lookups that reach the wrapped store.
type countingStore struct {
	store.Store
	finds int
}

func (s *countingStore) FindGrade(ctx context.Context, id uint) (*models.Grade, error) {
	s.finds++
	return s.Store.FindGrade(ctx, id)
}

func TestCachedInvalidation(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{Store: store.NewMemory()}
	cached := store.NewCached(inner, time.Minute, 100, zaptest.NewLogger(t))
	defer cached.Stop()

	saved, err := cached.SaveGrade(ctx, &models.Grade{Name: "Ana", Score: 90})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := cached.FindGrade(ctx, saved.ID); err != nil {
			t.Fatal(err)
		}
	}
	if inner.finds != 1 {
		t.Fatalf("Expected a single lookup to reach the store, got %d", inner.finds)
	}

	saved.Score = 40
	if _, err := cached.SaveGrade(ctx, saved); err != nil {
		t.Fatal(err)
	}
	found, err := cached.FindGrade(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if found.Score != 40 {
		t.Fatalf("Stale grade after save: %+v", found)
	}

	if err := cached.DeleteGrades(ctx, []uint{saved.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.FindGrade(ctx, saved.ID); !store.IsNotFound(err) {
		t.Fatalf("Expected not found after delete, got %v", err)
	}
}
