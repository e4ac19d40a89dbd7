// Package storetest runs the behaviour every store.Store must share.
package storetest

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bigredeye/gradebook/internal/models"
	"github.com/bigredeye/gradebook/internal/store"
	"github.com/bigredeye/gradebook/internal/validation"
)

// Factory returns an empty store.
type Factory func(t *testing.T) store.Store

func Run(t *testing.T, factory Factory) {
	for _, tc := range []struct {
		name string
		run  func(t *testing.T, s store.Store)
	}{
		{"SaveThenFind", testSaveThenFind},
		{"InvalidIsNotPersisted", testInvalidIsNotPersisted},
		{"Overwrite", testOverwrite},
		{"UpsertExplicitID", testUpsertExplicitID},
		{"ListOrder", testListOrder},
		{"SearchEmptyIsList", testSearchEmptyIsList},
		{"SearchSubstring", testSearchSubstring},
		{"SearchIsLiteral", testSearchIsLiteral},
		{"DeleteThenFind", testDeleteThenFind},
		{"DeleteMany", testDeleteMany},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, factory(t))
		})
	}
}

func mustSave(t *testing.T, s store.Store, name string, score float64) models.Grade {
	t.Helper()
	grade, err := s.SaveGrade(context.Background(), &models.Grade{Name: name, Score: score})
	if err != nil {
		t.Fatalf("Failed to save grade %q: %v", name, err)
	}
	if grade.ID == 0 {
		t.Fatalf("Saved grade %q has no id", name)
	}
	return *grade
}

func mustList(t *testing.T, s store.Store) []models.Grade {
	t.Helper()
	grades, err := s.ListGrades(context.Background())
	if err != nil {
		t.Fatal("Failed to list grades:", err)
	}
	return grades
}

func mustSearch(t *testing.T, s store.Store, keyword string) []models.Grade {
	t.Helper()
	grades, err := s.SearchGrades(context.Background(), keyword)
	if err != nil {
		t.Fatalf("Failed to search %q: %v", keyword, err)
	}
	return grades
}

func names(grades []models.Grade) []string {
	res := make([]string, 0, len(grades))
	for _, g := range grades {
		res = append(res, g.Name)
	}
	return res
}

func testSaveThenFind(t *testing.T, s store.Store) {
	saved := mustSave(t, s, "Ana", 90.5)

	found, err := s.FindGrade(context.Background(), saved.ID)
	if err != nil {
		t.Fatal("Failed to find grade:", err)
	}
	if diff := cmp.Diff(saved, *found); diff != "" {
		t.Fatalf("Found grade differs (-saved +found):\n%s", diff)
	}
}

func testInvalidIsNotPersisted(t *testing.T, s store.Store) {
	existing := mustSave(t, s, "Ana", 90)
	before := mustList(t, s)

	for _, grade := range []models.Grade{
		{Name: "Leo", Score: 105},
		{Name: "", Score: 50},
		{Name: "Eva", Score: -1},
		{ID: existing.ID, Name: "", Score: 10},
	} {
		grade := grade
		_, err := s.SaveGrade(context.Background(), &grade)
		if _, ok := validation.Fields(err); !ok {
			t.Fatalf("Expected validation error for %+v, got %v", grade, err)
		}
	}

	if diff := cmp.Diff(before, mustList(t, s)); diff != "" {
		t.Fatalf("Store changed after invalid saves (-before +after):\n%s", diff)
	}
}

func testOverwrite(t *testing.T, s store.Store) {
	saved := mustSave(t, s, "Ana", 90)
	saved.Name = "Ana María"
	saved.Score = 95

	if _, err := s.SaveGrade(context.Background(), &saved); err != nil {
		t.Fatal("Failed to overwrite grade:", err)
	}

	grades := mustList(t, s)
	if diff := cmp.Diff([]models.Grade{saved}, grades); diff != "" {
		t.Fatalf("Unexpected grades after overwrite (-want +got):\n%s", diff)
	}
}

func testUpsertExplicitID(t *testing.T, s store.Store) {
	explicit := models.Grade{ID: 50, Name: "Zoe", Score: 77}
	if _, err := s.SaveGrade(context.Background(), &explicit); err != nil {
		t.Fatal("Failed to save grade with explicit id:", err)
	}

	found, err := s.FindGrade(context.Background(), 50)
	if err != nil {
		t.Fatal("Failed to find upserted grade:", err)
	}
	if diff := cmp.Diff(explicit, *found); diff != "" {
		t.Fatalf("Upserted grade differs (-want +got):\n%s", diff)
	}

	next := mustSave(t, s, "Leo", 60)
	if next.ID == explicit.ID {
		t.Fatalf("Fresh id collides with explicit id %d", next.ID)
	}
	if len(mustList(t, s)) != 2 {
		t.Fatal("Expected both grades to be stored")
	}
}

func testListOrder(t *testing.T, s store.Store) {
	a := mustSave(t, s, "Carla", 10)
	b := mustSave(t, s, "Bruno", 20)
	c := mustSave(t, s, "Ana", 30)

	if diff := cmp.Diff([]models.Grade{a, b, c}, mustList(t, s)); diff != "" {
		t.Fatalf("Unexpected listing (-want +got):\n%s", diff)
	}
}

func testSearchEmptyIsList(t *testing.T, s store.Store) {
	mustSave(t, s, "Ana", 90)
	mustSave(t, s, "Bruno", 70)

	if diff := cmp.Diff(mustList(t, s), mustSearch(t, s, "")); diff != "" {
		t.Fatalf("Empty search differs from listing (-list +search):\n%s", diff)
	}
}

func testSearchSubstring(t *testing.T, s store.Store) {
	ana := mustSave(t, s, "Ana", 90)
	anabel := mustSave(t, s, "Anabel", 70)
	mustSave(t, s, "Bruno", 50)

	if diff := cmp.Diff([]models.Grade{ana, anabel}, mustSearch(t, s, "Ana")); diff != "" {
		t.Fatalf("Unexpected search result (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]models.Grade{anabel}, mustSearch(t, s, "bel")); diff != "" {
		t.Fatalf("Unexpected search result (-want +got):\n%s", diff)
	}
	if res := mustSearch(t, s, "xyz"); len(res) != 0 {
		t.Fatalf("Expected empty result, got %v", names(res))
	}
	if res := mustSearch(t, s, "ana"); len(res) != 0 {
		t.Fatalf("Search must be case-sensitive, got %v", names(res))
	}
}

func testSearchIsLiteral(t *testing.T, s store.Store) {
	mustSave(t, s, "Ana", 90)
	percent := mustSave(t, s, "100% Ana", 100)

	if diff := cmp.Diff([]models.Grade{percent}, mustSearch(t, s, "%")); diff != "" {
		t.Fatalf("Unexpected search result (-want +got):\n%s", diff)
	}
	if res := mustSearch(t, s, "_"); len(res) != 0 {
		t.Fatalf("Expected empty result, got %v", names(res))
	}
}

func testDeleteThenFind(t *testing.T, s store.Store) {
	saved := mustSave(t, s, "Ana", 90)

	for _, id := range []uint{saved.ID, saved.ID + 1000} {
		if err := s.DeleteGrade(context.Background(), id); err != nil {
			t.Fatalf("Failed to delete %d: %v", id, err)
		}
		_, err := s.FindGrade(context.Background(), id)
		if !store.IsNotFound(err) {
			t.Fatalf("Expected not found for %d, got %v", id, err)
		}
	}
}

func testDeleteMany(t *testing.T, s store.Store) {
	a := mustSave(t, s, "Ana", 90)
	b := mustSave(t, s, "Anabel", 70)
	c := mustSave(t, s, "Bruno", 50)

	if err := s.DeleteGrades(context.Background(), []uint{a.ID, b.ID, c.ID + 1000}); err != nil {
		t.Fatal("Failed to delete grades:", err)
	}
	if diff := cmp.Diff([]models.Grade{c}, mustList(t, s)); diff != "" {
		t.Fatalf("Unexpected grades after delete (-want +got):\n%s", diff)
	}

	if err := s.DeleteGrades(context.Background(), nil); err != nil {
		t.Fatal("Empty delete failed:", err)
	}
	if len(mustList(t, s)) != 1 {
		t.Fatal("Empty delete changed the store")
	}
}
