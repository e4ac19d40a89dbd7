package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bigredeye/gradebook/internal/models"
)

const seedYaml = `
- name: Ana
  score: 90
- name: Anabel
  score: 70.5
- name: José Pérez
  score: 0
`

func TestParseSeed(t *testing.T) {
	grades, err := parseSeed([]byte(seedYaml))
	if err != nil {
		t.Fatal("Failed to parse seed:", err)
	}

	expected := []models.Grade{
		{Name: "Ana", Score: 90},
		{Name: "Anabel", Score: 70.5},
		{Name: "José Pérez", Score: 0},
	}
	if diff := cmp.Diff(expected, grades); diff != "" {
		t.Fatalf("Unexpected grades (-want +got):\n%s", diff)
	}
}

func TestParseSeedUnknownField(t *testing.T) {
	if _, err := parseSeed([]byte("- name: Ana\n  grade: 90\n")); err == nil {
		t.Fatal("Expected error for unknown field")
	}
}
