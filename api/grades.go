package api

import "github.com/bigredeye/gradebook/internal/models"

type GradesRequest struct {
	Keyword string `json:"keyword" form:"keyword"`
}

type GradesResponse struct {
	Status

	Grades []models.Grade `json:"grades"`
}

type GradeResponse struct {
	Status

	Grade *models.Grade `json:"grade,omitempty"`
}

// Zero ID creates a new grade.
type SaveGradeRequest struct {
	ID    uint    `json:"id" form:"id"`
	Name  string  `json:"name" form:"name"`
	Score float64 `json:"score" form:"score"`
}

type SaveGradeResponse struct {
	Status

	Grade *models.Grade `json:"grade,omitempty"`
	// Fields holds per-field validation messages.
	Fields map[string]string `json:"fields,omitempty"`
}

type DeleteGradesRequest struct {
	IDs []uint `json:"ids" form:"ids"`
}

type DeleteGradesResponse struct {
	Status
}
