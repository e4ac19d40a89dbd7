package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bigredeye/gradebook/internal/models"
	"github.com/bigredeye/gradebook/internal/validation"
)

const title = "Calificaciones"

// gradeForm holds the raw submitted values so that invalid input is shown
// back to the user exactly as typed.
type gradeForm struct {
	ID    string
	Name  string
	Score string
}

func formFromGrade(grade *models.Grade) gradeForm {
	form := gradeForm{Name: grade.Name}
	if !grade.IsNew() {
		form.ID = formatID(grade.ID)
		form.Score = formatScore(grade.Score)
	}
	return form
}

func (s webService) renderIndex(c *gin.Context, grades []models.Grade, keyword string) {
	c.HTML(http.StatusOK, "/index.tmpl", gin.H{
		"Title":   title,
		"Flashes": s.popFlashes(c),
		"Grades":  grades,
		"Keyword": keyword,
	})
}

func (s webService) renderForm(c *gin.Context, form gradeForm, errors validation.FieldErrors) {
	if errors == nil {
		errors = validation.FieldErrors{}
	}
	c.HTML(http.StatusOK, "/form.tmpl", gin.H{
		"Title":   title,
		"Flashes": []string(nil),
		"Form":    form,
		"Errors":  errors,
	})
}

func (s webService) renderError(c *gin.Context, code int, message string) {
	c.HTML(code, "/error.tmpl", gin.H{
		"Title":   title,
		"Flashes": []string(nil),
		"Message": message,
	})
}
