package web

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	lf "github.com/bigredeye/gradebook/internal/logfield"
	"github.com/bigredeye/gradebook/internal/models"
	"github.com/bigredeye/gradebook/internal/store"
	"github.com/bigredeye/gradebook/internal/validation"
)

const (
	listingPath = "/"

	paramKeyword = "palabraClave"
	fieldID      = "id"
	fieldName    = "nombre"
	fieldScore   = "calificacion"
	fieldIDs     = "ids"
)

type gradesService struct {
	webService
}

func setupGradesService(server *server, r *gin.Engine) {
	s := gradesService{newWebService(server, "grades")}

	r.GET(listingPath, s.index)
	r.GET("/nuevo", s.newForm)
	r.GET("/editar/:id", s.editForm)
	r.POST("/guardar", s.save)
	r.GET("/borrar/:id", s.remove)
	r.POST("/borrar-seleccionados", s.removeSelected)
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseID(text string) (uint, error) {
	id, err := strconv.ParseUint(text, 10, 0)
	if err != nil {
		return 0, errors.Wrapf(err, "Invalid grade id %q", text)
	}
	return uint(id), nil
}

func (s webService) listGrades(c *gin.Context, keyword string) ([]models.Grade, error) {
	if keyword != "" {
		return s.store.SearchGrades(c.Request.Context(), keyword)
	}
	return s.store.ListGrades(c.Request.Context())
}

func (s webService) fail(c *gin.Context, err error) {
	s.logFor(c).Error("Request failed", zap.Error(err))
	s.renderError(c, http.StatusInternalServerError, "No se pudo completar la operación.")
	c.Abort()
}

func (s webService) badRequest(c *gin.Context, err error) {
	s.logFor(c).Info("Bad request", zap.Error(err))
	s.renderError(c, http.StatusBadRequest, "Solicitud inválida.")
	c.Abort()
}

func (s gradesService) index(c *gin.Context) {
	keyword := c.Query(paramKeyword)
	grades, err := s.listGrades(c, keyword)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderIndex(c, grades, keyword)
}

func (s gradesService) newForm(c *gin.Context) {
	s.renderForm(c, formFromGrade(&models.Grade{}), nil)
}

func (s gradesService) editForm(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		s.badRequest(c, err)
		return
	}

	grade, err := s.store.FindGrade(c.Request.Context(), id)
	if store.IsNotFound(err) {
		s.logFor(c).Info("Edit of unknown grade", lf.GradeID(id))
		c.Redirect(http.StatusFound, listingPath)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	s.renderForm(c, formFromGrade(grade), nil)
}

// parse converts submitted text into a grade. Field errors cover both
// unparsable scores and the grade validation rules.
func (f gradeForm) parse() (*models.Grade, validation.FieldErrors, error) {
	grade := &models.Grade{Name: f.Name}
	if id := strings.TrimSpace(f.ID); id != "" {
		parsed, err := parseID(id)
		if err != nil {
			return nil, nil, err
		}
		grade.ID = parsed
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(f.Score), 64)
	scoreValid := err == nil && !math.IsNaN(score) && !math.IsInf(score, 0)
	if scoreValid {
		grade.Score = score
	}

	fields := validation.Validate(grade)
	if !scoreValid {
		if fields == nil {
			fields = validation.FieldErrors{}
		}
		fields["Score"] = validation.MessageNotANumber
	}
	return grade, fields, nil
}

func (s gradesService) save(c *gin.Context) {
	form := gradeForm{
		ID:    c.PostForm(fieldID),
		Name:  c.PostForm(fieldName),
		Score: c.PostForm(fieldScore),
	}

	grade, fields, err := form.parse()
	if err != nil {
		s.badRequest(c, err)
		return
	}
	if fields != nil {
		s.logFor(c).Info("Rejected invalid grade", lf.Name(form.Name), zap.String("score", form.Score))
		s.renderForm(c, form, fields)
		return
	}

	saved, err := s.store.SaveGrade(c.Request.Context(), grade)
	if fields, ok := validation.Fields(err); ok {
		s.renderForm(c, form, fields)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	s.logFor(c).Info("Saved grade", lf.GradeID(saved.ID), lf.Name(saved.Name), lf.Score(saved.Score))
	s.addFlash(c, "Calificación guardada.")
	c.Redirect(http.StatusFound, listingPath)
}

func (s gradesService) remove(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		s.badRequest(c, err)
		return
	}

	if err := s.store.DeleteGrade(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}

	s.logFor(c).Info("Deleted grade", lf.GradeID(id))
	s.addFlash(c, "Calificación eliminada.")
	c.Redirect(http.StatusFound, listingPath)
}

func (s gradesService) removeSelected(c *gin.Context) {
	values := c.PostFormArray(fieldIDs)
	ids := make([]uint, 0, len(values))
	for _, value := range values {
		id, err := parseID(value)
		if err != nil {
			s.badRequest(c, err)
			return
		}
		ids = append(ids, id)
	}

	if len(ids) > 0 {
		if err := s.store.DeleteGrades(c.Request.Context(), ids); err != nil {
			s.fail(c, err)
			return
		}
		s.logFor(c).Info("Deleted grades", lf.GradeIDs(ids))
		s.addFlash(c, "Calificaciones seleccionadas eliminadas.")
	}

	c.Redirect(http.StatusFound, listingPath)
}
