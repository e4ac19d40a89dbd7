package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bigredeye/gradebook/api"
	lf "github.com/bigredeye/gradebook/internal/logfield"
	"github.com/bigredeye/gradebook/internal/models"
	"github.com/bigredeye/gradebook/internal/store"
	"github.com/bigredeye/gradebook/internal/validation"
)

type apiService struct {
	webService
}

func setupApiService(server *server, r *gin.Engine) {
	s := apiService{newWebService(server, "api")}

	g := r.Group("/api")
	g.GET("/grades", s.list)
	g.GET("/grades/:id", s.get)
	g.POST("/grades", s.save)
	g.DELETE("/grades/:id", s.remove)
	g.POST("/grades/delete", s.removeMany)
}

func (s apiService) onError(c *gin.Context, code int, err error) {
	log := s.logFor(c)
	if code >= http.StatusInternalServerError {
		log.Error("API request failed", zap.Error(err))
	} else {
		log.Info("API request rejected", zap.Error(err))
	}
	c.JSON(code, &api.Status{
		Ok:    false,
		Error: err.Error(),
	})
}

func (s apiService) list(c *gin.Context) {
	req := api.GradesRequest{}
	if err := c.ShouldBindQuery(&req); err != nil {
		s.onError(c, http.StatusBadRequest, err)
		return
	}

	grades, err := s.listGrades(c, req.Keyword)
	if err != nil {
		s.onError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, &api.GradesResponse{
		Status: api.Status{Ok: true},
		Grades: grades,
	})
}

func (s apiService) get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		s.onError(c, http.StatusBadRequest, err)
		return
	}

	grade, err := s.store.FindGrade(c.Request.Context(), id)
	if store.IsNotFound(err) {
		s.onError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.onError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, &api.GradeResponse{
		Status: api.Status{Ok: true},
		Grade:  grade,
	})
}

func (s apiService) save(c *gin.Context) {
	req := api.SaveGradeRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.onError(c, http.StatusBadRequest, err)
		return
	}

	grade, err := s.store.SaveGrade(c.Request.Context(), &models.Grade{
		ID:    req.ID,
		Name:  req.Name,
		Score: req.Score,
	})
	if fields, ok := validation.Fields(err); ok {
		s.logFor(c).Info("Rejected invalid grade", lf.Name(req.Name), lf.Score(req.Score))
		c.JSON(http.StatusBadRequest, &api.SaveGradeResponse{
			Status: api.Status{Ok: false, Error: err.Error()},
			Fields: fields,
		})
		return
	}
	if err != nil {
		s.onError(c, http.StatusInternalServerError, err)
		return
	}

	s.logFor(c).Info("Saved grade", lf.GradeID(grade.ID))
	c.JSON(http.StatusOK, &api.SaveGradeResponse{
		Status: api.Status{Ok: true},
		Grade:  grade,
	})
}

func (s apiService) remove(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		s.onError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.store.DeleteGrade(c.Request.Context(), id); err != nil {
		s.onError(c, http.StatusInternalServerError, err)
		return
	}

	s.logFor(c).Info("Deleted grade", lf.GradeID(id))
	c.JSON(http.StatusOK, &api.DeleteGradesResponse{Status: api.Status{Ok: true}})
}

func (s apiService) removeMany(c *gin.Context) {
	req := api.DeleteGradesRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.onError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.store.DeleteGrades(c.Request.Context(), req.IDs); err != nil {
		s.onError(c, http.StatusInternalServerError, err)
		return
	}

	s.logFor(c).Info("Deleted grades", lf.GradeIDs(req.IDs))
	c.JSON(http.StatusOK, &api.DeleteGradesResponse{Status: api.Status{Ok: true}})
}
