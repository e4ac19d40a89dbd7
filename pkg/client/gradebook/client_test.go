package gradebook

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bigredeye/gradebook/api"
	"github.com/bigredeye/gradebook/internal/models"
)

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T) *Client {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/grades", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			grades := []models.Grade{{ID: 1, Name: "Ana", Score: 90}, {ID: 2, Name: "Anabel", Score: 70}}
			if r.URL.Query().Get("keyword") == "bel" {
				grades = grades[1:]
			}
			writeJSON(w, http.StatusOK, api.GradesResponse{Status: api.Status{Ok: true}, Grades: grades})
		case http.MethodPost:
			req := api.SaveGradeRequest{}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, api.Status{Error: err.Error()})
				return
			}
			if req.Score > 100 {
				writeJSON(w, http.StatusBadRequest, api.SaveGradeResponse{
					Status: api.Status{Error: "invalid grade"},
					Fields: map[string]string{"Score": "La calificación no puede ser mayor a 100"},
				})
				return
			}
			writeJSON(w, http.StatusOK, api.SaveGradeResponse{
				Status: api.Status{Ok: true},
				Grade:  &models.Grade{ID: 3, Name: req.Name, Score: req.Score},
			})
		}
	})
	mux.HandleFunc("/api/grades/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.GradeResponse{
			Status: api.Status{Ok: true},
			Grade:  &models.Grade{ID: 1, Name: "Ana", Score: 90},
		})
	})
	mux.HandleFunc("/api/grades/9", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, api.Status{Error: "grade not found"})
	})
	mux.HandleFunc("/api/grades/delete", func(w http.ResponseWriter, r *http.Request) {
		req := api.DeleteGradesRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) != 2 {
			writeJSON(w, http.StatusBadRequest, api.Status{Error: "unexpected ids"})
			return
		}
		writeJSON(w, http.StatusOK, api.DeleteGradesResponse{Status: api.Status{Ok: true}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestListGrades(t *testing.T) {
	c := newTestClient(t)

	grades, err := c.ListGrades("bel")
	if err != nil {
		t.Fatal("Failed to list grades:", err)
	}
	if diff := cmp.Diff([]models.Grade{{ID: 2, Name: "Anabel", Score: 70}}, grades); diff != "" {
		t.Fatalf("Unexpected grades (-want +got):\n%s", diff)
	}
}

func TestFindGrade(t *testing.T) {
	c := newTestClient(t)

	grade, err := c.FindGrade(1)
	if err != nil {
		t.Fatal("Failed to find grade:", err)
	}
	if grade.Name != "Ana" {
		t.Fatalf("Unexpected grade: %+v", grade)
	}

	if _, err := c.FindGrade(9); err == nil {
		t.Fatal("Expected error for missing grade")
	}
}

func TestSaveGrade(t *testing.T) {
	c := newTestClient(t)

	grade, err := c.SaveGrade(&models.Grade{Name: "Leo", Score: 80})
	if err != nil {
		t.Fatal("Failed to save grade:", err)
	}
	if diff := cmp.Diff(&models.Grade{ID: 3, Name: "Leo", Score: 80}, grade); diff != "" {
		t.Fatalf("Unexpected grade (-want +got):\n%s", diff)
	}

	_, err = c.SaveGrade(&models.Grade{Name: "Leo", Score: 105})
	verr := &ValidationError{}
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if verr.Fields["Score"] == "" {
		t.Fatalf("Missing score message: %v", verr.Fields)
	}
}

func TestDeleteGrades(t *testing.T) {
	c := newTestClient(t)

	if err := c.DeleteGrades(1, 2); err != nil {
		t.Fatal("Failed to delete grades:", err)
	}
	if err := c.DeleteGrades(1); err == nil {
		t.Fatal("Expected error from server")
	}
}
