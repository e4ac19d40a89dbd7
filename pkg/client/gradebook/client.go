package gradebook

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bigredeye/gradebook/api"
	"github.com/bigredeye/gradebook/internal/models"
)

type Client struct {
	client *resty.Client
}

func NewClient(endpoint string) *Client {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(time.Second * 10).
		SetRetryCount(3)

	return &Client{client}
}

// ValidationError carries the per-field messages of a rejected grade.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid grade: %v", e.Fields)
}

func (c *Client) ListGrades(keyword string) ([]models.Grade, error) {
	res := &api.GradesResponse{}
	_, err := c.client.R().
		SetResult(res).
		SetError(res).
		SetQueryParam("keyword", keyword).
		Get("/api/grades")
	if err != nil {
		return nil, err
	}

	if !res.Ok {
		return nil, fmt.Errorf("failed to list grades: %s", res.Error)
	}

	return res.Grades, nil
}

func (c *Client) FindGrade(id uint) (*models.Grade, error) {
	res := &api.GradeResponse{}
	_, err := c.client.R().
		SetResult(res).
		SetError(res).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		Get("/api/grades/{id}")
	if err != nil {
		return nil, err
	}

	if !res.Ok {
		return nil, fmt.Errorf("failed to find grade %d: %s", id, res.Error)
	}

	return res.Grade, nil
}

func (c *Client) SaveGrade(grade *models.Grade) (*models.Grade, error) {
	res := &api.SaveGradeResponse{}
	_, err := c.client.R().
		SetResult(res).
		SetError(res).
		SetBody(api.SaveGradeRequest{
			ID:    grade.ID,
			Name:  grade.Name,
			Score: grade.Score,
		}).
		Post("/api/grades")
	if err != nil {
		return nil, err
	}

	if len(res.Fields) > 0 {
		return nil, &ValidationError{Fields: res.Fields}
	}
	if !res.Ok {
		return nil, fmt.Errorf("failed to save grade: %s", res.Error)
	}

	return res.Grade, nil
}

func (c *Client) DeleteGrades(ids ...uint) error {
	res := &api.DeleteGradesResponse{}
	_, err := c.client.R().
		SetResult(res).
		SetError(res).
		SetBody(api.DeleteGradesRequest{IDs: ids}).
		Post("/api/grades/delete")
	if err != nil {
		return err
	}

	if !res.Ok {
		return fmt.Errorf("failed to delete grades: %s", res.Error)
	}

	return nil
}
