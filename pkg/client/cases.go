package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CaseFilters narrows ListCases. Zero-value fields are omitted.
type CaseFilters struct {
	Title            string
	Status           string
	SensitivityLevel string
}

func (c *Client) ListCases(ctx context.Context, filters CaseFilters, page, size int) (*Page[Case], error) {
	q := pageQuery(page, size)
	if filters.Title != "" {
		q.Set("title", filters.Title)
	}
	if filters.Status != "" {
		q.Set("status", filters.Status)
	}
	if filters.SensitivityLevel != "" {
		q.Set("sensitivityLevel", filters.SensitivityLevel)
	}

	var out Page[Case]
	if err := c.doJSON(ctx, http.MethodGet, "/api/cases?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyCases(ctx context.Context, page, size int) (*Page[Case], error) {
	var out Page[Case]
	if err := c.doJSON(ctx, http.MethodGet, "/api/cases/my?"+pageQuery(page, size).Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCase(ctx context.Context, id uint) (*Case, error) {
	var out Case
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/cases/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCase(ctx context.Context, req CreateCaseRequest) (*Case, error) {
	var out Case
	if err := c.doJSON(ctx, http.MethodPost, "/api/cases", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCase(ctx context.Context, id uint, req UpdateCaseRequest) (*Case, error) {
	var out Case
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/cases/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCaseStatus requests a lifecycle transition. Illegal transitions
// come back as an *APIError with status 409.
func (c *Client) UpdateCaseStatus(ctx context.Context, id uint, newStatus string) (*Case, error) {
	body := map[string]string{"newStatus": newStatus}
	var out Case
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/cases/%d/status", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCaseSensitivity(ctx context.Context, id uint, level string) (*Case, error) {
	q := url.Values{}
	q.Set("level", level)
	var out Case
	path := fmt.Sprintf("/api/cases/%d/sensitivity?%s", id, q.Encode())
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
