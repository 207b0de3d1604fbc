package client

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListComments(ctx context.Context, caseID uint) ([]Comment, error) {
	var out []Comment
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/cases/%d/comments", caseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddComment(ctx context.Context, caseID uint, req AddCommentRequest) (*Comment, error) {
	var out Comment
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/cases/%d/comments", caseID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), nil, nil)
}

func (c *Client) ListEvents(ctx context.Context, caseID uint) ([]Event, error) {
	var out []Event
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/cases/%d/events", caseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddEvent(ctx context.Context, caseID uint, req AddEventRequest) (*Event, error) {
	var out Event
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/cases/%d/events", caseID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, caseID, eventID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/cases/%d/events/%d", caseID, eventID), nil, nil)
}

func (c *Client) ListParties(ctx context.Context, caseID uint) ([]Party, error) {
	var out []Party
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/cases/%d/parties", caseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddParty(ctx context.Context, caseID uint, req PartyRequest) (*Party, error) {
	var out Party
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/cases/%d/parties", caseID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateParty(ctx context.Context, caseID, partyID uint, req PartyRequest) (*Party, error) {
	var out Party
	path := fmt.Sprintf("/api/cases/%d/parties/%d", caseID, partyID)
	if err := c.doJSON(ctx, http.MethodPut, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteParty(ctx context.Context, caseID, partyID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/cases/%d/parties/%d", caseID, partyID), nil, nil)
}

func (c *Client) ListAssignments(ctx context.Context, caseID uint) ([]Assignment, error) {
	var out []Assignment
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/cases/%d/assignments", caseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddAssignment(ctx context.Context, caseID uint, req AddAssignmentRequest) (*Assignment, error) {
	var out Assignment
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/cases/%d/assignments", caseID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, caseID, assignmentID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/cases/%d/assignments/%d", caseID, assignmentID), nil, nil)
}
