package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateUserRole(ctx context.Context, userID uint, role string) (*User, error) {
	body := map[string]string{"role": role}
	var out User
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/role", userID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUserClearance(ctx context.Context, userID uint, level string) (*User, error) {
	body := map[string]string{"clearanceLevel": level}
	var out User
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/clearance", userID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BanUser(ctx context.Context, userID uint, reason string) (*User, error) {
	q := url.Values{}
	q.Set("reason", reason)
	var out User
	path := fmt.Sprintf("/api/admin/users/%d/ban?%s", userID, q.Encode())
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnbanUser re-enables a user. Unbanning an already-enabled user is a
// no-op on the server.
func (c *Client) UnbanUser(ctx context.Context, userID uint) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/unban", userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateInvite(ctx context.Context, req CreateInviteRequest) (*Invite, error) {
	var out Invite
	if err := c.doJSON(ctx, http.MethodPost, "/api/invites", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListInvites(ctx context.Context, status string, page, size int) (*Page[Invite], error) {
	q := pageQuery(page, size)
	if status != "" {
		q.Set("status", status)
	}
	var out Page[Invite]
	if err := c.doJSON(ctx, http.MethodGet, "/api/invites?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) inviteAction(ctx context.Context, inviteID uint, action string) (*Invite, error) {
	var out Invite
	path := fmt.Sprintf("/api/invites/%d/%s", inviteID, action)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApproveInvite(ctx context.Context, inviteID uint) (*Invite, error) {
	return c.inviteAction(ctx, inviteID, "approve")
}

func (c *Client) RejectInvite(ctx context.Context, inviteID uint) (*Invite, error) {
	return c.inviteAction(ctx, inviteID, "reject")
}

func (c *Client) TerminateInvite(ctx context.Context, inviteID uint) (*Invite, error) {
	return c.inviteAction(ctx, inviteID, "terminate")
}

func (c *Client) DeleteInvite(ctx context.Context, inviteID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/invites/%d", inviteID), nil, nil)
}

// AuditFilters narrows AuditLogs. Zero-value fields are omitted; times
// are sent as RFC 3339.
type AuditFilters struct {
	ActorEmail string
	Action     string
	TargetType string
	From       time.Time
	To         time.Time
}

func (c *Client) AuditLogs(ctx context.Context, filters AuditFilters, page, size int) (*Page[AuditLog], error) {
	q := pageQuery(page, size)
	if filters.ActorEmail != "" {
		q.Set("actorEmail", filters.ActorEmail)
	}
	if filters.Action != "" {
		q.Set("action", filters.Action)
	}
	if filters.TargetType != "" {
		q.Set("targetType", filters.TargetType)
	}
	if !filters.From.IsZero() {
		q.Set("from", filters.From.Format(time.RFC3339))
	}
	if !filters.To.IsZero() {
		q.Set("to", filters.To.Format(time.RFC3339))
	}

	var out Page[AuditLog]
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/audit-logs?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
