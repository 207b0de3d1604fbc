package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/securecase/securecase/internal/api/middleware"
	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/httputil"
	"github.com/securecase/securecase/internal/services"
)

type AdminHandler struct {
	admin  *services.AdminService
	audit  *services.AuditService
	logger *zap.Logger
}

func NewAdminHandler(admin *services.AdminService, audit *services.AuditService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		audit:  audit,
		logger: logger.With(zap.String("handler", "admin")),
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	users, err := h.admin.ListUsers(c.Request.Context(), actor)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	views := make([]UserView, len(users))
	for i := range users {
		views[i] = toUserView(&users[i])
	}
	c.JSON(http.StatusOK, views)
}

type updateRoleRequest struct {
	Role models.UserRole `json:"role"`
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := childID(c, "id", "user")
	if !ok {
		return
	}
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.admin.UpdateRole(c.Request.Context(), actor, id, req.Role)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

type updateClearanceRequest struct {
	ClearanceLevel models.SensitivityLevel `json:"clearanceLevel"`
}

func (h *AdminHandler) UpdateClearance(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := childID(c, "id", "user")
	if !ok {
		return
	}
	var req updateClearanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.admin.UpdateClearance(c.Request.Context(), actor, id, req.ClearanceLevel)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

func (h *AdminHandler) BanUser(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := childID(c, "id", "user")
	if !ok {
		return
	}
	user, err := h.admin.BanUser(c.Request.Context(), actor, id, c.Query("reason"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

func (h *AdminHandler) UnbanUser(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := childID(c, "id", "user")
	if !ok {
		return
	}
	user, err := h.admin.UnbanUser(c.Request.Context(), actor, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

type createInviteRequest struct {
	Email          string                  `json:"email"`
	Role           models.UserRole         `json:"role"`
	ClearanceLevel models.SensitivityLevel `json:"clearanceLevel"`
}

func (h *AdminHandler) CreateInvite(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	var req createInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	invite, err := h.admin.CreateInvite(c.Request.Context(), actor, req.Email, req.Role, req.ClearanceLevel)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toInviteView(invite))
}

func (h *AdminHandler) ListInvites(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	page, size := httputil.PageParams(c, 10)
	status := models.InviteStatus(c.Query("status"))

	invites, total, err := h.admin.ListInvites(c.Request.Context(), actor, status, page, size)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	views := make([]InviteView, len(invites))
	for i := range invites {
		views[i] = toInviteView(&invites[i])
	}
	c.JSON(http.StatusOK, httputil.NewPage(views, page, size, total))
}

func (h *AdminHandler) inviteAction(c *gin.Context, action func(int) (*models.Invite, error)) {
	id, ok := childID(c, "id", "invite")
	if !ok {
		return
	}
	invite, err := action(int(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInviteView(invite))
}

func (h *AdminHandler) ApproveInvite(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	h.inviteAction(c, func(id int) (*models.Invite, error) {
		return h.admin.ApproveInvite(c.Request.Context(), actor, uint(id))
	})
}

func (h *AdminHandler) RejectInvite(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	h.inviteAction(c, func(id int) (*models.Invite, error) {
		return h.admin.RejectInvite(c.Request.Context(), actor, uint(id))
	})
}

func (h *AdminHandler) TerminateInvite(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	h.inviteAction(c, func(id int) (*models.Invite, error) {
		return h.admin.TerminateInvite(c.Request.Context(), actor, uint(id))
	})
}

func (h *AdminHandler) DeleteInvite(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := childID(c, "id", "invite")
	if !ok {
		return
	}
	if err := h.admin.DeleteInvite(c.Request.Context(), actor, id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AuditLogs serves the filtered, paginated audit trail.
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	page, size := httputil.PageParams(c, 20)

	filters := services.AuditFilters{
		ActorEmail: c.Query("actorEmail"),
		Action:     models.AuditAction(c.Query("action")),
		TargetType: c.Query("targetType"),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filters.From = t
		} else {
			httputil.Error(c, http.StatusBadRequest, "invalid from timestamp")
			return
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filters.To = t
		} else {
			httputil.Error(c, http.StatusBadRequest, "invalid to timestamp")
			return
		}
	}

	entries, total, err := h.audit.Query(c.Request.Context(), filters, page, size)
	if err != nil {
		h.logger.Error("Audit query failed", zap.Error(err))
		writeServiceError(c, err)
		return
	}
	views := make([]AuditLogView, len(entries))
	for i, e := range entries {
		views[i] = AuditLogView{
			ID:         e.ID,
			ActorEmail: e.ActorEmail,
			Action:     e.Action,
			TargetType: e.TargetType,
			TargetID:   e.TargetID,
			OldValue:   e.OldValue,
			NewValue:   e.NewValue,
			Timestamp:  e.Timestamp,
		}
	}
	c.JSON(http.StatusOK, httputil.NewPage(views, page, size, total))
}
