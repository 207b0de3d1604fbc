package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/securecase/securecase/internal/api/middleware"
	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/httputil"
	"github.com/securecase/securecase/internal/services"
)

// CollabHandler serves the per-case child collections: comments,
// timeline events, parties, and assignments.
type CollabHandler struct {
	collab *services.CollabService
	logger *zap.Logger
}

func NewCollabHandler(collab *services.CollabService, logger *zap.Logger) *CollabHandler {
	return &CollabHandler{
		collab: collab,
		logger: logger.With(zap.String("handler", "collab")),
	}
}

func childID(c *gin.Context, param, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid "+label+" id")
		return 0, false
	}
	return uint(id), true
}

func (h *CollabHandler) ListComments(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	comments, err := h.collab.ListComments(c.Request.Context(), viewer, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	views := make([]CommentView, len(comments))
	for i := range comments {
		views[i] = toCommentView(&comments[i])
	}
	c.JSON(http.StatusOK, views)
}

type createCommentRequest struct {
	Content          string                  `json:"content"`
	SensitivityLevel models.SensitivityLevel `json:"sensitivityLevel"`
}

func (h *CollabHandler) AddComment(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SensitivityLevel == "" {
		req.SensitivityLevel = models.SensitivityLow
	}
	comment, err := h.collab.AddComment(c.Request.Context(), actor, id, req.Content, req.SensitivityLevel)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCommentView(comment))
}

// DeleteComment is addressed by comment id alone, mirroring the admin
// affordance in list views.
func (h *CollabHandler) DeleteComment(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	commentID, ok := childID(c, "id", "comment")
	if !ok {
		return
	}
	if err := h.collab.DeleteComment(c.Request.Context(), actor, commentID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CollabHandler) ListEvents(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	events, err := h.collab.ListEvents(c.Request.Context(), viewer, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = EventView{
			ID:          e.ID,
			EventType:   e.EventType,
			Description: e.Description,
			EventDate:   e.EventDate,
			NextDate:    e.NextDate,
			CreatedBy:   e.CreatedBy,
			CreatedAt:   e.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, views)
}

type createEventRequest struct {
	EventType   models.EventType `json:"eventType"`
	Description string           `json:"description"`
	EventDate   time.Time        `json:"eventDate"`
	NextDate    *time.Time       `json:"nextDate,omitempty"`
}

func (h *CollabHandler) AddEvent(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	event, err := h.collab.AddEvent(c.Request.Context(), actor, id, req.EventType, req.Description, req.EventDate, req.NextDate)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, EventView{
		ID:          event.ID,
		EventType:   event.EventType,
		Description: event.Description,
		EventDate:   event.EventDate,
		NextDate:    event.NextDate,
		CreatedBy:   event.CreatedBy,
		CreatedAt:   event.CreatedAt,
	})
}

func (h *CollabHandler) DeleteEvent(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	eventID, ok := childID(c, "eventId", "event")
	if !ok {
		return
	}
	if err := h.collab.DeleteEvent(c.Request.Context(), actor, id, eventID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func partyView(p *models.CaseParty) PartyView {
	return PartyView{
		ID:           p.ID,
		Name:         p.Name,
		Role:         p.Role,
		AdvocateName: p.AdvocateName,
		ContactInfo:  p.ContactInfo,
		Address:      p.Address,
		Notes:        p.Notes,
	}
}

func (h *CollabHandler) ListParties(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	parties, err := h.collab.ListParties(c.Request.Context(), viewer, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	views := make([]PartyView, len(parties))
	for i := range parties {
		views[i] = partyView(&parties[i])
	}
	c.JSON(http.StatusOK, views)
}

type partyRequest struct {
	Name         string           `json:"name"`
	Role         models.PartyRole `json:"role"`
	AdvocateName string           `json:"advocateName"`
	ContactInfo  string           `json:"contactInfo"`
	Address      string           `json:"address"`
	Notes        string           `json:"notes"`
}

func (r *partyRequest) toModel() models.CaseParty {
	return models.CaseParty{
		Name:         r.Name,
		Role:         r.Role,
		AdvocateName: r.AdvocateName,
		ContactInfo:  r.ContactInfo,
		Address:      r.Address,
		Notes:        r.Notes,
	}
}

func (h *CollabHandler) AddParty(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	var req partyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	party, err := h.collab.AddParty(c.Request.Context(), actor, id, req.toModel())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, partyView(party))
}

func (h *CollabHandler) UpdateParty(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	partyID, ok := childID(c, "partyId", "party")
	if !ok {
		return
	}
	var req partyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	party, err := h.collab.UpdateParty(c.Request.Context(), actor, id, partyID, req.toModel())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, partyView(party))
}

func (h *CollabHandler) DeleteParty(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	partyID, ok := childID(c, "partyId", "party")
	if !ok {
		return
	}
	if err := h.collab.DeleteParty(c.Request.Context(), actor, id, partyID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CollabHandler) ListAssignments(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	assignments, err := h.collab.ListAssignments(c.Request.Context(), viewer, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	views := make([]AssignmentView, len(assignments))
	for i, a := range assignments {
		views[i] = AssignmentView{ID: a.ID, UserEmail: a.UserEmail, Role: a.Role, AssignedAt: a.AssignedAt}
	}
	c.JSON(http.StatusOK, views)
}

type createAssignmentRequest struct {
	UserEmail string                `json:"userEmail"`
	Role      models.AssignmentRole `json:"role"`
}

func (h *CollabHandler) AddAssignment(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	var req createAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	assignment, err := h.collab.AddAssignment(c.Request.Context(), actor, id, req.UserEmail, req.Role)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AssignmentView{
		ID:         assignment.ID,
		UserEmail:  assignment.UserEmail,
		Role:       assignment.Role,
		AssignedAt: assignment.AssignedAt,
	})
}

func (h *CollabHandler) DeleteAssignment(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id, ok := caseID(c)
	if !ok {
		return
	}
	assignmentID, ok := childID(c, "assignmentId", "assignment")
	if !ok {
		return
	}
	if err := h.collab.DeleteAssignment(c.Request.Context(), actor, id, assignmentID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
