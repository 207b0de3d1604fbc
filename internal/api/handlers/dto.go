package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/httputil"
	"github.com/securecase/securecase/internal/policy"
	"github.com/securecase/securecase/internal/services"
)

// UserView is the wire shape of a user; the password hash never leaves
// the service.
type UserView struct {
	ID               uint                    `json:"id"`
	Email            string                  `json:"email"`
	Role             models.UserRole         `json:"role"`
	ClearanceLevel   models.SensitivityLevel `json:"clearanceLevel"`
	OrganizationName string                  `json:"organizationName"`
	Enabled          bool                    `json:"enabled"`
}

func toUserView(u *models.User) UserView {
	return UserView{
		ID:               u.ID,
		Email:            u.Email,
		Role:             u.Role,
		ClearanceLevel:   u.ClearanceLevel,
		OrganizationName: u.OrganizationName,
		Enabled:          u.Enabled,
	}
}

type CaseView struct {
	ID               uint                    `json:"id"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	Status           models.CaseStatus       `json:"status"`
	SensitivityLevel models.SensitivityLevel `json:"sensitivityLevel"`
	OwnerEmail       string                  `json:"ownerEmail"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
	Matter           *models.CaseMatter      `json:"matter,omitempty"`
	// AllowedTransitions lets clients render transition controls without
	// duplicating the table; the review send-back is marked separately.
	AllowedTransitions []models.CaseStatus `json:"allowedTransitions"`
}

func toCaseView(c *models.Case, matter *models.CaseMatter) CaseView {
	return CaseView{
		ID:                 c.ID,
		Title:              c.Title,
		Description:        c.Description,
		Status:             c.Status,
		SensitivityLevel:   c.SensitivityLevel,
		OwnerEmail:         c.OwnerEmail,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		Matter:             matter,
		AllowedTransitions: policy.AllowedTransitions(c.Status),
	}
}

type CommentView struct {
	ID               uint                    `json:"id"`
	AuthorEmail      string                  `json:"authorEmail"`
	Content          string                  `json:"content"`
	SensitivityLevel models.SensitivityLevel `json:"sensitivityLevel"`
	CreatedAt        time.Time               `json:"createdAt"`
}

func toCommentView(m *models.CaseComment) CommentView {
	return CommentView{
		ID:               m.ID,
		AuthorEmail:      m.AuthorEmail,
		Content:          m.Content,
		SensitivityLevel: m.SensitivityLevel,
		CreatedAt:        m.CreatedAt,
	}
}

type DocumentView struct {
	ID               uint                    `json:"id"`
	FileName         string                  `json:"fileName"`
	FileType         string                  `json:"fileType"`
	FileSize         int64                   `json:"fileSize"`
	SensitivityLevel models.SensitivityLevel `json:"sensitivityLevel"`
	UploadedBy       string                  `json:"uploadedBy"`
	UploadedAt       time.Time               `json:"uploadedAt"`
	DocumentGroupID  string                  `json:"documentGroupId"`
	Version          int                     `json:"version"`
	Active           bool                    `json:"active"`
	FileHash         string                  `json:"fileHash"`
}

func toDocumentView(d *models.CaseDocument) DocumentView {
	return DocumentView{
		ID:               d.ID,
		FileName:         d.FileName,
		FileType:         d.FileType,
		FileSize:         d.FileSize,
		SensitivityLevel: d.SensitivityLevel,
		UploadedBy:       d.UploadedBy,
		UploadedAt:       d.UploadedAt,
		DocumentGroupID:  d.DocumentGroupID,
		Version:          d.Version,
		Active:           d.Active,
		FileHash:         d.FileHash,
	}
}

type DocumentGroupView struct {
	DocumentGroupID string         `json:"documentGroupId"`
	Versions        []DocumentView `json:"versions"`
}

type EventView struct {
	ID          uint             `json:"id"`
	EventType   models.EventType `json:"eventType"`
	Description string           `json:"description"`
	EventDate   time.Time        `json:"eventDate"`
	NextDate    *time.Time       `json:"nextDate,omitempty"`
	CreatedBy   string           `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type PartyView struct {
	ID           uint             `json:"id"`
	Name         string           `json:"name"`
	Role         models.PartyRole `json:"role"`
	AdvocateName string           `json:"advocateName,omitempty"`
	ContactInfo  string           `json:"contactInfo,omitempty"`
	Address      string           `json:"address,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

type AssignmentView struct {
	ID         uint                  `json:"id"`
	UserEmail  string                `json:"userEmail"`
	Role       models.AssignmentRole `json:"role"`
	AssignedAt time.Time             `json:"assignedAt"`
}

type InviteView struct {
	ID             uint                    `json:"id"`
	Email          string                  `json:"email"`
	Token          string                  `json:"token"`
	Role           models.UserRole         `json:"role"`
	ClearanceLevel models.SensitivityLevel `json:"clearanceLevel"`
	Status         models.InviteStatus     `json:"status"`
	CreatedBy      string                  `json:"createdBy"`
	CreatedAt      time.Time               `json:"createdAt"`
	RegisteredAt   *time.Time              `json:"registeredAt,omitempty"`
	ApprovedAt     *time.Time              `json:"approvedAt,omitempty"`
	TerminatedAt   *time.Time              `json:"terminatedAt,omitempty"`
}

func toInviteView(i *models.Invite) InviteView {
	return InviteView{
		ID:             i.ID,
		Email:          i.Email,
		Token:          i.Token,
		Role:           i.Role,
		ClearanceLevel: i.ClearanceLevel,
		Status:         i.Status,
		CreatedBy:      i.CreatedBy,
		CreatedAt:      i.CreatedAt,
		RegisteredAt:   i.RegisteredAt,
		ApprovedAt:     i.ApprovedAt,
		TerminatedAt:   i.TerminatedAt,
	}
}

type AuditLogView struct {
	ID         uint               `json:"id"`
	ActorEmail string             `json:"actorEmail"`
	Action     models.AuditAction `json:"action"`
	TargetType string             `json:"targetType"`
	TargetID   uint               `json:"targetId"`
	OldValue   string             `json:"oldValue,omitempty"`
	NewValue   string             `json:"newValue,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

// writeServiceError maps service-layer failures onto the uniform error
// body. Anything unrecognized is a 500 with a generic message.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		httputil.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden), errors.Is(err, policy.ErrUnauthorized):
		httputil.Error(c, http.StatusForbidden, "operation not permitted")
	case errors.Is(err, policy.ErrInvalidTransition):
		httputil.Error(c, http.StatusConflict, "invalid status transition")
	case errors.Is(err, services.ErrInviteState):
		httputil.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrCaseNotFound),
		errors.Is(err, services.ErrDocumentNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrPartyNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrInviteNotFound):
		httputil.Error(c, http.StatusNotFound, err.Error())
	default:
		httputil.Error(c, http.StatusInternalServerError, "something went wrong")
	}
}
