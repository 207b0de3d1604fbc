package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/policy"
	"github.com/securecase/securecase/pkg/metrics"
)

var (
	ErrCommentNotFound    = errors.New("comment not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrPartyNotFound      = errors.New("party not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// CollabService covers the child collections of a case: comments,
// timeline events, parties, and user-to-case assignments. Each child
// belongs to exactly one case.
type CollabService struct {
	db      *gorm.DB
	cases   *CaseService
	audit   *AuditService
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
}

func NewCollabService(database *gorm.DB, cases *CaseService, audit *AuditService, logger *zap.Logger, collector *metrics.MetricsCollector) *CollabService {
	return &CollabService{
		db:      database,
		cases:   cases,
		audit:   audit,
		logger:  logger.With(zap.String("service", "collab_service")),
		metrics: collector,
	}
}

// ListComments returns the case's comments the viewer is cleared for,
// newest first. Comments carry their own sensitivity tag.
func (s *CollabService) ListComments(ctx context.Context, viewer *models.User, caseID uint) ([]models.CaseComment, error) {
	if _, err := s.cases.Get(ctx, viewer, caseID); err != nil {
		return nil, err
	}
	var comments []models.CaseComment
	if err := s.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	visible := comments[:0]
	for _, comment := range comments {
		if policy.CanView(viewer, comment.SensitivityLevel) {
			visible = append(visible, comment)
		}
	}
	return visible, nil
}

func (s *CollabService) AddComment(ctx context.Context, actor *models.User, caseID uint, content string, level models.SensitivityLevel) (*models.CaseComment, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if _, err := s.cases.Get(ctx, actor, caseID); err != nil {
		return nil, err
	}
	if !policy.CanAssignLevel(actor, level) {
		return nil, ErrForbidden
	}

	comment := models.CaseComment{
		CaseID:           caseID,
		AuthorEmail:      actor.Email,
		Content:          content,
		SensitivityLevel: level,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor.Email, models.AuditCommentAdded, "COMMENT", comment.ID, "", "")
	s.metrics.IncrementCounter("comments.added", nil)
	return &comment, nil
}

// DeleteComment removes a comment by id. Elevated role only; comments
// are addressed directly, not through their case.
func (s *CollabService) DeleteComment(ctx context.Context, actor *models.User, commentID uint) error {
	if !actor.IsElevated() {
		return ErrForbidden
	}
	var comment models.CaseComment
	if err := s.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&comment).Error; err != nil {
		return err
	}
	s.audit.Record(ctx, actor.Email, models.AuditCommentDeleted, "COMMENT", commentID, comment.Content, "")
	return nil
}

func (s *CollabService) ListEvents(ctx context.Context, viewer *models.User, caseID uint) ([]models.CaseEvent, error) {
	if _, err := s.cases.Get(ctx, viewer, caseID); err != nil {
		return nil, err
	}
	var events []models.CaseEvent
	if err := s.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("event_date DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *CollabService) AddEvent(ctx context.Context, actor *models.User, caseID uint, eventType models.EventType, description string, eventDate time.Time, nextDate *time.Time) (*models.CaseEvent, error) {
	if !models.IsValidEventType(eventType) {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrValidation, eventType)
	}
	if description == "" || eventDate.IsZero() {
		return nil, fmt.Errorf("%w: description and event date are required", ErrValidation)
	}
	if _, err := s.cases.Get(ctx, actor, caseID); err != nil {
		return nil, err
	}

	event := models.CaseEvent{
		CaseID:      caseID,
		EventType:   eventType,
		Description: description,
		EventDate:   eventDate,
		NextDate:    nextDate,
		CreatedBy:   actor.Email,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *CollabService) DeleteEvent(ctx context.Context, actor *models.User, caseID, eventID uint) error {
	c, err := s.cases.Get(ctx, actor, caseID)
	if err != nil {
		return err
	}
	if !policy.Can(policy.ActionDeleteChild, actor, c) {
		return ErrForbidden
	}
	res := s.db.WithContext(ctx).Where("case_id = ?", caseID).Delete(&models.CaseEvent{}, eventID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (s *CollabService) ListParties(ctx context.Context, viewer *models.User, caseID uint) ([]models.CaseParty, error) {
	if _, err := s.cases.Get(ctx, viewer, caseID); err != nil {
		return nil, err
	}
	var parties []models.CaseParty
	if err := s.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

func (s *CollabService) AddParty(ctx context.Context, actor *models.User, caseID uint, party models.CaseParty) (*models.CaseParty, error) {
	if party.Name == "" {
		return nil, fmt.Errorf("%w: party name is required", ErrValidation)
	}
	if !models.IsValidPartyRole(party.Role) {
		return nil, fmt.Errorf("%w: unknown party role %q", ErrValidation, party.Role)
	}
	if _, err := s.cases.Get(ctx, actor, caseID); err != nil {
		return nil, err
	}

	party.ID = 0
	party.CaseID = caseID
	if err := s.db.WithContext(ctx).Create(&party).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

// UpdateParty edits a party in place. Parties are the one editable child
// collection.
func (s *CollabService) UpdateParty(ctx context.Context, actor *models.User, caseID, partyID uint, update models.CaseParty) (*models.CaseParty, error) {
	if update.Name == "" {
		return nil, fmt.Errorf("%w: party name is required", ErrValidation)
	}
	if !models.IsValidPartyRole(update.Role) {
		return nil, fmt.Errorf("%w: unknown party role %q", ErrValidation, update.Role)
	}
	c, err := s.cases.Get(ctx, actor, caseID)
	if err != nil {
		return nil, err
	}
	if actor.Email != c.OwnerEmail && !actor.IsElevated() {
		return nil, ErrForbidden
	}

	var party models.CaseParty
	if err := s.db.WithContext(ctx).Where("case_id = ?", caseID).First(&party, partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, err
	}

	party.Name = update.Name
	party.Role = update.Role
	party.AdvocateName = update.AdvocateName
	party.ContactInfo = update.ContactInfo
	party.Address = update.Address
	party.Notes = update.Notes
	if err := s.db.WithContext(ctx).Save(&party).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

// DeleteParty: owner or elevated role, a looser rule than the other
// child deletions.
func (s *CollabService) DeleteParty(ctx context.Context, actor *models.User, caseID, partyID uint) error {
	c, err := s.cases.Get(ctx, actor, caseID)
	if err != nil {
		return err
	}
	if actor.Email != c.OwnerEmail && !actor.IsElevated() {
		return ErrForbidden
	}
	res := s.db.WithContext(ctx).Where("case_id = ?", caseID).Delete(&models.CaseParty{}, partyID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPartyNotFound
	}
	return nil
}

func (s *CollabService) ListAssignments(ctx context.Context, viewer *models.User, caseID uint) ([]models.CaseAssignment, error) {
	if _, err := s.cases.Get(ctx, viewer, caseID); err != nil {
		return nil, err
	}
	var assignments []models.CaseAssignment
	if err := s.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("assigned_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *CollabService) AddAssignment(ctx context.Context, actor *models.User, caseID uint, userEmail string, role models.AssignmentRole) (*models.CaseAssignment, error) {
	if userEmail == "" {
		return nil, fmt.Errorf("%w: user email is required", ErrValidation)
	}
	if !models.IsValidAssignmentRole(role) {
		return nil, fmt.Errorf("%w: unknown assignment role %q", ErrValidation, role)
	}
	if _, err := s.cases.Get(ctx, actor, caseID); err != nil {
		return nil, err
	}

	assignment := models.CaseAssignment{
		CaseID:    caseID,
		UserEmail: userEmail,
		Role:      role,
	}
	if err := s.db.WithContext(ctx).Create(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (s *CollabService) DeleteAssignment(ctx context.Context, actor *models.User, caseID, assignmentID uint) error {
	c, err := s.cases.Get(ctx, actor, caseID)
	if err != nil {
		return err
	}
	if !policy.Can(policy.ActionDeleteChild, actor, c) {
		return ErrForbidden
	}
	res := s.db.WithContext(ctx).Where("case_id = ?", caseID).Delete(&models.CaseAssignment{}, assignmentID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}
