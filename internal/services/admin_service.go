package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/policy"
	"github.com/securecase/securecase/pkg/metrics"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrInviteNotFound = errors.New("invite not found")
	ErrInviteState    = errors.New("invite is not in a state that allows this")
)

// AdminService covers user administration and the invite lifecycle.
// Every entry point requires an elevated actor.
type AdminService struct {
	db      *gorm.DB
	tokens  *TokenService
	audit   *AuditService
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
}

func NewAdminService(database *gorm.DB, tokens *TokenService, audit *AuditService, logger *zap.Logger, collector *metrics.MetricsCollector) *AdminService {
	return &AdminService{
		db:      database,
		tokens:  tokens,
		audit:   audit,
		logger:  logger.With(zap.String("service", "admin_service")),
		metrics: collector,
	}
}

func (s *AdminService) requireElevated(actor *models.User) error {
	if actor == nil || !actor.IsElevated() {
		return ErrForbidden
	}
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if err := s.requireElevated(actor); err != nil {
		return nil, err
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Order("email ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *AdminService) getUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AdminService) UpdateRole(ctx context.Context, actor *models.User, id uint, role models.UserRole) (*models.User, error) {
	if err := s.requireElevated(actor); err != nil {
		return nil, err
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	old := user.Role
	user.Role = role
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor.Email, models.AuditUserRoleChanged, "USER", user.ID, string(old), string(role))
	return user, nil
}

func (s *AdminService) UpdateClearance(ctx context.Context, actor *models.User, id uint, level models.SensitivityLevel) (*models.User, error) {
	if err := s.requireElevated(actor); err != nil {
		return nil, err
	}
	if !models.IsValidSensitivityLevel(level) {
		return nil, fmt.Errorf("%w: unknown clearance level %q", ErrValidation, level)
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.ClearanceLevel = level
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BanUser disables the account and revokes its live sessions.
func (s *AdminService) BanUser(ctx context.Context, actor *models.User, id uint, reason string) (*models.User, error) {
	if err := s.requireElevated(actor); err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Enabled = false
	user.BanReason = reason
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	s.tokens.RevokeUser(user.ID)
	s.audit.Record(ctx, actor.Email, models.AuditUserBanned, "USER", user.ID, "", reason)
	s.logger.Warn("User banned",
		zap.Uint("user_id", user.ID),
		zap.String("by", actor.Email),
		zap.String("reason", reason))
	return user, nil
}

// UnbanUser re-enables the account. Idempotent: unbanning an already
// enabled user succeeds without effect.
func (s *AdminService) UnbanUser(ctx context.Context, actor *models.User, id uint) (*models.User, error) {
	if err := s.requireElevated(actor); err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Enabled {
		return user, nil
	}
	user.Enabled = true
	user.BanReason = ""
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor.Email, models.AuditUserUnbanned, "USER", user.ID, "", "")
	return user, nil
}

func (s *AdminService) CreateInvite(ctx context.Context, actor *models.User, email string, role models.UserRole, level models.SensitivityLevel) (*models.Invite, error) {
	if err := s.requireElevated(actor); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if !models.IsValidSensitivityLevel(level) {
		return nil, fmt.Errorf("%w: unknown clearance level %q", ErrValidation, level)
	}

	invite := models.Invite{
		Email:          email,
		Token:          uuid.New().String(),
		Role:           role,
		ClearanceLevel: level,
		Status:         models.InvitePending,
		CreatedBy:      actor.Email,
	}
	if err := s.db.WithContext(ctx).Create(&invite).Error; err != nil {
		return nil, err
	}
	s.metrics.IncrementCounter("invites.created", nil)
	return &invite, nil
}

// ListInvites returns a page of invites, optionally filtered by status.
func (s *AdminService) ListInvites(ctx context.Context, actor *models.User, status models.InviteStatus, page, size int) ([]models.Invite, int64, error) {
	if err := s.requireElevated(actor); err != nil {
		return nil, 0, err
	}
	q := s.db.WithContext(ctx).Model(&models.Invite{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var invites []models.Invite
	if err := q.Order("created_at DESC").Offset(page * size).Limit(size).Find(&invites).Error; err != nil {
		return nil, 0, err
	}
	return invites, total, nil
}

func (s *AdminService) getInvite(ctx context.Context, id uint) (*models.Invite, error) {
	var invite models.Invite
	if err := s.db.WithContext(ctx).First(&invite, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (s *AdminService) transitionInvite(ctx context.Context, actor *models.User, id uint, target models.InviteStatus) (*models.Invite, error) {
	if err := s.requireElevated(actor); err != nil {
		return nil, err
	}
	invite, err := s.getInvite(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanTransitionInvite(invite.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInviteState, invite.Status, target)
	}

	now := time.Now()
	invite.Status = target
	switch target {
	case models.InviteApproved:
		invite.ApprovedAt = &now
	case models.InviteTerminated:
		invite.TerminatedAt = &now
	}
	if err := s.db.WithContext(ctx).Save(invite).Error; err != nil {
		return nil, err
	}
	return invite, nil
}

// ApproveInvite admits a registered invitee: the invite's role and
// clearance are stamped onto the user account and the account is
// enabled.
func (s *AdminService) ApproveInvite(ctx context.Context, actor *models.User, id uint) (*models.Invite, error) {
	invite, err := s.transitionInvite(ctx, actor, id, models.InviteApproved)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", invite.Email).
		Updates(map[string]interface{}{
			"role":            invite.Role,
			"clearance_level": invite.ClearanceLevel,
			"enabled":         true,
		}).Error
	if err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *AdminService) RejectInvite(ctx context.Context, actor *models.User, id uint) (*models.Invite, error) {
	return s.transitionInvite(ctx, actor, id, models.InviteRejected)
}

// TerminateInvite revokes a still-pending invite.
func (s *AdminService) TerminateInvite(ctx context.Context, actor *models.User, id uint) (*models.Invite, error) {
	return s.transitionInvite(ctx, actor, id, models.InviteTerminated)
}

// DeleteInvite removes a dead invite. Only TERMINATED and REJECTED
// invites can be deleted.
func (s *AdminService) DeleteInvite(ctx context.Context, actor *models.User, id uint) error {
	if err := s.requireElevated(actor); err != nil {
		return err
	}
	invite, err := s.getInvite(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDeleteInvite(invite.Status) {
		return fmt.Errorf("%w: cannot delete %s invite", ErrInviteState, invite.Status)
	}
	return s.db.WithContext(ctx).Unscoped().Delete(invite).Error
}

// AcceptInvite redeems an invite token: possession of the token is what
// entitles the caller to the invite, not knowledge of the invited email.
// The account is created alongside the PENDING -> REGISTERED move and
// waits at USER/LOW until an admin approves the invite.
func (s *AdminService) AcceptInvite(ctx context.Context, token, email, passwordHash string) (*models.User, error) {
	var invite models.Invite
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	if invite.Email != email {
		return nil, fmt.Errorf("%w: invite was issued for a different email", ErrValidation)
	}
	if !policy.CanTransitionInvite(invite.Status, models.InviteRegistered) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInviteState, invite.Status, models.InviteRegistered)
	}

	user := models.User{
		Email:          email,
		PasswordHash:   passwordHash,
		Role:           models.RoleUser,
		ClearanceLevel: models.SensitivityLow,
		Enabled:        true,
	}
	now := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		invite.Status = models.InviteRegistered
		invite.RegisteredAt = &now
		return tx.Save(&invite).Error
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, email, models.AuditRegister, "USER", user.ID, "", "")
	s.metrics.IncrementCounter("invites.accepted", nil)
	s.logger.Info("Invite accepted",
		zap.Uint("invite_id", invite.ID),
		zap.String("email", email))
	return &user, nil
}
