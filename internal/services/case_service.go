package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/policy"
	"github.com/securecase/securecase/pkg/metrics"
)

var (
	ErrCaseNotFound = errors.New("case not found")
	ErrForbidden    = errors.New("operation not permitted")
	ErrValidation   = errors.New("validation failed")
)

// CaseService owns case CRUD and is the only caller of the policy
// transition machinery. Visibility is clearance-filtered at the query
// level so a viewer never receives a case they cannot see.
type CaseService struct {
	db      *gorm.DB
	audit   *AuditService
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
}

// CaseFilters narrows case listings. Zero values mean no filter.
type CaseFilters struct {
	Title       string
	Status      models.CaseStatus
	Sensitivity models.SensitivityLevel
}

func NewCaseService(database *gorm.DB, audit *AuditService, logger *zap.Logger, collector *metrics.MetricsCollector) *CaseService {
	return &CaseService{
		db:      database,
		audit:   audit,
		logger:  logger.With(zap.String("service", "case_service")),
		metrics: collector,
	}
}

// visibleLevels returns the sensitivity tags viewer is cleared for.
func visibleLevels(viewer *models.User) []models.SensitivityLevel {
	if viewer.IsElevated() {
		return models.SensitivityLevels
	}
	levels := make([]models.SensitivityLevel, 0, len(models.SensitivityLevels))
	for _, level := range models.SensitivityLevels {
		if viewer.ClearanceLevel.AtLeast(level) {
			levels = append(levels, level)
		}
	}
	return levels
}

func (cs *CaseService) visibleQuery(ctx context.Context, viewer *models.User) *gorm.DB {
	q := cs.db.WithContext(ctx).Model(&models.Case{})
	if !viewer.IsElevated() {
		q = q.Where("sensitivity_level IN ?", visibleLevels(viewer))
	}
	return q
}

// List returns a page of cases the viewer is cleared to see, newest
// first. Elevated viewers see every case.
func (cs *CaseService) List(ctx context.Context, viewer *models.User, filters CaseFilters, page, size int) ([]models.Case, int64, error) {
	q := cs.visibleQuery(ctx, viewer)

	if filters.Title != "" {
		q = q.Where("title LIKE ?", "%"+filters.Title+"%")
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Sensitivity != "" {
		q = q.Where("sensitivity_level = ?", filters.Sensitivity)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cases []models.Case
	if err := q.Order("created_at DESC").Offset(page * size).Limit(size).Find(&cases).Error; err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

// ListMine returns a page of the viewer's own cases.
func (cs *CaseService) ListMine(ctx context.Context, viewer *models.User, page, size int) ([]models.Case, int64, error) {
	q := cs.visibleQuery(ctx, viewer).Where("owner_email = ?", viewer.Email)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cases []models.Case
	if err := q.Order("created_at DESC").Offset(page * size).Limit(size).Find(&cases).Error; err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

// Get loads a single case, enforcing the clearance gate.
func (cs *CaseService) Get(ctx context.Context, viewer *models.User, id uint) (*models.Case, error) {
	var c models.Case
	if err := cs.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	if !policy.CanView(viewer, c.SensitivityLevel) {
		return nil, ErrForbidden
	}
	return &c, nil
}

// Create opens a new case. Cases always start at OPEN; the creator may
// not tag the case above their own clearance.
func (cs *CaseService) Create(ctx context.Context, actor *models.User, title, description string, level models.SensitivityLevel, matter *models.CaseMatter) (*models.Case, error) {
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if !policy.CanAssignLevel(actor, level) {
		return nil, ErrForbidden
	}

	c := models.Case{
		Title:            title,
		Description:      description,
		Status:           models.StatusOpen,
		SensitivityLevel: level,
		OwnerEmail:       actor.Email,
	}
	if matter != nil {
		raw, err := json.Marshal(matter)
		if err != nil {
			return nil, fmt.Errorf("failed to encode case matter: %w", err)
		}
		c.MatterJSON = string(raw)
	}

	if err := cs.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, err
	}

	cs.audit.Record(ctx, actor.Email, models.AuditCaseCreated, "CASE", c.ID, "", c.Title)
	cs.metrics.IncrementCounter("cases.created", nil)
	cs.logger.Info("Case created",
		zap.Uint("case_id", c.ID),
		zap.String("owner", actor.Email),
		zap.String("sensitivity", string(level)))
	return &c, nil
}

// UpdateMeta edits title/description. Owner only, and only while the
// case is OPEN or IN_PROGRESS.
func (cs *CaseService) UpdateMeta(ctx context.Context, actor *models.User, id uint, title, description string, matter *models.CaseMatter) (*models.Case, error) {
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrValidation)
	}

	c, err := cs.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.Can(policy.ActionEditMeta, actor, c) {
		return nil, ErrForbidden
	}

	c.Title = title
	c.Description = description
	if matter != nil {
		raw, err := json.Marshal(matter)
		if err != nil {
			return nil, fmt.Errorf("failed to encode case matter: %w", err)
		}
		c.MatterJSON = string(raw)
	}
	if err := cs.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, err
	}

	cs.audit.Record(ctx, actor.Email, models.AuditCaseUpdated, "CASE", c.ID, "", c.Title)
	return c, nil
}

// UpdateStatus drives the lifecycle machine. Elevated actors only; the
// transition table is the single source of truth for legal moves.
func (cs *CaseService) UpdateStatus(ctx context.Context, actor *models.User, id uint, target models.CaseStatus) (*models.Case, error) {
	if !models.IsValidCaseStatus(target) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}

	c, err := cs.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	oldStatus := c.Status
	if err := policy.ApplyTransition(c, target, actor); err != nil {
		return nil, err
	}
	if err := cs.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, err
	}

	cs.audit.Record(ctx, actor.Email, models.AuditStatusChanged, "CASE", c.ID, string(oldStatus), string(target))
	cs.metrics.IncrementCounter("cases.status_changed", map[string]string{"to": string(target)})
	if policy.IsRollback(oldStatus, target) {
		cs.logger.Info("Case rolled back to in-progress",
			zap.Uint("case_id", c.ID),
			zap.String("actor", actor.Email))
	}
	return c, nil
}

// UpdateSensitivity retags a case. Elevated actors only, a stricter rule
// than plain viewing.
func (cs *CaseService) UpdateSensitivity(ctx context.Context, actor *models.User, id uint, level models.SensitivityLevel) (*models.Case, error) {
	if !models.IsValidSensitivityLevel(level) {
		return nil, fmt.Errorf("%w: unknown sensitivity level %q", ErrValidation, level)
	}

	c, err := cs.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.Can(policy.ActionChangeSensitivity, actor, c) {
		return nil, ErrForbidden
	}

	old := c.SensitivityLevel
	c.SensitivityLevel = level
	if err := cs.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, err
	}

	cs.audit.Record(ctx, actor.Email, models.AuditSensitivityChanged, "CASE", c.ID, string(old), string(level))
	return c, nil
}

// Matter decodes the optional legal-matter metadata of a case.
func (cs *CaseService) Matter(c *models.Case) (*models.CaseMatter, error) {
	if c.MatterJSON == "" {
		return nil, nil
	}
	var matter models.CaseMatter
	if err := json.Unmarshal([]byte(c.MatterJSON), &matter); err != nil {
		return nil, fmt.Errorf("corrupt case matter on case %s: %w", strconv.Itoa(int(c.ID)), err)
	}
	return &matter, nil
}
