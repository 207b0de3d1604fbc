package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/pkg/metrics"
)

// AuditService records an append-only trail of every mutating action and
// serves the admin audit-log query. Recording failures are logged and
// swallowed; an audit write must never fail the action it describes.
type AuditService struct {
	db      *gorm.DB
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
}

// AuditFilters narrows the admin audit-log query. Zero values mean no
// filtering on that dimension.
type AuditFilters struct {
	ActorEmail string
	Action     models.AuditAction
	TargetType string
	From       time.Time
	To         time.Time
}

func NewAuditService(database *gorm.DB, logger *zap.Logger, collector *metrics.MetricsCollector) *AuditService {
	return &AuditService{
		db:      database,
		logger:  logger.With(zap.String("service", "audit_service")),
		metrics: collector,
	}
}

func (as *AuditService) Record(ctx context.Context, actorEmail string, action models.AuditAction, targetType string, targetID uint, oldValue, newValue string) {
	entry := models.AuditLog{
		ActorEmail: actorEmail,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		OldValue:   oldValue,
		NewValue:   newValue,
		Timestamp:  time.Now(),
	}
	if err := as.db.WithContext(ctx).Create(&entry).Error; err != nil {
		as.logger.Error("Failed to record audit entry",
			zap.String("actor", actorEmail),
			zap.String("action", string(action)),
			zap.Error(err))
		return
	}
	as.metrics.IncrementCounter("audit.entries_recorded", map[string]string{"action": string(action)})
}

// Query returns a page of audit entries, newest first.
func (as *AuditService) Query(ctx context.Context, filters AuditFilters, page, size int) ([]models.AuditLog, int64, error) {
	q := as.db.WithContext(ctx).Model(&models.AuditLog{})

	if filters.ActorEmail != "" {
		q = q.Where("actor_email = ?", filters.ActorEmail)
	}
	if filters.Action != "" {
		q = q.Where("action = ?", filters.Action)
	}
	if filters.TargetType != "" {
		q = q.Where("target_type = ?", filters.TargetType)
	}
	if !filters.From.IsZero() {
		q = q.Where("timestamp >= ?", filters.From)
	}
	if !filters.To.IsZero() {
		q = q.Where("timestamp <= ?", filters.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditLog
	if err := q.Order("timestamp DESC").
		Offset(page * size).
		Limit(size).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
