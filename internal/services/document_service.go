package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/policy"
	"github.com/securecase/securecase/internal/utils"
	"github.com/securecase/securecase/pkg/metrics"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentService manages versioned document groups. Uploads only ever
// append: a re-upload under an existing group id creates version max+1,
// never an overwrite. The latest version's sensitivity governs group
// visibility in list views.
type DocumentService struct {
	db      *gorm.DB
	cases   *CaseService
	audit   *AuditService
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
}

func NewDocumentService(database *gorm.DB, cases *CaseService, audit *AuditService, logger *zap.Logger, collector *metrics.MetricsCollector) *DocumentService {
	return &DocumentService{
		db:      database,
		cases:   cases,
		audit:   audit,
		logger:  logger.With(zap.String("service", "document_service")),
		metrics: collector,
	}
}

// Upload stores a new document version. An empty groupID starts a new
// group at version 1; otherwise the version is one past the group's
// all-time maximum, deleted versions included, so a number is never
// reused. Two uploads racing to one group can both read the same
// maximum; the unique index on (group, version) rejects the loser.
func (ds *DocumentService) Upload(ctx context.Context, actor *models.User, caseID uint, fileName, fileType string, content []byte, level models.SensitivityLevel, groupID string) (*models.CaseDocument, error) {
	c, err := ds.cases.Get(ctx, actor, caseID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(policy.ActionUploadVersion, actor, c) {
		return nil, ErrForbidden
	}
	if !policy.CanAssignLevel(actor, level) {
		return nil, ErrForbidden
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrValidation)
	}

	doc := models.CaseDocument{
		CaseID:           caseID,
		FileName:         fileName,
		FileType:         fileType,
		FileSize:         int64(len(content)),
		Content:          content,
		FileHash:         utils.HashContent(content),
		SensitivityLevel: level,
		UploadedBy:       actor.Email,
		Active:           true,
	}

	err = ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if groupID == "" {
			doc.DocumentGroupID = uuid.New().String()
			doc.Version = 1
			return tx.Create(&doc).Error
		}

		var maxVersion int
		row := tx.Unscoped().Model(&models.CaseDocument{}).
			Where("case_id = ? AND document_group_id = ?", caseID, groupID).
			Select("COALESCE(MAX(version), 0)")
		if err := row.Scan(&maxVersion).Error; err != nil {
			return err
		}
		if maxVersion == 0 {
			return ErrDocumentNotFound
		}
		doc.DocumentGroupID = groupID
		doc.Version = maxVersion + 1
		return tx.Create(&doc).Error
	})
	if err != nil {
		return nil, err
	}

	ds.audit.Record(ctx, actor.Email, models.AuditDocumentUploaded, "DOCUMENT", doc.ID, "", doc.FileName)
	ds.metrics.IncrementCounter("documents.uploaded", nil)
	ds.metrics.ObserveSize("documents.upload_bytes", float64(doc.FileSize))
	ds.logger.Info("Document version stored",
		zap.Uint("case_id", caseID),
		zap.String("group_id", doc.DocumentGroupID),
		zap.Int("version", doc.Version))
	return &doc, nil
}

// ListGroups returns the case's documents grouped by logical identity,
// versions descending within each group, groups ordered by most recent
// upload. Groups whose latest version outranks the viewer's clearance
// are withheld entirely.
func (ds *DocumentService) ListGroups(ctx context.Context, viewer *models.User, caseID uint) ([]models.CaseDocumentGroup, error) {
	if _, err := ds.cases.Get(ctx, viewer, caseID); err != nil {
		return nil, err
	}

	var docs []models.CaseDocument
	if err := ds.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("uploaded_at DESC").
		Omit("content").
		Find(&docs).Error; err != nil {
		return nil, err
	}

	byGroup := make(map[string][]models.CaseDocument)
	order := make([]string, 0)
	for _, d := range docs {
		if _, seen := byGroup[d.DocumentGroupID]; !seen {
			order = append(order, d.DocumentGroupID)
		}
		byGroup[d.DocumentGroupID] = append(byGroup[d.DocumentGroupID], d)
	}

	groups := make([]models.CaseDocumentGroup, 0, len(order))
	for _, id := range order {
		group := models.CaseDocumentGroup{DocumentGroupID: id, Versions: byGroup[id]}
		sort.Slice(group.Versions, func(i, j int) bool {
			return group.Versions[i].Version > group.Versions[j].Version
		})
		latest := group.Latest()
		if latest == nil || !policy.CanView(viewer, latest.SensitivityLevel) {
			continue
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// Get loads a single version with content, enforcing clearance against
// that version's own tag.
func (ds *DocumentService) Get(ctx context.Context, viewer *models.User, caseID, docID uint) (*models.CaseDocument, error) {
	if _, err := ds.cases.Get(ctx, viewer, caseID); err != nil {
		return nil, err
	}

	var doc models.CaseDocument
	if err := ds.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		First(&doc, docID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if !policy.CanView(viewer, doc.SensitivityLevel) {
		return nil, ErrForbidden
	}
	return &doc, nil
}

// DeleteVersion removes a single version. Elevated role only.
func (ds *DocumentService) DeleteVersion(ctx context.Context, actor *models.User, caseID, docID uint) error {
	c, err := ds.cases.Get(ctx, actor, caseID)
	if err != nil {
		return err
	}
	if !policy.Can(policy.ActionDeleteChild, actor, c) {
		return ErrForbidden
	}

	var doc models.CaseDocument
	if err := ds.db.WithContext(ctx).Where("case_id = ?", caseID).First(&doc, docID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}
	if err := ds.db.WithContext(ctx).Delete(&doc).Error; err != nil {
		return err
	}

	ds.audit.Record(ctx, actor.Email, models.AuditDocumentDeleted, "DOCUMENT", doc.ID, doc.FileName, "")
	return nil
}

// UpdateGroupSensitivity retags the latest version of a group; earlier
// versions keep their historical tags.
func (ds *DocumentService) UpdateGroupSensitivity(ctx context.Context, actor *models.User, caseID uint, groupID string, level models.SensitivityLevel) error {
	if !models.IsValidSensitivityLevel(level) {
		return fmt.Errorf("%w: unknown sensitivity level %q", ErrValidation, level)
	}

	c, err := ds.cases.Get(ctx, actor, caseID)
	if err != nil {
		return err
	}
	if !policy.Can(policy.ActionChangeSensitivity, actor, c) {
		return ErrForbidden
	}

	var latest models.CaseDocument
	if err := ds.db.WithContext(ctx).
		Where("case_id = ? AND document_group_id = ?", caseID, groupID).
		Order("version DESC").
		First(&latest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	old := latest.SensitivityLevel
	if err := ds.db.WithContext(ctx).Model(&latest).Update("sensitivity_level", level).Error; err != nil {
		return err
	}
	ds.audit.Record(ctx, actor.Email, models.AuditSensitivityChanged, "DOCUMENT", latest.ID, string(old), string(level))
	return nil
}
