package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/securecase/securecase/internal/db"
	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/pkg/metrics"
)

type testEnv struct {
	db        *gorm.DB
	tokens    *TokenService
	audit     *AuditService
	cases     *CaseService
	documents *DocumentService
	collab    *CollabService
	admin     *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(database))

	logger := zap.NewNop()
	collector := metrics.NewMetricsCollector()
	tokens := NewTokenService(time.Hour, logger, collector)
	t.Cleanup(tokens.Close)

	audit := NewAuditService(database, logger, collector)
	cases := NewCaseService(database, audit, logger, collector)

	return &testEnv{
		db:        database,
		tokens:    tokens,
		audit:     audit,
		cases:     cases,
		documents: NewDocumentService(database, cases, audit, logger, collector),
		collab:    NewCollabService(database, cases, audit, logger, collector),
		admin:     NewAdminService(database, tokens, audit, logger, collector),
	}
}

func (e *testEnv) createUser(t *testing.T, email string, role models.UserRole, clearance models.SensitivityLevel) *models.User {
	t.Helper()
	user := models.User{
		Email:          email,
		PasswordHash:   "x",
		Role:           role,
		ClearanceLevel: clearance,
		Enabled:        true,
	}
	require.NoError(t, e.db.Create(&user).Error)
	return &user
}
