package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securecase/securecase/internal/db/models"
	"github.com/securecase/securecase/internal/policy"
)

func TestCaseCreateStartsOpen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@firm.test", models.RoleUser, models.SensitivityMedium)

	c, err := env.cases.Create(ctx, owner, "Estate of Doe", "Probate matter", models.SensitivityMedium, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, c.Status)
	assert.Equal(t, owner.Email, c.OwnerEmail)
}

func TestCaseCreateAboveClearanceForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@firm.test", models.RoleUser, models.SensitivityMedium)

	_, err := env.cases.Create(ctx, owner, "Sealed matter", "desc", models.SensitivityHigh, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCaseCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@firm.test", models.RoleUser, models.SensitivityLow)

	_, err := env.cases.Create(ctx, owner, "", "desc", models.SensitivityLow, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCaseLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@firm.test", models.RoleUser, models.SensitivityLow)
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)

	c, err := env.cases.Create(ctx, owner, "Lifecycle case", "desc", models.SensitivityLow, nil)
	require.NoError(t, err)

	for _, target := range []models.CaseStatus{
		models.StatusInProgress,
		models.StatusReview,
		models.StatusInProgress, // review send-back
		models.StatusReview,
		models.StatusClosed,
		models.StatusArchived,
	} {
		c, err = env.cases.UpdateStatus(ctx, admin, c.ID, target)
		require.NoError(t, err, "transition to %s", target)
		assert.Equal(t, target, c.Status)
	}

	// ARCHIVED is terminal
	for _, target := range []models.CaseStatus{
		models.StatusOpen, models.StatusInProgress, models.StatusReview, models.StatusClosed,
	} {
		_, err = env.cases.UpdateStatus(ctx, admin, c.ID, target)
		assert.ErrorIs(t, err, policy.ErrInvalidTransition)
	}
}

func TestCaseStatusSkipRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@firm.test", models.RoleUser, models.SensitivityLow)
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)

	c, err := env.cases.Create(ctx, owner, "Skip case", "desc", models.SensitivityLow, nil)
	require.NoError(t, err)

	_, err = env.cases.UpdateStatus(ctx, admin, c.ID, models.StatusReview)
	assert.ErrorIs(t, err, policy.ErrInvalidTransition)

	reloaded, err := env.cases.Get(ctx, admin, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, reloaded.Status)
}

func TestCaseStatusRequiresElevated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@firm.test", models.RoleUser, models.SensitivityLow)

	c, err := env.cases.Create(ctx, owner, "Owned case", "desc", models.SensitivityLow, nil)
	require.NoError(t, err)

	_, err = env.cases.UpdateStatus(ctx, owner, c.ID, models.StatusInProgress)
	assert.ErrorIs(t, err, policy.ErrUnauthorized)
}

func TestCaseListClearanceFiltered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)
	viewer := env.createUser(t, "viewer@firm.test", models.RoleUser, models.SensitivityMedium)

	for _, level := range models.SensitivityLevels {
		_, err := env.cases.Create(ctx, admin, "Case "+string(level), "desc", level, nil)
		require.NoError(t, err)
	}

	cases, total, err := env.cases.List(ctx, viewer, CaseFilters{}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, c := range cases {
		assert.True(t, viewer.ClearanceLevel.AtLeast(c.SensitivityLevel))
	}

	all, total, err := env.cases.List(ctx, admin, CaseFilters{}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 4)
}

func TestCaseGetForbiddenAboveClearance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)
	viewer := env.createUser(t, "viewer@firm.test", models.RoleUser, models.SensitivityLow)

	c, err := env.cases.Create(ctx, admin, "Sealed", "desc", models.SensitivityCritical, nil)
	require.NoError(t, err)

	_, err = env.cases.Get(ctx, viewer, c.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCaseUpdateMetaOwnerAndStatusGated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@firm.test", models.RoleUser, models.SensitivityLow)
	other := env.createUser(t, "other@firm.test", models.RoleUser, models.SensitivityLow)
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)

	c, err := env.cases.Create(ctx, owner, "Editable", "desc", models.SensitivityLow, nil)
	require.NoError(t, err)

	_, err = env.cases.UpdateMeta(ctx, other, c.ID, "Hijack", "desc", nil)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := env.cases.UpdateMeta(ctx, owner, c.ID, "Renamed", "new desc", nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	for _, target := range []models.CaseStatus{models.StatusInProgress, models.StatusReview} {
		_, err = env.cases.UpdateStatus(ctx, admin, c.ID, target)
		require.NoError(t, err)
	}
	_, err = env.cases.UpdateMeta(ctx, owner, c.ID, "Too late", "desc", nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCaseMatterRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@firm.test", models.RoleUser, models.SensitivityLow)

	matter := &models.CaseMatter{
		CaseNumber: "CV-2026-0042",
		CourtName:  "District Court",
		JudgeName:  "Hon. Smith",
	}
	c, err := env.cases.Create(ctx, owner, "Matter case", "desc", models.SensitivityLow, matter)
	require.NoError(t, err)

	reloaded, err := env.cases.Get(ctx, owner, c.ID)
	require.NoError(t, err)
	decoded, err := env.cases.Matter(reloaded)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, "CV-2026-0042", decoded.CaseNumber)
	assert.Equal(t, "Hon. Smith", decoded.JudgeName)
}

func TestCaseListMine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@firm.test", models.RoleUser, models.SensitivityLow)
	other := env.createUser(t, "other@firm.test", models.RoleUser, models.SensitivityLow)

	_, err := env.cases.Create(ctx, owner, "Mine", "desc", models.SensitivityLow, nil)
	require.NoError(t, err)
	_, err = env.cases.Create(ctx, other, "Theirs", "desc", models.SensitivityLow, nil)
	require.NoError(t, err)

	mine, total, err := env.cases.ListMine(ctx, owner, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Title)
}
