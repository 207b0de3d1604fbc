package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securecase/securecase/internal/db/models"
)

var allStatuses = []models.CaseStatus{
	models.StatusOpen,
	models.StatusInProgress,
	models.StatusReview,
	models.StatusClosed,
	models.StatusArchived,
}

func TestAllowedTransitions(t *testing.T) {
	tests := []struct {
		from models.CaseStatus
		want []models.CaseStatus
	}{
		{models.StatusOpen, []models.CaseStatus{models.StatusInProgress}},
		{models.StatusInProgress, []models.CaseStatus{models.StatusReview}},
		{models.StatusReview, []models.CaseStatus{models.StatusClosed, models.StatusInProgress}},
		{models.StatusClosed, []models.CaseStatus{models.StatusArchived}},
		{models.StatusArchived, []models.CaseStatus{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, AllowedTransitions(tt.from))
		})
	}
}

func TestAllowedTransitions_UnknownStatus(t *testing.T) {
	assert.Empty(t, AllowedTransitions(models.CaseStatus("REJECTED")))
}

func TestCanTransition_ExhaustivePairs(t *testing.T) {
	allowed := map[[2]models.CaseStatus]bool{
		{models.StatusOpen, models.StatusInProgress}:   true,
		{models.StatusInProgress, models.StatusReview}: true,
		{models.StatusReview, models.StatusClosed}:     true,
		{models.StatusReview, models.StatusInProgress}: true,
		{models.StatusClosed, models.StatusArchived}:   true,
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[[2]models.CaseStatus{from, to}]
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIsRollback(t *testing.T) {
	assert.True(t, IsRollback(models.StatusReview, models.StatusInProgress))
	assert.False(t, IsRollback(models.StatusReview, models.StatusClosed))
	assert.False(t, IsRollback(models.StatusOpen, models.StatusInProgress))
}

func TestApplyTransition_RequiresElevatedActor(t *testing.T) {
	c := &models.Case{Status: models.StatusOpen, OwnerEmail: "owner@firm.test"}
	owner := &models.User{Email: "owner@firm.test", Role: models.RoleUser}

	err := ApplyTransition(c, models.StatusInProgress, owner)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, models.StatusOpen, c.Status)

	err = ApplyTransition(c, models.StatusInProgress, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestApplyTransition_RejectsIllegalMoves(t *testing.T) {
	admin := &models.User{Email: "admin@firm.test", Role: models.RoleAdmin}
	tests := []struct {
		from, to models.CaseStatus
	}{
		{models.StatusOpen, models.StatusOpen},
		{models.StatusOpen, models.StatusReview},
		{models.StatusOpen, models.StatusArchived},
		{models.StatusClosed, models.StatusOpen},
		{models.StatusArchived, models.StatusOpen},
		{models.StatusArchived, models.StatusClosed},
	}
	for _, tt := range tests {
		c := &models.Case{Status: tt.from}
		err := ApplyTransition(c, tt.to, admin)
		assert.ErrorIsf(t, err, ErrInvalidTransition, "%s -> %s", tt.from, tt.to)
		assert.Equal(t, tt.from, c.Status)
	}
}

func TestApplyTransition_FullLifecycle(t *testing.T) {
	admin := &models.User{Email: "admin@firm.test", Role: models.RoleAdmin}
	c := &models.Case{Status: models.StatusOpen}
	before := c.UpdatedAt

	steps := []models.CaseStatus{
		models.StatusInProgress,
		models.StatusReview,
		models.StatusInProgress, // review send-back
		models.StatusReview,
		models.StatusClosed,
		models.StatusArchived,
	}
	for _, target := range steps {
		require.NoError(t, ApplyTransition(c, target, admin))
		assert.Equal(t, target, c.Status)
	}
	assert.True(t, c.UpdatedAt.After(before) || before.Equal(time.Time{}))

	// archived is terminal
	for _, target := range allStatuses {
		assert.ErrorIs(t, ApplyTransition(c, target, admin), ErrInvalidTransition)
	}
}
