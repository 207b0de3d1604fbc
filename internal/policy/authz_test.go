package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/securecase/securecase/internal/db/models"
)

func TestCan_EditMeta(t *testing.T) {
	owner := &models.User{Email: "owner@firm.test", Role: models.RoleUser}
	other := &models.User{Email: "other@firm.test", Role: models.RoleUser}
	admin := &models.User{Email: "admin@firm.test", Role: models.RoleAdmin}

	tests := []struct {
		name   string
		actor  *models.User
		status models.CaseStatus
		want   bool
	}{
		{"owner while open", owner, models.StatusOpen, true},
		{"owner while in progress", owner, models.StatusInProgress, true},
		{"owner while review", owner, models.StatusReview, false},
		{"owner while closed", owner, models.StatusClosed, false},
		{"owner while archived", owner, models.StatusArchived, false},
		{"non-owner while open", other, models.StatusOpen, false},
		{"admin non-owner while open", admin, models.StatusOpen, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.Case{OwnerEmail: "owner@firm.test", Status: tt.status}
			assert.Equal(t, tt.want, Can(ActionEditMeta, tt.actor, c))
		})
	}
}

func TestCan_ElevatedOnlyActions(t *testing.T) {
	owner := &models.User{Email: "owner@firm.test", Role: models.RoleUser}
	admin := &models.User{Email: "admin@firm.test", Role: models.RoleAdmin}
	c := &models.Case{OwnerEmail: "owner@firm.test", Status: models.StatusOpen}

	for _, action := range []Action{ActionChangeStatus, ActionChangeSensitivity, ActionDeleteChild} {
		assert.False(t, Can(action, owner, c))
		assert.True(t, Can(action, admin, c))
	}
}

func TestCan_UploadVersion(t *testing.T) {
	owner := &models.User{Email: "owner@firm.test", Role: models.RoleUser}
	other := &models.User{Email: "other@firm.test", Role: models.RoleUser}
	admin := &models.User{Email: "admin@firm.test", Role: models.RoleAdmin}

	// uploads are not gated by status, archived included
	for _, status := range allStatuses {
		c := &models.Case{OwnerEmail: "owner@firm.test", Status: status}
		assert.True(t, Can(ActionUploadVersion, owner, c))
		assert.True(t, Can(ActionUploadVersion, admin, c))
		assert.False(t, Can(ActionUploadVersion, other, c))
	}
}

func TestCan_NilInputs(t *testing.T) {
	c := &models.Case{OwnerEmail: "owner@firm.test"}
	u := &models.User{Email: "owner@firm.test"}
	assert.False(t, Can(ActionEditMeta, nil, c))
	assert.False(t, Can(ActionEditMeta, u, nil))
}

func TestInviteTransitions(t *testing.T) {
	assert.True(t, CanTransitionInvite(models.InvitePending, models.InviteRegistered))
	assert.True(t, CanTransitionInvite(models.InvitePending, models.InviteTerminated))
	assert.True(t, CanTransitionInvite(models.InviteRegistered, models.InviteApproved))
	assert.True(t, CanTransitionInvite(models.InviteRegistered, models.InviteRejected))

	assert.False(t, CanTransitionInvite(models.InvitePending, models.InviteApproved))
	assert.False(t, CanTransitionInvite(models.InviteApproved, models.InviteRejected))
	assert.False(t, CanTransitionInvite(models.InviteTerminated, models.InvitePending))
}

func TestCanDeleteInvite(t *testing.T) {
	assert.True(t, CanDeleteInvite(models.InviteTerminated))
	assert.True(t, CanDeleteInvite(models.InviteRejected))
	assert.False(t, CanDeleteInvite(models.InvitePending))
	assert.False(t, CanDeleteInvite(models.InviteRegistered))
	assert.False(t, CanDeleteInvite(models.InviteApproved))
}
