package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securecase/securecase/internal/db/models"
)

func TestBanRevokesSessionsAndDisables(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)
	target := env.createUser(t, "target@firm.test", models.RoleUser, models.SensitivityLow)

	token := env.tokens.Issue(target.ID, "127.0.0.1", "test")
	_, err := env.tokens.Validate(token)
	require.NoError(t, err)

	banned, err := env.admin.BanUser(ctx, admin, target.ID, "policy violation")
	require.NoError(t, err)
	assert.False(t, banned.Enabled)
	assert.Equal(t, "policy violation", banned.BanReason)

	_, err = env.tokens.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUnbanIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)
	target := env.createUser(t, "target@firm.test", models.RoleUser, models.SensitivityLow)

	_, err := env.admin.BanUser(ctx, admin, target.ID, "reason")
	require.NoError(t, err)

	first, err := env.admin.UnbanUser(ctx, admin, target.ID)
	require.NoError(t, err)
	assert.True(t, first.Enabled)
	assert.Empty(t, first.BanReason)

	// second unban succeeds without effect
	second, err := env.admin.UnbanUser(ctx, admin, target.ID)
	require.NoError(t, err)
	assert.True(t, second.Enabled)
}

func TestAdminEndpointsRequireElevated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "user@firm.test", models.RoleUser, models.SensitivityLow)
	target := env.createUser(t, "target@firm.test", models.RoleUser, models.SensitivityLow)

	_, err := env.admin.ListUsers(ctx, user)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.admin.BanUser(ctx, user, target.ID, "nope")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.admin.CreateInvite(ctx, user, "x@firm.test", models.RoleUser, models.SensitivityLow)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestInviteLifecycleApproval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)

	invite, err := env.admin.CreateInvite(ctx, admin, "new@firm.test", models.RoleUser, models.SensitivityHigh)
	require.NoError(t, err)
	assert.Equal(t, models.InvitePending, invite.Status)
	assert.NotEmpty(t, invite.Token)

	// approval requires a registered invitee
	_, err = env.admin.ApproveInvite(ctx, admin, invite.ID)
	assert.ErrorIs(t, err, ErrInviteState)

	// invitee redeems the token
	invitee, err := env.admin.AcceptInvite(ctx, invite.Token, "new@firm.test", "hash")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, invitee.Role)
	assert.Equal(t, models.SensitivityLow, invitee.ClearanceLevel)

	var registered models.Invite
	require.NoError(t, env.db.First(&registered, invite.ID).Error)
	assert.Equal(t, models.InviteRegistered, registered.Status)
	assert.NotNil(t, registered.RegisteredAt)

	approved, err := env.admin.ApproveInvite(ctx, admin, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InviteApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)

	// invite role and clearance are stamped onto the account
	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, invitee.ID).Error)
	assert.Equal(t, models.SensitivityHigh, reloaded.ClearanceLevel)
	assert.True(t, reloaded.Enabled)
}

func TestInviteTerminateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)

	invite, err := env.admin.CreateInvite(ctx, admin, "gone@firm.test", models.RoleUser, models.SensitivityLow)
	require.NoError(t, err)

	// pending invites cannot be deleted outright
	err = env.admin.DeleteInvite(ctx, admin, invite.ID)
	assert.ErrorIs(t, err, ErrInviteState)

	terminated, err := env.admin.TerminateInvite(ctx, admin, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InviteTerminated, terminated.Status)
	assert.NotNil(t, terminated.TerminatedAt)

	require.NoError(t, env.admin.DeleteInvite(ctx, admin, invite.ID))
	_, err = env.admin.TerminateInvite(ctx, admin, invite.ID)
	assert.ErrorIs(t, err, ErrInviteNotFound)
}

func TestAcceptInviteRejectsBadClaims(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)

	invite, err := env.admin.CreateInvite(ctx, admin, "new@firm.test", models.RoleUser, models.SensitivityLow)
	require.NoError(t, err)

	// an unknown token redeems nothing
	_, err = env.admin.AcceptInvite(ctx, "not-a-token", "new@firm.test", "hash")
	assert.ErrorIs(t, err, ErrInviteNotFound)

	// knowing the invited email is not enough without the token
	_, err = env.admin.AcceptInvite(ctx, invite.Token, "someone@else.test", "hash")
	assert.ErrorIs(t, err, ErrValidation)

	var pending models.Invite
	require.NoError(t, env.db.First(&pending, invite.ID).Error)
	assert.Equal(t, models.InvitePending, pending.Status)

	// a token is single-use
	_, err = env.admin.AcceptInvite(ctx, invite.Token, "new@firm.test", "hash")
	require.NoError(t, err)
	_, err = env.admin.AcceptInvite(ctx, invite.Token, "new@firm.test", "hash")
	assert.ErrorIs(t, err, ErrInviteState)
}

func TestListInvitesFilterByStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)

	a, err := env.admin.CreateInvite(ctx, admin, "a@firm.test", models.RoleUser, models.SensitivityLow)
	require.NoError(t, err)
	_, err = env.admin.CreateInvite(ctx, admin, "b@firm.test", models.RoleUser, models.SensitivityLow)
	require.NoError(t, err)
	_, err = env.admin.TerminateInvite(ctx, admin, a.ID)
	require.NoError(t, err)

	pending, total, err := env.admin.ListInvites(ctx, admin, models.InvitePending, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, "b@firm.test", pending[0].Email)

	_, total, err = env.admin.ListInvites(ctx, admin, "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestUpdateRoleAndClearance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)
	target := env.createUser(t, "target@firm.test", models.RoleUser, models.SensitivityLow)

	promoted, err := env.admin.UpdateRole(ctx, admin, target.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	_, err = env.admin.UpdateRole(ctx, admin, target.ID, "SUPERADMIN")
	assert.ErrorIs(t, err, ErrValidation)

	cleared, err := env.admin.UpdateClearance(ctx, admin, target.ID, models.SensitivityCritical)
	require.NoError(t, err)
	assert.Equal(t, models.SensitivityCritical, cleared.ClearanceLevel)

	_, err = env.admin.UpdateClearance(ctx, admin, target.ID, "ULTRA")
	assert.ErrorIs(t, err, ErrValidation)
}
