package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securecase/securecase/internal/db/models"
)

func TestCommentsClearanceFiltered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)
	viewer := env.createUser(t, "viewer@firm.test", models.RoleUser, models.SensitivityLow)

	c, err := env.cases.Create(ctx, admin, "Commented case", "desc", models.SensitivityLow, nil)
	require.NoError(t, err)

	_, err = env.collab.AddComment(ctx, admin, c.ID, "public note", models.SensitivityLow)
	require.NoError(t, err)
	_, err = env.collab.AddComment(ctx, admin, c.ID, "sealed note", models.SensitivityHigh)
	require.NoError(t, err)

	visible, err := env.collab.ListComments(ctx, viewer, c.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "public note", visible[0].Content)

	all, err := env.collab.ListComments(ctx, admin, c.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAddCommentAboveClearanceForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "user@firm.test", models.RoleUser, models.SensitivityLow)

	c, err := env.cases.Create(ctx, user, "Case", "desc", models.SensitivityLow, nil)
	require.NoError(t, err)

	_, err = env.collab.AddComment(ctx, user, c.ID, "note", models.SensitivityMedium)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteCommentElevatedOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "user@firm.test", models.RoleUser, models.SensitivityLow)
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)

	c, err := env.cases.Create(ctx, user, "Case", "desc", models.SensitivityLow, nil)
	require.NoError(t, err)
	comment, err := env.collab.AddComment(ctx, user, c.ID, "note", models.SensitivityLow)
	require.NoError(t, err)

	err = env.collab.DeleteComment(ctx, user, comment.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, env.collab.DeleteComment(ctx, admin, comment.ID))
	err = env.collab.DeleteComment(ctx, admin, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestEventsLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "user@firm.test", models.RoleUser, models.SensitivityLow)
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)

	c, err := env.cases.Create(ctx, user, "Case", "desc", models.SensitivityLow, nil)
	require.NoError(t, err)

	next := time.Now().Add(14 * 24 * time.Hour)
	event, err := env.collab.AddEvent(ctx, user, c.ID, models.EventHearing, "First hearing", time.Now(), &next)
	require.NoError(t, err)
	assert.Equal(t, user.Email, event.CreatedBy)

	_, err = env.collab.AddEvent(ctx, user, c.ID, "PARTY", "bad type", time.Now(), nil)
	assert.ErrorIs(t, err, ErrValidation)

	err = env.collab.DeleteEvent(ctx, user, c.ID, event.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, env.collab.DeleteEvent(ctx, admin, c.ID, event.ID))

	err = env.collab.DeleteEvent(ctx, admin, c.ID, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestPartyUpdateOwnerOrElevated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@firm.test", models.RoleUser, models.SensitivityLow)
	other := env.createUser(t, "other@firm.test", models.RoleUser, models.SensitivityLow)

	c, err := env.cases.Create(ctx, owner, "Case", "desc", models.SensitivityLow, nil)
	require.NoError(t, err)

	party, err := env.collab.AddParty(ctx, owner, c.ID, models.CaseParty{
		Name: "John Doe",
		Role: models.PartyPetitioner,
	})
	require.NoError(t, err)

	_, err = env.collab.UpdateParty(ctx, other, c.ID, party.ID, models.CaseParty{
		Name: "Jane Doe",
		Role: models.PartyPetitioner,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := env.collab.UpdateParty(ctx, owner, c.ID, party.ID, models.CaseParty{
		Name:         "Jane Doe",
		Role:         models.PartyRespondent,
		AdvocateName: "Adv. Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", updated.Name)
	assert.Equal(t, models.PartyRespondent, updated.Role)

	require.NoError(t, env.collab.DeleteParty(ctx, owner, c.ID, party.ID))
	err = env.collab.DeleteParty(ctx, owner, c.ID, party.ID)
	assert.ErrorIs(t, err, ErrPartyNotFound)
}

func TestAssignments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@firm.test", models.RoleUser, models.SensitivityLow)
	admin := env.createUser(t, "admin@firm.test", models.RoleAdmin, models.SensitivityLow)

	c, err := env.cases.Create(ctx, owner, "Case", "desc", models.SensitivityLow, nil)
	require.NoError(t, err)

	a, err := env.collab.AddAssignment(ctx, owner, c.ID, "lead@firm.test", models.AssignmentLead)
	require.NoError(t, err)

	_, err = env.collab.AddAssignment(ctx, owner, c.ID, "x@firm.test", "OBSERVER")
	assert.ErrorIs(t, err, ErrValidation)

	list, err := env.collab.ListAssignments(ctx, owner, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.AssignmentLead, list[0].Role)

	err = env.collab.DeleteAssignment(ctx, owner, c.ID, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, env.collab.DeleteAssignment(ctx, admin, c.ID, a.ID))
}
