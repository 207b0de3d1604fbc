package policy

import (
	"errors"

	"github.com/securecase/securecase/internal/db/models"
)

var ErrInvalidInviteTransition = errors.New("invalid invite transition")

// inviteTable is the invite lifecycle: PENDING -> REGISTERED when the
// invitee signs up, then APPROVED or REJECTED by admin decision;
// PENDING -> TERMINATED when revoked before signup.
var inviteTable = map[models.InviteStatus][]models.InviteStatus{
	models.InvitePending:    {models.InviteRegistered, models.InviteTerminated},
	models.InviteRegistered: {models.InviteApproved, models.InviteRejected},
	models.InviteApproved:   {},
	models.InviteRejected:   {},
	models.InviteTerminated: {},
}

func CanTransitionInvite(from, to models.InviteStatus) bool {
	for _, allowed := range inviteTable[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanDeleteInvite: invites are removable only once they are dead ends.
func CanDeleteInvite(status models.InviteStatus) bool {
	return status == models.InviteTerminated || status == models.InviteRejected
}
