package policy

import (
	"github.com/securecase/securecase/internal/db/models"
)

// Action enumerates the case operations subject to ownership/role rules.
type Action int

const (
	// ActionEditMeta covers title/description edits.
	ActionEditMeta Action = iota
	ActionChangeStatus
	ActionChangeSensitivity
	ActionDeleteChild
	ActionUploadVersion
)

// editableStatuses are the only statuses under which the owner may still
// edit title/description. This is an edit-eligibility rule, not a
// transition; it lives apart from the transition table on purpose.
var editableStatuses = map[models.CaseStatus]bool{
	models.StatusOpen:       true,
	models.StatusInProgress: true,
}

// Can decides whether actor may perform action on c.
//
//   - editMeta: owner only, and only while the case is OPEN or IN_PROGRESS.
//   - changeStatus, changeSensitivity, deleteChild: elevated role only.
//   - uploadVersion: owner or elevated role, regardless of status.
func Can(action Action, actor *models.User, c *models.Case) bool {
	if actor == nil || c == nil {
		return false
	}
	isOwner := actor.Email == c.OwnerEmail
	switch action {
	case ActionEditMeta:
		return isOwner && editableStatuses[c.Status]
	case ActionChangeStatus, ActionChangeSensitivity, ActionDeleteChild:
		return actor.IsElevated()
	case ActionUploadVersion:
		return isOwner || actor.IsElevated()
	}
	return false
}
