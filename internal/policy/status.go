// Package policy holds the case lifecycle rules: the status transition
// table, the sensitivity scale gate, and ownership/role authorization.
// Every status or visibility decision in the service layer goes through
// this package; nothing else is allowed to assign Case.Status directly.
package policy

import (
	"errors"
	"time"

	"github.com/securecase/securecase/internal/db/models"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("actor is not authorized")
)

// transitionTable is the single authoritative transition table.
// REVIEW -> IN_PROGRESS is the one rollback edge, modeling a review
// send-back; ARCHIVED is terminal.
var transitionTable = map[models.CaseStatus][]models.CaseStatus{
	models.StatusOpen:       {models.StatusInProgress},
	models.StatusInProgress: {models.StatusReview},
	models.StatusReview:     {models.StatusClosed, models.StatusInProgress},
	models.StatusClosed:     {models.StatusArchived},
	models.StatusArchived:   {},
}

// AllowedTransitions returns the statuses reachable from current.
// Unknown statuses have no outgoing edges.
func AllowedTransitions(current models.CaseStatus) []models.CaseStatus {
	next, ok := transitionTable[current]
	if !ok {
		return nil
	}
	out := make([]models.CaseStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is in the table.
func CanTransition(from, to models.CaseStatus) bool {
	for _, allowed := range transitionTable[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsRollback reports whether from -> to is the review send-back edge.
// It is mechanically an ordinary transition but is presented differently.
func IsRollback(from, to models.CaseStatus) bool {
	return from == models.StatusReview && to == models.StatusInProgress
}

// ApplyTransition validates and performs a status change in place. Only
// elevated actors may drive transitions; ordinary owners cannot. This is
// the sole mutation path for Case.Status.
func ApplyTransition(c *models.Case, target models.CaseStatus, actor *models.User) error {
	if actor == nil || !actor.IsElevated() {
		return ErrUnauthorized
	}
	if !CanTransition(c.Status, target) {
		return ErrInvalidTransition
	}
	c.Status = target
	c.UpdatedAt = time.Now()
	return nil
}
