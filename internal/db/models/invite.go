package models

import (
	"time"

	"gorm.io/gorm"
)

type InviteStatus string

const (
	InvitePending    InviteStatus = "PENDING"
	InviteRegistered InviteStatus = "REGISTERED"
	InviteApproved   InviteStatus = "APPROVED"
	InviteRejected   InviteStatus = "REJECTED"
	InviteTerminated InviteStatus = "TERMINATED"
)

// Invite is a pending registration grant. PENDING moves to REGISTERED
// when the invitee completes signup, then to APPROVED or REJECTED by
// admin decision; an admin may TERMINATE it while still PENDING.
type Invite struct {
	gorm.Model
	Email          string           `gorm:"not null;index"`
	Token          string           `gorm:"unique;not null"`
	Role           UserRole         `gorm:"not null;default:'USER'"`
	ClearanceLevel SensitivityLevel `gorm:"not null;default:'LOW'"`
	Status         InviteStatus     `gorm:"not null;default:'PENDING';index"`
	CreatedBy      string           `gorm:"not null"`
	RegisteredAt   *time.Time
	ApprovedAt     *time.Time
	TerminatedAt   *time.Time
}

func (Invite) TableName() string {
	return "invites"
}
