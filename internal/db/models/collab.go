package models

import (
	"time"

	"gorm.io/gorm"
)

type EventType string

const (
	EventHearing  EventType = "HEARING"
	EventFiling   EventType = "FILING"
	EventOrder    EventType = "ORDER"
	EventJudgment EventType = "JUDGMENT"
	EventNote     EventType = "NOTE"
)

func IsValidEventType(t EventType) bool {
	switch t {
	case EventHearing, EventFiling, EventOrder, EventJudgment, EventNote:
		return true
	}
	return false
}

type PartyRole string

const (
	PartyPetitioner  PartyRole = "PETITIONER"
	PartyPlaintiff   PartyRole = "PLAINTIFF"
	PartyRespondent  PartyRole = "RESPONDENT"
	PartyDefendant   PartyRole = "DEFENDANT"
	PartyAccused     PartyRole = "ACCUSED"
	PartyComplainant PartyRole = "COMPLAINANT"
	PartyWitness     PartyRole = "WITNESS"
	PartyOther       PartyRole = "OTHER"
)

func IsValidPartyRole(r PartyRole) bool {
	switch r {
	case PartyPetitioner, PartyPlaintiff, PartyRespondent, PartyDefendant,
		PartyAccused, PartyComplainant, PartyWitness, PartyOther:
		return true
	}
	return false
}

type AssignmentRole string

const (
	AssignmentLead      AssignmentRole = "LEAD"
	AssignmentAssistant AssignmentRole = "ASSISTANT"
	AssignmentReviewer  AssignmentRole = "REVIEWER"
)

func IsValidAssignmentRole(r AssignmentRole) bool {
	switch r {
	case AssignmentLead, AssignmentAssistant, AssignmentReviewer:
		return true
	}
	return false
}

type CaseComment struct {
	gorm.Model
	CaseID           uint             `gorm:"index;not null"`
	AuthorEmail      string           `gorm:"not null"`
	Content          string           `gorm:"type:text;not null"`
	SensitivityLevel SensitivityLevel `gorm:"not null;default:'LOW'"`
}

func (CaseComment) TableName() string {
	return "case_comments"
}

type CaseEvent struct {
	gorm.Model
	CaseID      uint      `gorm:"index;not null"`
	EventType   EventType `gorm:"not null"`
	Description string    `gorm:"type:text;not null"`
	EventDate   time.Time `gorm:"not null"`
	NextDate    *time.Time
	CreatedBy   string `gorm:"not null"`
}

func (CaseEvent) TableName() string {
	return "case_events"
}

// CaseParty is the only editable child collection; everything else is
// immutable after creation.
type CaseParty struct {
	gorm.Model
	CaseID       uint      `gorm:"index;not null"`
	Name         string    `gorm:"not null"`
	Role         PartyRole `gorm:"not null"`
	AdvocateName string
	ContactInfo  string
	Address      string
	Notes        string `gorm:"type:text"`
}

func (CaseParty) TableName() string {
	return "case_parties"
}

type CaseAssignment struct {
	gorm.Model
	CaseID     uint           `gorm:"index;not null"`
	UserEmail  string         `gorm:"not null"`
	Role       AssignmentRole `gorm:"not null"`
	AssignedAt time.Time      `gorm:"autoCreateTime"`
}

func (CaseAssignment) TableName() string {
	return "case_assignments"
}
