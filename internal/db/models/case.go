package models

import (
	"gorm.io/gorm"
)

type CaseStatus string

const (
	StatusOpen       CaseStatus = "OPEN"
	StatusInProgress CaseStatus = "IN_PROGRESS"
	StatusReview     CaseStatus = "REVIEW"
	StatusClosed     CaseStatus = "CLOSED"
	StatusArchived   CaseStatus = "ARCHIVED"
)

func IsValidCaseStatus(s CaseStatus) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusReview, StatusClosed, StatusArchived:
		return true
	}
	return false
}

// CaseMatter holds the optional legal-matter metadata. All fields are
// opaque descriptive text; none participate in any invariant.
type CaseMatter struct {
	CaseType          string `json:"caseType,omitempty"`
	MatterType        string `json:"matterType,omitempty"`
	Stage             string `json:"stage,omitempty"`
	CourtLevel        string `json:"courtLevel,omitempty"`
	CourtName         string `json:"courtName,omitempty"`
	State             string `json:"state,omitempty"`
	District          string `json:"district,omitempty"`
	CaseNumber        string `json:"caseNumber,omitempty"`
	JudgeName         string `json:"judgeName,omitempty"`
	ClientName        string `json:"clientName,omitempty"`
	OpposingPartyName string `json:"opposingPartyName,omitempty"`
	AssignedAdvocate  string `json:"assignedAdvocate,omitempty"`
	FilingDate        string `json:"filingDate,omitempty"`
	RegistrationDate  string `json:"registrationDate,omitempty"`
}

type Case struct {
	gorm.Model
	Title            string           `gorm:"not null"`
	Description      string           `gorm:"type:text;not null"`
	Status           CaseStatus       `gorm:"not null;default:'OPEN';index"`
	SensitivityLevel SensitivityLevel `gorm:"not null;default:'LOW';index"`
	OwnerEmail       string           `gorm:"not null;index"`

	// Serialized CaseMatter; empty when no metadata has been recorded.
	MatterJSON string `gorm:"type:text;column:matter"`

	Documents   []CaseDocument   `gorm:"foreignKey:CaseID"`
	Comments    []CaseComment    `gorm:"foreignKey:CaseID"`
	Events      []CaseEvent      `gorm:"foreignKey:CaseID"`
	Parties     []CaseParty      `gorm:"foreignKey:CaseID"`
	Assignments []CaseAssignment `gorm:"foreignKey:CaseID"`
}

func (Case) TableName() string {
	return "cases"
}
