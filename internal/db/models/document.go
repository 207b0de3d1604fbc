package models

import (
	"time"

	"gorm.io/gorm"
)

// CaseDocument is one uploaded version within a document group. Versions
// are never mutated in place; a re-upload creates the next version under
// the same DocumentGroupID. The unique index on (group, version) holds
// even when two uploads race to the same group.
type CaseDocument struct {
	gorm.Model
	CaseID           uint   `gorm:"index;not null"`
	DocumentGroupID  string `gorm:"index;not null;uniqueIndex:idx_doc_group_version"`
	Version          int    `gorm:"not null;default:1;uniqueIndex:idx_doc_group_version"`
	FileName         string `gorm:"not null"`
	FileType         string
	FileSize         int64
	Content          []byte           `gorm:"type:bytea"`
	FileHash         string           `gorm:"not null"`
	SensitivityLevel SensitivityLevel `gorm:"not null;default:'LOW'"`
	UploadedBy       string           `gorm:"not null"`
	UploadedAt       time.Time        `gorm:"autoCreateTime"`
	Active           bool             `gorm:"not null;default:true"`
}

func (CaseDocument) TableName() string {
	return "case_documents"
}

// CaseDocumentGroup is the list-view shape of one logical document:
// every version sharing a group id, newest first.
type CaseDocumentGroup struct {
	DocumentGroupID string         `json:"documentGroupId"`
	Versions        []CaseDocument `json:"versions"`
}

// Latest returns the highest-numbered version of the group. Its
// sensitivity governs visibility of the whole group in list views.
func (g *CaseDocumentGroup) Latest() *CaseDocument {
	if len(g.Versions) == 0 {
		return nil
	}
	latest := &g.Versions[0]
	for i := range g.Versions {
		if g.Versions[i].Version > latest.Version {
			latest = &g.Versions[i]
		}
	}
	return latest
}
