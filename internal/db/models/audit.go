package models

import (
	"time"

	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditCaseCreated        AuditAction = "CASE_CREATED"
	AuditCaseUpdated        AuditAction = "CASE_UPDATED"
	AuditStatusChanged      AuditAction = "STATUS_CHANGED"
	AuditSensitivityChanged AuditAction = "SENSITIVITY_CHANGED"
	AuditCommentAdded       AuditAction = "COMMENT_ADDED"
	AuditCommentDeleted     AuditAction = "COMMENT_DELETED"
	AuditDocumentUploaded   AuditAction = "DOCUMENT_UPLOADED"
	AuditDocumentDeleted    AuditAction = "DOCUMENT_DELETED"
	AuditUserRoleChanged    AuditAction = "USER_ROLE_CHANGED"
	AuditUserBanned         AuditAction = "USER_BANNED"
	AuditUserUnbanned       AuditAction = "USER_UNBANNED"
	AuditLogin              AuditAction = "LOGIN"
	AuditRegister           AuditAction = "REGISTER"
)

type AuditLog struct {
	gorm.Model
	ActorEmail string      `gorm:"not null;index"`
	Action     AuditAction `gorm:"not null;index"`
	TargetType string      `gorm:"index"`
	TargetID   uint
	OldValue   string
	NewValue   string
	Timestamp  time.Time `gorm:"autoCreateTime;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
