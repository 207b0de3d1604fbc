package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// SensitivityLevel is both a data-classification tag and a clearance
// threshold. The four levels form a total order; see Rank.
type SensitivityLevel string

const (
	SensitivityLow      SensitivityLevel = "LOW"
	SensitivityMedium   SensitivityLevel = "MEDIUM"
	SensitivityHigh     SensitivityLevel = "HIGH"
	SensitivityCritical SensitivityLevel = "CRITICAL"
)

// SensitivityLevels lists the scale in ascending order.
var SensitivityLevels = []SensitivityLevel{
	SensitivityLow,
	SensitivityMedium,
	SensitivityHigh,
	SensitivityCritical,
}

// Rank returns the position of the level on the scale, LOW being 0.
// Unknown levels rank below LOW so a corrupted tag never widens access.
func (s SensitivityLevel) Rank() int {
	for i, level := range SensitivityLevels {
		if s == level {
			return i
		}
	}
	return -1
}

// AtLeast reports whether s sits at or above other on the scale.
func (s SensitivityLevel) AtLeast(other SensitivityLevel) bool {
	return s.Rank() >= other.Rank()
}

func IsValidSensitivityLevel(s SensitivityLevel) bool {
	return s.Rank() >= 0
}

type User struct {
	gorm.Model
	Email            string           `gorm:"unique;not null"`
	PasswordHash     string           `gorm:"not null"`
	Role             UserRole         `gorm:"not null;default:'USER'"`
	ClearanceLevel   SensitivityLevel `gorm:"not null;default:'LOW'"`
	OrganizationName string
	Enabled          bool `gorm:"not null;default:true"`
	BanReason        string
	LastLogin        time.Time
}

// IsElevated reports whether the user holds the administrative role that
// bypasses clearance checks and owns status/sensitivity transitions.
func (u *User) IsElevated() bool {
	return u.Role == RoleAdmin
}

func (User) TableName() string {
	return "users"
}
