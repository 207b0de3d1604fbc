package policy

import (
	"github.com/securecase/securecase/internal/db/models"
)

// CanView decides whether viewer may see an item tagged with level. The
// elevated-role override is checked before any rank comparison; it is a
// role bypass, not a rank value.
func CanView(viewer *models.User, level models.SensitivityLevel) bool {
	if viewer == nil {
		return false
	}
	if viewer.IsElevated() {
		return true
	}
	return viewer.ClearanceLevel.AtLeast(level)
}

// MaxUploadableLevel is the highest sensitivity the viewer may assign to
// new content: CRITICAL for elevated roles, otherwise the viewer's own
// clearance. Content is never tagged above the tagger's clearance.
func MaxUploadableLevel(viewer *models.User) models.SensitivityLevel {
	if viewer.IsElevated() {
		return models.SensitivityCritical
	}
	return viewer.ClearanceLevel
}

// CanAssignLevel reports whether viewer may tag new content with level.
func CanAssignLevel(viewer *models.User, level models.SensitivityLevel) bool {
	if !models.IsValidSensitivityLevel(level) {
		return false
	}
	return MaxUploadableLevel(viewer).AtLeast(level)
}
