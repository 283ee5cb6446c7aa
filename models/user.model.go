package models

import "gorm.io/gorm"

// Roles a profile can hold. A learner can be upgraded to creator,
// never the other way around.
const (
	RoleLearner = "learner"
	RoleCreator = "creator"
)

// User is the profile row, one per principal.
type User struct {
	gorm.Model
	Handle    string `json:"handle" gorm:"uniqueIndex;not null"`
	Name      string `json:"name" gorm:"default:''"`
	AvatarURL string `json:"avatar_url" gorm:"default:''"`
	Role      string `json:"role" gorm:"default:'learner'"` // learner, creator
}
