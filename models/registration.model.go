package models

import "gorm.io/gorm"

// RegistrationState records the two steps of the registration saga. Credential
// and profile inserts are separate writes with no shared transaction; when the
// profile insert fails after the credential exists, the row stays behind with
// ProfileCreated=false so the repair job can finish the registration later.
type RegistrationState struct {
	gorm.Model
	LoginID           string `json:"login_id" gorm:"index;not null"`
	Handle            string `json:"handle" gorm:"not null"`
	Name              string `json:"name"`
	Role              string `json:"role" gorm:"default:'learner'"`
	CredentialCreated bool   `json:"credential_created" gorm:"default:false"`
	ProfileCreated    bool   `json:"profile_created" gorm:"default:false"`
}
