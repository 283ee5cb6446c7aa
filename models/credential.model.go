package models

import "gorm.io/gorm"

// Credential is the login record backing a profile. The login identifier is
// derived from the handle (lowercased handle + configured domain) so the same
// handle always maps to the same credential. The unique index on LoginID is the
// authoritative duplicate-handle guard; the profile pre-check is advisory only.
type Credential struct {
	gorm.Model
	LoginID  string `json:"login_id" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
}
