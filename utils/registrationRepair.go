package utils

import (
	"errors"
	"log"

	"eduflow/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeRegistrationRepair sets up the scheduler that finishes
// registrations left half-done (credential created, profile insert failed).
func InitializeRegistrationRepair(db *gorm.DB) {
	log.Println("[REGISTRATION-REPAIR] Initializing registration repair scheduler...")

	c := cron.New()

	c.AddFunc("@hourly", func() {
		log.Println("[REGISTRATION-REPAIR] Running registration repair pass...")
		RepairRegistrations(db)
	})

	c.Start()
	log.Println("[REGISTRATION-REPAIR] Registration repair scheduler started - runs hourly")
}

// RepairRegistrations re-runs the profile step for every saga row whose
// credential exists but whose profile was never saved. The login self-heal may
// have created the profile in the meantime; a duplicate on insert just marks
// the saga done.
func RepairRegistrations(db *gorm.DB) {
	var pending []models.RegistrationState
	if err := db.
		Where("credential_created = ? AND profile_created = ?", true, false).
		Find(&pending).Error; err != nil {
		log.Printf("[REGISTRATION-REPAIR] Error fetching pending registrations: %v", err)
		return
	}

	if len(pending) == 0 {
		return
	}
	log.Printf("[REGISTRATION-REPAIR] Found %d registrations to repair", len(pending))

	for _, state := range pending {
		var cred models.Credential
		if err := db.Where("login_id = ?", state.LoginID).First(&cred).Error; err != nil {
			log.Printf("[REGISTRATION-REPAIR] Credential missing for %s, skipping", state.Handle)
			continue
		}

		name := state.Name
		if name == "" {
			name = state.Handle
		}
		role := state.Role
		if role == "" {
			role = models.RoleLearner
		}

		// Profile ID mirrors the credential ID (1:1 principal/profile).
		user := models.User{
			Model:  gorm.Model{ID: cred.ID},
			Handle: state.Handle,
			Name:   name,
			Role:   role,
		}
		if err := db.Create(&user).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("[REGISTRATION-REPAIR] Failed to repair profile for %s: %v", state.Handle, err)
			continue
		}

		if err := db.Model(&models.RegistrationState{}).
			Where("id = ?", state.ID).
			Update("profile_created", true).Error; err != nil {
			log.Printf("[REGISTRATION-REPAIR] Failed to mark saga complete for %s: %v", state.Handle, err)
			continue
		}

		log.Printf("[REGISTRATION-REPAIR] Repaired profile for %s", state.Handle)
	}
}
