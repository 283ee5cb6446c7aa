package utils

import (
	"testing"

	"eduflow/database"
	"eduflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepairDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func TestRepairRegistrationsCreatesMissingProfile(t *testing.T) {
	db := setupRepairDB(t)

	cred := models.Credential{LoginID: "alice@eduflow.local", Password: "hashed"}
	require.NoError(t, db.Create(&cred).Error)

	saga := models.RegistrationState{
		LoginID:           cred.LoginID,
		Handle:            "alice",
		Name:              "Alice",
		Role:              models.RoleCreator,
		CredentialCreated: true,
	}
	require.NoError(t, db.Create(&saga).Error)

	RepairRegistrations(db)

	var user models.User
	require.NoError(t, db.Where("id = ?", cred.ID).First(&user).Error)
	assert.Equal(t, "alice", user.Handle)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, models.RoleCreator, user.Role)

	var done models.RegistrationState
	require.NoError(t, db.First(&done, saga.ID).Error)
	assert.True(t, done.ProfileCreated)
}

func TestRepairRegistrationsToleratesExistingProfile(t *testing.T) {
	db := setupRepairDB(t)

	cred := models.Credential{LoginID: "bob@eduflow.local", Password: "hashed"}
	require.NoError(t, db.Create(&cred).Error)

	// The login self-heal already recreated the profile.
	user := models.User{Model: gorm.Model{ID: cred.ID}, Handle: "bob", Name: "bob", Role: models.RoleLearner}
	require.NoError(t, db.Create(&user).Error)

	saga := models.RegistrationState{
		LoginID:           cred.LoginID,
		Handle:            "bob",
		Name:              "Bob",
		CredentialCreated: true,
	}
	require.NoError(t, db.Create(&saga).Error)

	RepairRegistrations(db)

	var done models.RegistrationState
	require.NoError(t, db.First(&done, saga.ID).Error)
	assert.True(t, done.ProfileCreated)

	var count int64
	db.Model(&models.User{}).Where("handle = ?", "bob").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepairRegistrationsSkipsMissingCredential(t *testing.T) {
	db := setupRepairDB(t)

	saga := models.RegistrationState{
		LoginID:           "ghost@eduflow.local",
		Handle:            "ghost",
		CredentialCreated: true,
	}
	require.NoError(t, db.Create(&saga).Error)

	RepairRegistrations(db)

	var still models.RegistrationState
	require.NoError(t, db.First(&still, saga.ID).Error)
	assert.False(t, still.ProfileCreated)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
