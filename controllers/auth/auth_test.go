package authController_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduflow/config"
	"eduflow/database"
	"eduflow/models"
	"eduflow/routers/authRoutes"
	"eduflow/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:       "test-secret",
		SaltRound:    4,
		HandleDomain: "eduflow.local",
		UploadDir:    t.TempDir(),
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app, db)
	userRoutes.SetupUserRoutes(app, db)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func signup(t *testing.T, app *fiber.App, handle, password, name, role string) (int, apiResponse) {
	t.Helper()
	return doJSON(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"handle":   handle,
		"password": password,
		"name":     name,
		"role":     role,
	})
}

func login(t *testing.T, app *fiber.App, handle, password string) (int, apiResponse) {
	t.Helper()
	return doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"handle":   handle,
		"password": password,
	})
}

func tokenFromLogin(t *testing.T, body apiResponse) string {
	t.Helper()
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestSignupAndLogin(t *testing.T) {
	app, db := setupApp(t)

	code, body := signup(t, app, "alice", "secret123", "Alice", "")
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, body.Status)

	// Credential ID mirrors the profile ID.
	var user models.User
	require.NoError(t, db.Where("handle = ?", "alice").First(&user).Error)
	var cred models.Credential
	require.NoError(t, db.Where("login_id = ?", "alice@eduflow.local").First(&cred).Error)
	assert.Equal(t, cred.ID, user.ID)
	assert.Equal(t, models.RoleLearner, user.Role)

	// Both registration steps are recorded as done.
	var saga models.RegistrationState
	require.NoError(t, db.Where("login_id = ?", "alice@eduflow.local").First(&saga).Error)
	assert.True(t, saga.CredentialCreated)
	assert.True(t, saga.ProfileCreated)

	code, body = login(t, app, "alice", "secret123")
	require.Equal(t, http.StatusOK, code)
	token := tokenFromLogin(t, body)

	code, body = doJSON(t, app, http.MethodGet, "/user/profile", token, nil)
	require.Equal(t, http.StatusOK, code)
	var profile models.User
	require.NoError(t, json.Unmarshal(body.Data, &profile))
	assert.Equal(t, "alice", profile.Handle)
}

func TestSignupDuplicateHandle(t *testing.T) {
	app, db := setupApp(t)

	code, _ := signup(t, app, "alice", "secret123", "Alice", "")
	require.Equal(t, http.StatusCreated, code)

	code, body := signup(t, app, "alice", "different", "Other Alice", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, body.Status)

	var count int64
	db.Model(&models.User{}).Where("handle = ?", "alice").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSignupConflictsOnExistingCredential(t *testing.T) {
	app, db := setupApp(t)

	// A credential already holds the derived login id but its profile row is
	// gone, so the advisory pre-check on profiles misses. The unique index on
	// the credential is the backstop that has to catch the duplicate.
	cred := models.Credential{LoginID: "alice@eduflow.local", Password: "hashed"}
	require.NoError(t, db.Create(&cred).Error)

	code, body := signup(t, app, "alice", "secret123", "Alice", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Handle is already taken!", body.Message)

	// The failed attempt leaves nothing behind: no profile, no saga row.
	var count int64
	db.Model(&models.User{}).Where("handle = ?", "alice").Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.RegistrationState{}).Where("login_id = ?", "alice@eduflow.local").Count(&count)
	assert.Equal(t, int64(0), count)

	db.Model(&models.Credential{}).Where("login_id = ?", "alice@eduflow.local").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSignupRejectsInvalidHandle(t *testing.T) {
	app, _ := setupApp(t)

	code, body := signup(t, app, "bad handle!", "secret123", "Bad", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, body.Status)
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	app, _ := setupApp(t)

	code, _ := signup(t, app, "alice", "secret123", "Alice", "admin")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestSignupAsCreator(t *testing.T) {
	app, db := setupApp(t)

	code, _ := signup(t, app, "teach", "secret123", "Teach", models.RoleCreator)
	require.Equal(t, http.StatusCreated, code)

	var user models.User
	require.NoError(t, db.Where("handle = ?", "teach").First(&user).Error)
	assert.Equal(t, models.RoleCreator, user.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	app, _ := setupApp(t)

	code, _ := signup(t, app, "alice", "secret123", "Alice", "")
	require.Equal(t, http.StatusCreated, code)

	code, body := login(t, app, "alice", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, body.Status)

	code, _ = login(t, app, "nobody", "secret123")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLoginSelfHealsMissingProfile(t *testing.T) {
	app, db := setupApp(t)

	code, _ := signup(t, app, "alice", "secret123", "Alice", "")
	require.Equal(t, http.StatusCreated, code)

	// Simulate a lost profile write: credential survives, profile is gone.
	require.NoError(t, db.Unscoped().Where("handle = ?", "alice").Delete(&models.User{}).Error)

	code, body := login(t, app, "alice", "secret123")
	require.Equal(t, http.StatusOK, code)
	tokenFromLogin(t, body)

	var user models.User
	require.NoError(t, db.Where("handle = ?", "alice").First(&user).Error)
	assert.Equal(t, "Alice", user.Name) // recovered from the saga row
	assert.Equal(t, models.RoleLearner, user.Role)
}

func TestChangePassword(t *testing.T) {
	app, _ := setupApp(t)

	code, _ := signup(t, app, "alice", "secret123", "Alice", "")
	require.Equal(t, http.StatusCreated, code)

	_, body := login(t, app, "alice", "secret123")
	token := tokenFromLogin(t, body)

	code, _ = doJSON(t, app, http.MethodPost, "/auth/change-password", token, fiber.Map{
		"currentPassword": "secret123",
		"newPassword":     "newsecret",
		"cnfPassword":     "newsecret",
	})
	require.Equal(t, http.StatusOK, code)

	code, _ = login(t, app, "alice", "secret123")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = login(t, app, "alice", "newsecret")
	assert.Equal(t, http.StatusOK, code)
}

func TestChangePasswordMismatchedConfirm(t *testing.T) {
	app, _ := setupApp(t)

	code, _ := signup(t, app, "alice", "secret123", "Alice", "")
	require.Equal(t, http.StatusCreated, code)

	_, body := login(t, app, "alice", "secret123")
	token := tokenFromLogin(t, body)

	code, _ = doJSON(t, app, http.MethodPost, "/auth/change-password", token, fiber.Map{
		"currentPassword": "secret123",
		"newPassword":     "newsecret",
		"cnfPassword":     "other",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestDeleteAccount(t *testing.T) {
	app, db := setupApp(t)

	code, _ := signup(t, app, "alice", "secret123", "Alice", "")
	require.Equal(t, http.StatusCreated, code)

	_, body := login(t, app, "alice", "secret123")
	token := tokenFromLogin(t, body)

	code, _ = doJSON(t, app, http.MethodDelete, "/auth/account", token, nil)
	require.Equal(t, http.StatusOK, code)

	var count int64
	db.Model(&models.User{}).Where("handle = ?", "alice").Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.Credential{}).Where("login_id = ?", "alice@eduflow.local").Count(&count)
	assert.Equal(t, int64(0), count)

	code, _ = login(t, app, "alice", "secret123")
	assert.Equal(t, http.StatusUnauthorized, code)
}
