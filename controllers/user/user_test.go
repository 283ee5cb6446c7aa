package userController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduflow/config"
	"eduflow/database"
	"eduflow/middleware"
	"eduflow/models"
	courseModels "eduflow/models/course"
	"eduflow/routers/courseRoutes"
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
	userRoutes.SetupUserRoutes(app, db)
	courseRoutes.SetupCourseRoutes(app, db)
	return app, db
}

func createUser(t *testing.T, db *gorm.DB, handle, role string) (models.User, string) {
	t.Helper()

	user := models.User{Handle: handle, Name: handle, Role: role}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Handle)
	require.NoError(t, err)
	return user, token
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

func TestGetProfile(t *testing.T) {
	app, db := setupApp(t)
	_, token := createUser(t, db, "alice", models.RoleLearner)

	code, body := doJSON(t, app, http.MethodGet, "/user/profile", token, nil)
	require.Equal(t, http.StatusOK, code)

	var profile models.User
	require.NoError(t, json.Unmarshal(body.Data, &profile))
	assert.Equal(t, "alice", profile.Handle)
	assert.Equal(t, models.RoleLearner, profile.Role)
}

func TestGetProfileSelfHealsMissingRow(t *testing.T) {
	app, db := setupApp(t)

	// A token minted for a principal whose profile row was lost.
	token, err := middleware.GenerateJWT(42, "ghost", models.RoleLearner, "ghost")
	require.NoError(t, err)

	code, _ := doJSON(t, app, http.MethodGet, "/user/profile", token, nil)
	require.Equal(t, http.StatusOK, code)

	var user models.User
	require.NoError(t, db.Where("id = ?", 42).First(&user).Error)
	assert.Equal(t, "ghost", user.Handle)
	assert.Equal(t, models.RoleLearner, user.Role)
}

func TestUpdateProfile(t *testing.T) {
	app, db := setupApp(t)
	user, token := createUser(t, db, "alice", models.RoleLearner)

	code, _ := doJSON(t, app, http.MethodPut, "/user/profile", token, fiber.Map{
		"name":       "Alice Cooper",
		"avatar_url": "https://cdn.example.com/a.png",
	})
	require.Equal(t, http.StatusOK, code)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "https://cdn.example.com/a.png", updated.AvatarURL)
}

func TestUpdateProfileRequiresName(t *testing.T) {
	app, db := setupApp(t)
	_, token := createUser(t, db, "alice", models.RoleLearner)

	code, _ := doJSON(t, app, http.MethodPut, "/user/profile", token, fiber.Map{
		"name": "   ",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestPromoteToCreator(t *testing.T) {
	app, db := setupApp(t)
	user, token := createUser(t, db, "alice", models.RoleLearner)

	// Learner cannot use the creator surface yet.
	code, _ := doJSON(t, app, http.MethodPost, "/creator/course/", token, fiber.Map{
		"title":        "Intro to Go",
		"content_type": "video",
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = doJSON(t, app, http.MethodPost, "/user/upgrade-to-creator", token, nil)
	require.Equal(t, http.StatusOK, code)

	var promoted models.User
	require.NoError(t, db.First(&promoted, user.ID).Error)
	assert.Equal(t, models.RoleCreator, promoted.Role)

	// Repeat call is a no-op success, never a downgrade.
	code, body := doJSON(t, app, http.MethodPost, "/user/upgrade-to-creator", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Already a creator.", body.Message)

	require.NoError(t, db.First(&promoted, user.ID).Error)
	assert.Equal(t, models.RoleCreator, promoted.Role)

	// The role guard reads the profile row, so the old token now passes.
	code, _ = doJSON(t, app, http.MethodPost, "/creator/course/", token, fiber.Map{
		"title":        "Intro to Go",
		"content_type": "video",
	})
	assert.Equal(t, http.StatusCreated, code)
}

func TestListEnrollments(t *testing.T) {
	app, db := setupApp(t)
	creator, _ := createUser(t, db, "teach", models.RoleCreator)
	_, learnerToken := createUser(t, db, "alice", models.RoleLearner)

	for i := 0; i < 3; i++ {
		crs := courseModels.Course{
			CreatorID:   creator.ID,
			Title:       fmt.Sprintf("Course %d", i),
			ContentType: courseModels.ContentVideo,
			Status:      courseModels.StatusPublished,
		}
		require.NoError(t, db.Create(&crs).Error)

		code, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", crs.ID), learnerToken, nil)
		require.Equal(t, http.StatusOK, code)
	}

	code, body := doJSON(t, app, http.MethodGet, "/user/enrollments?limit=2", learnerToken, nil)
	require.Equal(t, http.StatusOK, code)

	var listing struct {
		Enrollments []courseModels.Enrollment `json:"enrollments"`
		Pagination  struct {
			Total int64 `json:"total"`
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &listing))
	assert.Equal(t, int64(3), listing.Pagination.Total)
	require.Len(t, listing.Enrollments, 2)
	assert.NotEmpty(t, listing.Enrollments[0].Course.Title)
}

func TestProfileRequiresAuth(t *testing.T) {
	app, _ := setupApp(t)

	code, _ := doJSON(t, app, http.MethodGet, "/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
