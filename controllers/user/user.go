package userController

import (
	"eduflow/config"
	"eduflow/middleware"
	"eduflow/models"
	"eduflow/utils"
	userValidator "eduflow/validators/user"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GetProfile returns the caller's profile, self-healing a missing row into a
// default learner profile rather than locking the user out over a lost write.
func (ctrl *UserController) GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := ctrl.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		handle, _ := c.Locals("handle").(string)
		if handle == "" {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profile not found!", nil)
		}

		user = models.User{
			Model:  gorm.Model{ID: userID},
			Handle: handle,
			Name:   handle,
			Role:   models.RoleLearner,
		}
		if err := ctrl.DB.Create(&user).Error; err != nil {
			log.Printf("Failed to self-heal profile for %s: %v", handle, err)
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profile not found!", nil)
		}
		utils.Audit(ctrl.DB, models.LogInfo, "Profile self-healed on fetch: "+handle, nil, userID, "GetProfile")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

// UpdateProfile updates the caller's display data. Only the owning principal
// ever reaches this; the query is scoped to the caller's id.
func (ctrl *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := ctrl.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profile not found!", nil)
	}

	updates := map[string]interface{}{
		"name": strings.TrimSpace(reqData.Name),
	}
	if reqData.AvatarURL != "" {
		updates["avatar_url"] = reqData.AvatarURL
	}

	if err := ctrl.DB.Model(&user).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// UploadAvatar stores an uploaded avatar and points the profile at it.
func (ctrl *UserController) UploadAvatar(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Avatar file is required!", nil)
	}

	key, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir, "avatars")
	if err != nil {
		log.Printf("Error storing avatar: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store avatar!", nil)
	}

	avatarURL := utils.PublicURL(key)
	if err := ctrl.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("avatar_url", avatarURL).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Avatar uploaded successfully!", fiber.Map{
		"avatar_url": avatarURL,
	})
}

// PromoteToCreator is the single forward role transition. The role guard is
// in the WHERE clause: only a learner row can flip, so nothing here can ever
// downgrade a creator. Calling it as a creator is a no-op success.
func (ctrl *UserController) PromoteToCreator(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := ctrl.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profile not found!", nil)
	}

	if user.Role == models.RoleCreator {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Already a creator.", user)
	}

	result := ctrl.DB.Model(&models.User{}).
		Where("id = ? AND role = ?", userID, models.RoleLearner).
		Update("role", models.RoleCreator)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upgrade role!", nil)
	}

	user.Role = models.RoleCreator
	utils.Audit(ctrl.DB, models.LogAction, "User upgraded to creator: "+user.Handle, nil, userID, "PromoteToCreator")

	return middleware.JsonResponse(c, fiber.StatusOK, true, "You are now a creator!", user)
}
