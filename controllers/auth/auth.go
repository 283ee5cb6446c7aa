package authController

import (
	"eduflow/config"
	"eduflow/middleware"
	"eduflow/models"
	"eduflow/utils"
	"eduflow/validators/auth"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// Signup registers a new principal: credential first, profile second. The two
// inserts are separate writes; the saga row records how far the registration
// got so the repair job can finish it if the profile step fails.
func (ctrl *AuthController) Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*authValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	loginID := utils.LoginIDForHandle(reqData.Handle, config.AppConfig.HandleDomain)

	// Advisory pre-check on the profile table. The unique index on the
	// credential's login id below is the authoritative guard.
	if err := ctrl.DB.Where("handle = ?", reqData.Handle).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Handle is already taken!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	role := reqData.Role
	if role == "" {
		role = models.RoleLearner
	}

	saga := models.RegistrationState{
		LoginID: loginID,
		Handle:  reqData.Handle,
		Name:    reqData.Name,
		Role:    role,
	}
	if err := ctrl.DB.Create(&saga).Error; err != nil {
		log.Printf("Error saving registration state: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	cred := models.Credential{
		LoginID:  loginID,
		Password: string(hashedPassword),
	}
	if err := ctrl.DB.Create(&cred).Error; err != nil {
		ctrl.DB.Unscoped().Delete(&saga)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a benign race: another registration holds this handle.
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Handle is already taken!", nil)
		}
		log.Printf("Error saving credential: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	// A lost update here would hide the registration from the repair job's
	// pending query, so the failure has to be visible.
	if err := ctrl.DB.Model(&saga).Update("credential_created", true).Error; err != nil {
		log.Printf("Error marking credential step done for %s: %v", reqData.Handle, err)
	}

	// Profile ID mirrors the credential ID (1:1 principal/profile).
	newUser := models.User{
		Model:  gorm.Model{ID: cred.ID},
		Handle: reqData.Handle,
		Name:   reqData.Name,
		Role:   role,
	}
	if err := ctrl.DB.Create(&newUser).Error; err != nil {
		// The credential exists without a usable profile. Surface this
		// distinctly; the saga row stays behind for the repair job.
		utils.Audit(ctrl.DB, models.LogError, "Profile insert failed after credential creation",
			map[string]interface{}{"handle": reqData.Handle}, cred.ID, "Signup")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false,
			"Registered, but your profile could not be saved. It will be repaired automatically.", nil)
	}

	if err := ctrl.DB.Model(&saga).Update("profile_created", true).Error; err != nil {
		log.Printf("Error marking profile step done for %s: %v", reqData.Handle, err)
	}

	utils.Audit(ctrl.DB, models.LogAction, "User registered: "+reqData.Handle, nil, newUser.ID, "Signup")
	utils.NotifyWebhook("user.registered", map[string]interface{}{
		"user_id": newUser.ID,
		"handle":  newUser.Handle,
		"role":    newUser.Role,
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

// Login verifies the credential pair and issues a JWT. A valid credential with
// a missing profile is self-healed into a default learner profile; if even
// that fails, the login still succeeds with learner treatment for this request.
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	loginID := utils.LoginIDForHandle(reqData.Handle, config.AppConfig.HandleDomain)

	var cred models.Credential
	if err := ctrl.DB.Where("login_id = ?", loginID).First(&cred).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid handle or password!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid handle or password!", nil)
	}

	var user models.User
	if err := ctrl.DB.Where("id = ?", cred.ID).First(&user).Error; err != nil {
		user = ctrl.selfHealProfile(cred.ID, reqData.Handle, loginID)
	}

	token, err := middleware.GenerateJWT(cred.ID, user.Name, user.Role, user.Handle)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// selfHealProfile recreates a missing profile for an otherwise-valid
// credential. Display data comes from the saga row when available, the handle
// otherwise. On failure the returned profile is in-memory only: the principal
// is treated as a learner for this request and repair happens later.
func (ctrl *AuthController) selfHealProfile(credID uint, handle, loginID string) models.User {
	name := handle
	role := models.RoleLearner

	var saga models.RegistrationState
	if err := ctrl.DB.Where("login_id = ?", loginID).Order("created_at desc").First(&saga).Error; err == nil {
		if saga.Name != "" {
			name = saga.Name
		}
	}

	user := models.User{
		Model:  gorm.Model{ID: credID},
		Handle: handle,
		Name:   name,
		Role:   role,
	}
	if err := ctrl.DB.Create(&user).Error; err != nil {
		log.Printf("Failed to self-heal profile for %s: %v", handle, err)
		utils.Audit(ctrl.DB, models.LogWarn, "Profile self-heal failed on login",
			map[string]interface{}{"handle": handle}, credID, "Login")
		return user
	}

	utils.Audit(ctrl.DB, models.LogInfo, "Profile self-healed on login: "+handle, nil, credID, "Login")
	return user
}

// ChangePassword updates the caller's credential secret.
func (ctrl *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid user session!", nil)
	}

	reqData, ok := c.Locals("validatedChangePassword").(*authValidator.ChangePasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var cred models.Credential
	if err := ctrl.DB.Where("id = ?", userID).First(&cred).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is incorrect!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to hash password!", nil)
	}

	if err := ctrl.DB.Model(&cred).Update("password", string(hashedPassword)).Error; err != nil {
		log.Printf("Error updating password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully.", nil)
}

// DeleteAccount removes the caller's profile, then the credential. The two
// deletes are not atomic; a crash in between leaves a credential without a
// profile, which the login self-heal path tolerates.
func (ctrl *AuthController) DeleteAccount(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid user session!", nil)
	}

	var user models.User
	if err := ctrl.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if err := ctrl.DB.Unscoped().Delete(&user).Error; err != nil {
		log.Printf("Error deleting profile: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete account!", nil)
	}

	if err := ctrl.DB.Unscoped().Where("id = ?", userID).Delete(&models.Credential{}).Error; err != nil {
		// Profile is gone but the credential survived; audit so a human or a
		// repair pass can reconcile.
		utils.Audit(ctrl.DB, models.LogError, "Credential delete failed after profile removal",
			map[string]interface{}{"handle": user.Handle}, userID, "DeleteAccount")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Account partially deleted. Please contact support.", nil)
	}

	utils.Audit(ctrl.DB, models.LogAction, "Account deleted: "+user.Handle, nil, userID, "DeleteAccount")

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account deleted successfully.", nil)
}
