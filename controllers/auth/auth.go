package authController

import (
	"coachhub/config"
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	authValidator "coachhub/validators/auth"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Authenticate checks email and password and returns the coach with a signed token.
func Authenticate(email, password string) (*models.Coach, string, error) {
	db := database.Database.Db

	var coach models.Coach
	if err := db.Where("email = ?", email).First(&coach).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", utils.ErrUnauthorized("メールアドレスまたはパスワードが正しくありません")
		}
		return nil, "", err
	}
	if coach.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(coach.PasswordHash), []byte(password)) != nil {
		return nil, "", utils.ErrUnauthorized("メールアドレスまたはパスワードが正しくありません")
	}
	if coach.Status != models.CoachStatusActive {
		return nil, "", utils.ErrForbidden("このアカウントは無効化されています")
	}

	token, err := middleware.GenerateJWT(coach.ID, coach.Name, coach.Role, coach.Email)
	if err != nil {
		return nil, "", utils.Wrap(err, "sign token")
	}
	return &coach, token, nil
}

// HashPassword hashes a plain password with the configured cost.
func HashPassword(password string) (string, error) {
	cost := bcrypt.DefaultCost
	if config.AppConfig != nil && config.AppConfig.SaltRound >= bcrypt.MinCost {
		cost = config.AppConfig.SaltRound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

	coach, token, err := Authenticate(reqData.Email, reqData.Password)
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "ログインしました", fiber.Map{
		"token":      token,
		"expires_at": time.Now().Add(time.Duration(config.AppConfig.JWTTTLHours) * time.Hour),
		"coach":      coach,
	})
}

func Me(c *fiber.Ctx) error {
	coachID, ok := middleware.CurrentCoachID(c)
	if !ok {
		return utils.ErrUnauthorized("認証が必要です")
	}

	var coach models.Coach
	db := database.Database.Db.Preload("Certifications")
	if err := utils.FirstOrNotFound(db, &coach, coachID, "コーチが見つかりません"); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", coach)
}

func ChangePassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPassword").(*authValidator.ChangePasswordRequest)
	coachID, ok := middleware.CurrentCoachID(c)
	if !ok {
		return utils.ErrUnauthorized("認証が必要です")
	}

	db := database.Database.Db
	var coach models.Coach
	if err := utils.FirstOrNotFound(db, &coach, coachID, "コーチが見つかりません"); err != nil {
		return err
	}
	if coach.PasswordHash != "" &&
		bcrypt.CompareHashAndPassword([]byte(coach.PasswordHash), []byte(reqData.CurrentPassword)) != nil {
		return utils.ErrBadRequest("現在のパスワードが正しくありません")
	}

	hash, err := HashPassword(reqData.NewPassword)
	if err != nil {
		return utils.Wrap(err, "hash password")
	}
	if err := db.Model(&coach).Updates(map[string]interface{}{
		"password_hash": hash,
		"updated_at":    utils.Now(),
	}).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "パスワードを変更しました", nil)
}
