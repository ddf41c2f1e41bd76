package coachController

import (
	authController "coachhub/controllers/auth"
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	coachValidator "coachhub/validators/coach"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const emailConflict = "このメールアドレスは既に登録されています"

func ListCoaches(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)

	query := db.Model(&models.Coach{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if school := c.Query("school"); school != "" {
		// schools is stored as a {a,b} array literal
		query = query.Where("schools LIKE ?", "%"+school+"%")
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query = query.Where("name LIKE ? OR name_en LIKE ? OR email LIKE ?", "%"+q+"%", "%"+q+"%", "%"+q+"%")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var coaches []models.Coach
	if err := query.Order("name asc").Limit(paging.Limit).Offset(paging.Offset).Find(&coaches).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     true,
		"message":    "",
		"data":       coaches,
		"pagination": utils.PaginationMap(total, paging),
	})
}

func GetCoach(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	var coach models.Coach
	db := database.Database.Db.Preload("Certifications", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("expiry_date asc")
	})
	if err := utils.FirstOrNotFound(db, &coach, id, "コーチが見つかりません"); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", coach)
}

func CreateCoach(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCoach").(*coachValidator.CreateCoachRequest)
	db := database.Database.Db

	coach := models.Coach{
		Name:       reqData.Name,
		NameEn:     reqData.NameEn,
		Email:      reqData.Email,
		Role:       reqData.Role,
		Schools:    pq.StringArray(reqData.Schools),
		Status:     reqData.Status,
		Phone:      reqData.Phone,
		LineUserID: reqData.LineUserID,
		HireDate:   reqData.HireDate,
	}
	if reqData.Password != "" {
		hash, err := authController.HashPassword(reqData.Password)
		if err != nil {
			return utils.Wrap(err, "hash password")
		}
		coach.PasswordHash = hash
	}

	if err := db.Create(&coach).Error; err != nil {
		return utils.DBError(err, emailConflict)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "コーチを登録しました", coach)
}

func UpdateCoach(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedCoachUpdate").(*coachValidator.UpdateCoachRequest)
	db := database.Database.Db

	var coach models.Coach
	if err := utils.FirstOrNotFound(db, &coach, id, "コーチが見つかりません"); err != nil {
		return err
	}

	// only admins may change roles or other coaches' records
	if role, _ := c.Locals("role").(string); role != models.CoachRoleAdmin {
		if self, _ := middleware.CurrentCoachID(c); self != coach.ID || reqData.Role != nil || reqData.Status != nil {
			return utils.ErrForbidden("この操作を行う権限がありません")
		}
	}

	updates := map[string]interface{}{"updated_at": utils.Now()}
	if reqData.Name != nil {
		updates["name"] = strings.TrimSpace(*reqData.Name)
	}
	if reqData.NameEn != nil {
		updates["name_en"] = *reqData.NameEn
	}
	if reqData.Email != nil {
		updates["email"] = *reqData.Email
	}
	if reqData.Role != nil {
		updates["role"] = *reqData.Role
	}
	if reqData.Schools != nil {
		updates["schools"] = pq.StringArray(*reqData.Schools)
	}
	if reqData.Status != nil {
		updates["status"] = *reqData.Status
	}
	if reqData.Phone != nil {
		updates["phone"] = *reqData.Phone
	}
	if reqData.LineUserID != nil {
		updates["line_user_id"] = *reqData.LineUserID
	}
	if reqData.HireDate != nil {
		updates["hire_date"] = *reqData.HireDate
	}
	if reqData.Password != nil {
		hash, err := authController.HashPassword(*reqData.Password)
		if err != nil {
			return utils.Wrap(err, "hash password")
		}
		updates["password_hash"] = hash
	}

	if err := db.Model(&coach).Updates(updates).Error; err != nil {
		return utils.DBError(err, emailConflict)
	}
	if err := db.First(&coach, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "コーチ情報を更新しました", coach)
}

// DeleteCoach removes the coach with certifications, shifts and lesson assignments.
func DeleteCoach(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Coach{}, id, "コーチが見つかりません"); err != nil {
		return err
	}

	if err := db.Where("coach_id = ?", id).Delete(&models.Certification{}).Error; err != nil {
		return err
	}
	if err := db.Where("coach_id = ?", id).Delete(&models.CoachShift{}).Error; err != nil {
		return err
	}
	if err := db.Where("coach_id = ?", id).Delete(&models.LessonCoach{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.Coach{}, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "コーチを削除しました", nil)
}
