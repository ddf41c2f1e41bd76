package studentController

import (
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	studentValidator "coachhub/validators/student"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const badgeNotFound = "バッジが見つかりません"

func ListBadges(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)

	query := db.Model(&models.Badge{})
	studentID, ok, err := utils.QueryUint(c, "student_id")
	if err != nil {
		return err
	}
	if ok {
		query = query.Where("student_id = ?", studentID)
	}
	for _, field := range []string{"sport", "category", "badge_type"} {
		if v := c.Query(field); v != "" {
			query = query.Where(field+" = ?", v)
		}
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	badges := []models.Badge{}
	if err := query.Order("earned_date desc, id desc").Limit(paging.Limit).Offset(paging.Offset).Find(&badges).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     true,
		"message":    "",
		"data":       badges,
		"pagination": utils.PaginationMap(total, paging),
	})
}

func GetBadge(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	var badge models.Badge
	if err := utils.FirstOrNotFound(database.Database.Db, &badge, id, badgeNotFound); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", badge)
}

// CreateBadge awards a badge; the tier follows the student's level unless given.
func CreateBadge(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBadge").(*studentValidator.CreateBadgeRequest)
	db := database.Database.Db

	var student models.Student
	if err := utils.FirstOrNotFound(db, &student, reqData.StudentID, studentNotFound); err != nil {
		return err
	}

	badgeType := reqData.BadgeType
	if badgeType == "" {
		badgeType = models.BadgeTypeForLevel(student.Level)
	}
	earned := reqData.EarnedDate
	if earned == "" {
		earned = utils.Today()
	}
	badge := models.Badge{
		StudentID:  student.ID,
		Sport:      reqData.Sport,
		Category:   reqData.Category,
		BadgeType:  badgeType,
		EarnedDate: earned,
	}
	if err := db.Create(&badge).Error; err != nil {
		return err
	}

	utils.Notify(utils.NotificationRequest{
		Type:          "badge_earned",
		RecipientType: models.RecipientStudent,
		RecipientID:   student.ID,
		Data: map[string]interface{}{
			"student_name": student.Name,
			"sport":        badge.Sport,
			"category":     badge.Category,
			"badge_type":   badge.BadgeType,
		},
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "バッジを付与しました", badge)
}

func UpdateBadge(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedBadgeUpdate").(*studentValidator.UpdateBadgeRequest)
	db := database.Database.Db

	var badge models.Badge
	if err := utils.FirstOrNotFound(db, &badge, id, badgeNotFound); err != nil {
		return err
	}

	updates := map[string]interface{}{"updated_at": utils.Now()}
	if reqData.Sport != nil {
		updates["sport"] = strings.TrimSpace(*reqData.Sport)
	}
	if reqData.Category != nil {
		updates["category"] = *reqData.Category
	}
	if reqData.BadgeType != nil {
		updates["badge_type"] = *reqData.BadgeType
	}
	if reqData.EarnedDate != nil {
		updates["earned_date"] = *reqData.EarnedDate
	}

	if err := db.Model(&badge).Updates(updates).Error; err != nil {
		return err
	}
	if err := db.First(&badge, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "バッジを更新しました", badge)
}

func DeleteBadge(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	res := database.Database.Db.Delete(&models.Badge{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound(badgeNotFound)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "バッジを削除しました", nil)
}

// badgeProgress counts the student's badges per category and compares them with the current tier.
func badgeProgress(db *gorm.DB, student models.Student) ([]utils.BadgeCategoryProgress, error) {
	var rows []struct {
		Category  string
		BadgeType string
		N         int
	}
	if err := db.Model(&models.Badge{}).
		Select("category, badge_type, COUNT(*) AS n").
		Where("student_id = ?", student.ID).
		Group("category, badge_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	earned := map[string]map[string]int{}
	for _, row := range rows {
		if earned[row.Category] == nil {
			earned[row.Category] = map[string]int{}
		}
		earned[row.Category][row.BadgeType] = row.N
	}
	return utils.ComputeBadgeProgress(student.Level, earned), nil
}

func BadgeProgress(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "student_id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	var student models.Student
	if err := utils.FirstOrNotFound(db, &student, id, studentNotFound); err != nil {
		return err
	}

	progress, err := badgeProgress(db, student)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"student_id": student.ID,
		"level":      student.Level,
		"badge_type": models.BadgeTypeForLevel(student.Level),
		"categories": progress,
	})
}
