package sportController

import (
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	sportValidator "coachhub/validators/sport"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	sportConflict    = "このスポーツ名は既に登録されています"
	sportInUse       = "このスポーツを使用している生徒がいるため削除できません"
	sportNotFound    = "スポーツが見つかりません"
	skillItemMissing = "スキル項目が見つかりません"
)

func ListSports(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&models.Sport{})
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.ErrBadRequest("is_active の値が不正です")
		}
		query = query.Where("is_active = ?", active)
	}

	sports := []models.Sport{}
	if err := query.Order("name asc").Find(&sports).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", sports)
}

func GetSport(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	var sport models.Sport
	if err := utils.FirstOrNotFound(db, &sport, id, sportNotFound); err != nil {
		return err
	}

	items := []models.SkillItem{}
	if err := db.Where("sport_id = ?", id).Order("order_index asc, id asc").Find(&items).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"sport":       sport,
		"skill_items": items,
	})
}

func CreateSport(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSport").(*sportValidator.CreateSportRequest)
	db := database.Database.Db

	sport := models.Sport{
		Name:        reqData.Name,
		NameEn:      reqData.NameEn,
		Icon:        reqData.Icon,
		Description: reqData.Description,
		IsActive:    reqData.IsActive == nil || *reqData.IsActive,
	}
	if err := db.Create(&sport).Error; err != nil {
		return utils.DBError(err, sportConflict)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "スポーツを登録しました", sport)
}

func UpdateSport(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedSportUpdate").(*sportValidator.UpdateSportRequest)
	db := database.Database.Db

	var sport models.Sport
	if err := utils.FirstOrNotFound(db, &sport, id, sportNotFound); err != nil {
		return err
	}

	updates := map[string]interface{}{"updated_at": utils.Now()}
	if reqData.Name != nil {
		updates["name"] = strings.TrimSpace(*reqData.Name)
	}
	if reqData.NameEn != nil {
		updates["name_en"] = *reqData.NameEn
	}
	if reqData.Icon != nil {
		updates["icon"] = *reqData.Icon
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}

	if err := db.Model(&sport).Updates(updates).Error; err != nil {
		return utils.DBError(err, sportConflict)
	}
	if err := db.First(&sport, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "スポーツを更新しました", sport)
}

// DeleteSport refuses while any student references the sport.
func DeleteSport(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Sport{}, id, sportNotFound); err != nil {
		return err
	}

	var inUse int64
	if err := db.Model(&models.Student{}).Where("sport_id = ?", id).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return utils.ErrConflict(sportInUse)
	}

	if err := db.Delete(&models.Sport{}, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "スポーツを削除しました", nil)
}

func ListSkillItems(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&models.SkillItem{})
	sportID, ok, err := utils.QueryUint(c, "sport_id")
	if err != nil {
		return err
	}
	if ok {
		query = query.Where("sport_id = ?", sportID)
	}
	if tt := c.Query("training_type"); tt != "" {
		query = query.Where("training_type = ?", tt)
	}
	if raw := c.Query("level"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			return utils.ErrBadRequest("level の値が不正です")
		}
		query = query.Where("level = ?", level)
	}

	items := []models.SkillItem{}
	if err := query.Order("order_index asc, id asc").Find(&items).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", items)
}

func GetSkillItem(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	var item models.SkillItem
	if err := utils.FirstOrNotFound(database.Database.Db, &item, id, skillItemMissing); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", item)
}

func CreateSkillItem(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSkillItem").(*sportValidator.CreateSkillItemRequest)
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Sport{}, reqData.SportID, sportNotFound); err != nil {
		return err
	}

	item := models.SkillItem{
		SportID:      reqData.SportID,
		Name:         reqData.Name,
		NameEn:       reqData.NameEn,
		TrainingType: reqData.TrainingType,
		Level:        reqData.Level,
		Description:  reqData.Description,
		OrderIndex:   reqData.OrderIndex,
	}
	if err := db.Create(&item).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "スキル項目を登録しました", item)
}

func UpdateSkillItem(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedSkillItemUpdate").(*sportValidator.UpdateSkillItemRequest)
	db := database.Database.Db

	var item models.SkillItem
	if err := utils.FirstOrNotFound(db, &item, id, skillItemMissing); err != nil {
		return err
	}

	updates := map[string]interface{}{"updated_at": utils.Now()}
	if reqData.SportID != nil {
		if err := utils.MustExist(db, &models.Sport{}, *reqData.SportID, sportNotFound); err != nil {
			return err
		}
		updates["sport_id"] = *reqData.SportID
	}
	if reqData.Name != nil {
		updates["name"] = strings.TrimSpace(*reqData.Name)
	}
	if reqData.NameEn != nil {
		updates["name_en"] = *reqData.NameEn
	}
	if reqData.TrainingType != nil {
		updates["training_type"] = *reqData.TrainingType
	}
	if reqData.Level != nil {
		updates["level"] = *reqData.Level
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}

	if err := db.Model(&item).Updates(updates).Error; err != nil {
		return err
	}
	if err := db.First(&item, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "スキル項目を更新しました", item)
}

// DeleteSkillItem leaves evaluations that point at the item untouched.
func DeleteSkillItem(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	res := database.Database.Db.Delete(&models.SkillItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound(skillItemMissing)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "スキル項目を削除しました", nil)
}
