package missionController

import (
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	missionValidator "coachhub/validators/mission"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	sheetNotFound = "ミッションシートが見つかりません"
	itemNotFound  = "ミッション項目が見つかりません"
)

func orderedItems(tx *gorm.DB) *gorm.DB {
	return tx.Order("order_index asc, id asc")
}

func loadSheet(db *gorm.DB, id uint) (*models.MissionSheet, error) {
	var sheet models.MissionSheet
	if err := utils.FirstOrNotFound(db.Preload("Items", orderedItems), &sheet, id, sheetNotFound); err != nil {
		return nil, err
	}
	return &sheet, nil
}

// RollUp re-reads every item of the sheet and stores the derived status. A sheet that
// becomes completed notifies its coach.
func RollUp(db *gorm.DB, sheetID uint) (*models.MissionSheet, error) {
	sheet, err := loadSheet(db, sheetID)
	if err != nil {
		return nil, err
	}

	status := models.MissionSheetStatus(sheet.Items)
	now := utils.Now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	switch {
	case status != models.MissionCompleted:
		updates["completed_at"] = gorm.Expr("NULL")
	case sheet.Status != models.MissionCompleted || sheet.CompletedAt == nil:
		updates["completed_at"] = now
	}
	becameCompleted := status == models.MissionCompleted && sheet.Status != models.MissionCompleted

	if err := db.Model(&models.MissionSheet{}).Where("id = ?", sheet.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	if becameCompleted {
		notifyCompleted(db, sheet)
	}
	return loadSheet(db, sheetID)
}

func notifyCompleted(db *gorm.DB, sheet *models.MissionSheet) {
	var student models.Student
	if err := db.Select("id", "name").First(&student, sheet.StudentID).Error; err != nil {
		utils.Log.Warnf("[MISSION] sheet %d: student %d not loaded: %v", sheet.ID, sheet.StudentID, err)
	}
	utils.Notify(utils.NotificationRequest{
		Type:          "mission_completed",
		RecipientType: models.RecipientCoach,
		RecipientID:   sheet.CoachID,
		Data: map[string]interface{}{
			"student_name":     student.Name,
			"lesson_date":      sheet.LessonDate,
			"mission_sheet_id": sheet.ID,
		},
	})
}

func ListMissionSheets(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)

	query := db.Model(&models.MissionSheet{})
	for _, field := range []string{"student_id", "coach_id"} {
		v, ok, err := utils.QueryUint(c, field)
		if err != nil {
			return err
		}
		if ok {
			query = query.Where(field+" = ?", v)
		}
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("lesson_date"); date != "" {
		query = query.Where("lesson_date = ?", date)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	sheets := []models.MissionSheet{}
	if err := query.Preload("Items", orderedItems).
		Order("lesson_date desc, created_at desc").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&sheets).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     true,
		"message":    "",
		"data":       sheets,
		"pagination": utils.PaginationMap(total, paging),
	})
}

func GetMissionSheet(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	sheet, err := loadSheet(database.Database.Db, id)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", sheet)
}

func buildItem(sheetID uint, in missionValidator.MissionItemInput, fallbackOrder int) models.MissionItem {
	order := fallbackOrder
	if in.OrderIndex != nil {
		order = *in.OrderIndex
	}
	return models.MissionItem{
		MissionSheetID:    sheetID,
		SkillItemID:       in.SkillItemID,
		TargetDescription: in.TargetDescription,
		SuccessCriteria:   in.SuccessCriteria,
		OrderIndex:        order,
	}
}

func checkSkillItems(db *gorm.DB, inputs ...missionValidator.MissionItemInput) error {
	for _, in := range inputs {
		if in.SkillItemID == nil {
			continue
		}
		if err := utils.MustExist(db, &models.SkillItem{}, *in.SkillItemID, "スキル項目が見つかりません"); err != nil {
			return err
		}
	}
	return nil
}

// CreateMissionSheet inserts the sheet and then its items. When the item insert fails
// the sheet is deleted again; the two writes are not one transaction.
func CreateMissionSheet(c *fiber.Ctx) error {
	reqData := c.Locals("validatedMissionSheet").(*missionValidator.CreateMissionSheetRequest)
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Student{}, reqData.StudentID, "生徒が見つかりません"); err != nil {
		return err
	}
	if err := utils.MustExist(db, &models.Coach{}, reqData.CoachID, "コーチが見つかりません"); err != nil {
		return err
	}
	if err := checkSkillItems(db, reqData.MissionItems...); err != nil {
		return err
	}

	sheet := models.MissionSheet{
		StudentID:  reqData.StudentID,
		CoachID:    reqData.CoachID,
		LessonDate: reqData.LessonDate,
		Status:     models.MissionDraft,
		Notes:      reqData.Notes,
	}
	if err := db.Create(&sheet).Error; err != nil {
		return err
	}

	items := make([]models.MissionItem, 0, len(reqData.MissionItems))
	for i, in := range reqData.MissionItems {
		items = append(items, buildItem(sheet.ID, in, i))
	}
	if err := db.Create(&items).Error; err != nil {
		if delErr := db.Delete(&models.MissionSheet{}, sheet.ID).Error; delErr != nil {
			utils.Log.Errorf("[MISSION] compensating delete of sheet %d failed: %v", sheet.ID, delErr)
		}
		return utils.ErrUpstream("ミッション項目の登録に失敗しました")
	}
	sheet.Items = items

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "ミッションシートを作成しました", sheet)
}

func UpdateMissionSheet(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedMissionSheetUpdate").(*missionValidator.UpdateMissionSheetRequest)
	db := database.Database.Db

	if err := utils.MustExist(db, &models.MissionSheet{}, id, sheetNotFound); err != nil {
		return err
	}

	updates := map[string]interface{}{"updated_at": utils.Now()}
	if reqData.CoachID != nil {
		if err := utils.MustExist(db, &models.Coach{}, *reqData.CoachID, "コーチが見つかりません"); err != nil {
			return err
		}
		updates["coach_id"] = *reqData.CoachID
	}
	if reqData.LessonDate != nil {
		updates["lesson_date"] = *reqData.LessonDate
	}
	if reqData.Notes != nil {
		updates["notes"] = *reqData.Notes
	}

	if err := db.Model(&models.MissionSheet{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return err
	}
	sheet, err := loadSheet(db, id)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "ミッションシートを更新しました", sheet)
}

func DeleteMissionSheet(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	if err := utils.MustExist(db, &models.MissionSheet{}, id, sheetNotFound); err != nil {
		return err
	}
	if err := db.Where("mission_sheet_id = ?", id).Delete(&models.MissionItem{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.MissionSheet{}, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "ミッションシートを削除しました", nil)
}

func AddMissionItem(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedMissionItem").(*missionValidator.MissionItemInput)
	db := database.Database.Db

	var count int64
	if err := db.Model(&models.MissionSheet{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.ErrNotFound(sheetNotFound)
	}
	if err := checkSkillItems(db, *reqData); err != nil {
		return err
	}

	var existing int64
	if err := db.Model(&models.MissionItem{}).Where("mission_sheet_id = ?", id).Count(&existing).Error; err != nil {
		return err
	}
	item := buildItem(id, *reqData, int(existing))
	if err := db.Create(&item).Error; err != nil {
		return err
	}

	sheet, err := RollUp(db, id)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "ミッション項目を追加しました", fiber.Map{
		"mission_item":  item,
		"mission_sheet": sheet,
	})
}

// UpdateMissionItem patches an item; completed stamps or clears completed_at and the
// sheet status is rolled up afterwards.
func UpdateMissionItem(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedMissionItemUpdate").(*missionValidator.UpdateMissionItemRequest)
	db := database.Database.Db

	var item models.MissionItem
	if err := utils.FirstOrNotFound(db, &item, id, itemNotFound); err != nil {
		return err
	}

	now := utils.Now()
	updates := map[string]interface{}{"updated_at": now}
	if reqData.Completed != nil {
		if *reqData.Completed {
			updates["completed_at"] = now
		} else {
			updates["completed_at"] = gorm.Expr("NULL")
		}
	}
	if reqData.SkillItemID != nil {
		if err := utils.MustExist(db, &models.SkillItem{}, *reqData.SkillItemID, "スキル項目が見つかりません"); err != nil {
			return err
		}
		updates["skill_item_id"] = *reqData.SkillItemID
	}
	if reqData.TargetDescription != nil {
		updates["target_description"] = *reqData.TargetDescription
	}
	if reqData.SuccessCriteria != nil {
		updates["success_criteria"] = *reqData.SuccessCriteria
	}
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}

	if err := db.Model(&models.MissionItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return err
	}
	if err := db.First(&item, id).Error; err != nil {
		return err
	}

	sheet, err := RollUp(db, item.MissionSheetID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "ミッション項目を更新しました", fiber.Map{
		"mission_item":  item,
		"mission_sheet": sheet,
	})
}

func DeleteMissionItem(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	var item models.MissionItem
	if err := utils.FirstOrNotFound(db, &item, id, itemNotFound); err != nil {
		return err
	}
	if err := db.Delete(&models.MissionItem{}, id).Error; err != nil {
		return err
	}

	sheet, err := RollUp(db, item.MissionSheetID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "ミッション項目を削除しました", sheet)
}
