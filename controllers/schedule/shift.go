package scheduleController

import (
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	scheduleValidator "coachhub/validators/schedule"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const shiftNotFound = "シフトが見つかりません"

type shiftRow struct {
	models.CoachShift
	CoachName string `json:"coach_name"`
}

func shiftQuery(db *gorm.DB) *gorm.DB {
	return db.Table("coach_shifts").
		Select("coach_shifts.*, coaches.name AS coach_name").
		Joins("LEFT JOIN coaches ON coaches.id = coach_shifts.coach_id")
}

func ListShifts(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)

	query := shiftQuery(db)
	coachID, ok, err := utils.QueryUint(c, "coach_id")
	if err != nil {
		return err
	}
	if ok {
		query = query.Where("coach_shifts.coach_id = ?", coachID)
	}
	if school := c.Query("school"); school != "" {
		query = query.Where("coach_shifts.school = ?", school)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("coach_shifts.date = ?", date)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("coach_shifts.date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("coach_shifts.date <= ?", to)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	rows := []shiftRow{}
	if err := query.Order("coach_shifts.date asc, coach_shifts.start_time asc").
		Limit(paging.Limit).Offset(paging.Offset).Scan(&rows).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     true,
		"message":    "",
		"data":       rows,
		"pagination": utils.PaginationMap(total, paging),
	})
}

func GetShift(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	var row shiftRow
	res := shiftQuery(database.Database.Db).Where("coach_shifts.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound(shiftNotFound)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", row)
}

func CreateShift(c *fiber.Ctx) error {
	reqData := c.Locals("validatedShift").(*scheduleValidator.CreateShiftRequest)
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Coach{}, reqData.CoachID, "コーチが見つかりません"); err != nil {
		return err
	}

	shift := models.CoachShift{
		CoachID:   reqData.CoachID,
		Date:      reqData.Date,
		StartTime: reqData.StartTime,
		EndTime:   reqData.EndTime,
		School:    reqData.School,
		Notes:     reqData.Notes,
	}
	if err := db.Create(&shift).Error; err != nil {
		return err
	}

	utils.Notify(utils.NotificationRequest{
		Type:          "shift_assigned",
		RecipientType: models.RecipientCoach,
		RecipientID:   shift.CoachID,
		Data: map[string]interface{}{
			"date":       shift.Date,
			"start_time": shift.StartTime,
			"end_time":   shift.EndTime,
			"school":     shift.School,
			"shift_id":   shift.ID,
		},
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "シフトを登録しました", shift)
}

// UpdateShift merges the patch with the stored times before checking the range.
func UpdateShift(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedShiftUpdate").(*scheduleValidator.UpdateShiftRequest)
	db := database.Database.Db

	var shift models.CoachShift
	if err := utils.FirstOrNotFound(db, &shift, id, shiftNotFound); err != nil {
		return err
	}

	start, end := shift.StartTime, shift.EndTime
	if reqData.StartTime != nil {
		start = *reqData.StartTime
	}
	if reqData.EndTime != nil {
		end = *reqData.EndTime
	}
	if !models.TimeRangeValid(start, end) {
		return utils.ErrBadRequest(scheduleValidator.ErrTimeRange)
	}

	updates := map[string]interface{}{
		"start_time": start,
		"end_time":   end,
		"updated_at": utils.Now(),
	}
	if reqData.CoachID != nil {
		if err := utils.MustExist(db, &models.Coach{}, *reqData.CoachID, "コーチが見つかりません"); err != nil {
			return err
		}
		updates["coach_id"] = *reqData.CoachID
	}
	if reqData.Date != nil {
		updates["date"] = *reqData.Date
	}
	if reqData.School != nil {
		updates["school"] = *reqData.School
	}
	if reqData.Notes != nil {
		updates["notes"] = *reqData.Notes
	}

	if err := db.Model(&shift).Updates(updates).Error; err != nil {
		return err
	}
	if err := db.First(&shift, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "シフトを更新しました", shift)
}

func DeleteShift(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	res := database.Database.Db.Delete(&models.CoachShift{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound(shiftNotFound)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "シフトを削除しました", nil)
}
