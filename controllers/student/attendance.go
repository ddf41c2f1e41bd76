package studentController

import (
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	studentValidator "coachhub/validators/student"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	attendanceNotFound = "出席記録が見つかりません"
	attendanceConflict = "この生徒の同日の出席記録は既に登録されています"
)

func ListAttendance(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)

	query := db.Model(&models.Attendance{})
	for _, field := range []string{"student_id", "lesson_id"} {
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
	if from := c.Query("from"); from != "" {
		query = query.Where("lesson_date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("lesson_date <= ?", to)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	records := []models.Attendance{}
	if err := query.Order("lesson_date desc, id desc").Limit(paging.Limit).Offset(paging.Offset).Find(&records).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     true,
		"message":    "",
		"data":       records,
		"pagination": utils.PaginationMap(total, paging),
	})
}

func GetAttendance(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	var record models.Attendance
	if err := utils.FirstOrNotFound(database.Database.Db, &record, id, attendanceNotFound); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", record)
}

func CreateAttendance(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAttendance").(*studentValidator.CreateAttendanceRequest)
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Student{}, reqData.StudentID, studentNotFound); err != nil {
		return err
	}
	if reqData.LessonID != nil {
		if err := utils.MustExist(db, &models.LessonSchedule{}, *reqData.LessonID, "レッスンが見つかりません"); err != nil {
			return err
		}
	}

	record := models.Attendance{
		StudentID:  reqData.StudentID,
		LessonID:   reqData.LessonID,
		LessonDate: reqData.LessonDate,
		Status:     reqData.Status,
		Note:       reqData.Note,
	}
	if err := db.Create(&record).Error; err != nil {
		return utils.DBError(err, attendanceConflict)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "出席を登録しました", record)
}

// BulkMarkAttendance records one lesson for many students. Existing rows for the
// same student and date are overwritten.
func BulkMarkAttendance(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAttendanceBulk").(*studentValidator.BulkAttendanceRequest)
	db := database.Database.Db

	if reqData.LessonID != nil {
		if err := utils.MustExist(db, &models.LessonSchedule{}, *reqData.LessonID, "レッスンが見つかりません"); err != nil {
			return err
		}
	}

	ids := make([]uint, 0, len(reqData.Records))
	for _, r := range reqData.Records {
		ids = append(ids, r.StudentID)
	}
	var found int64
	if err := db.Model(&models.Student{}).Where("id IN ?", ids).Distinct("id").Count(&found).Error; err != nil {
		return err
	}
	unique := map[uint]bool{}
	for _, id := range ids {
		unique[id] = true
	}
	if int(found) != len(unique) {
		return utils.ErrNotFound(studentNotFound)
	}
	if len(unique) != len(ids) {
		return utils.ErrBadRequest("records に同じ生徒が重複しています")
	}

	records := make([]models.Attendance, 0, len(reqData.Records))
	for _, r := range reqData.Records {
		records = append(records, models.Attendance{
			StudentID:  r.StudentID,
			LessonID:   reqData.LessonID,
			LessonDate: reqData.LessonDate,
			Status:     r.Status,
			Note:       r.Note,
		})
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "lesson_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"lesson_id", "status", "note", "updated_at"}),
	}).Create(&records).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "出席を一括登録しました", records)
}

func UpdateAttendance(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedAttendanceUpdate").(*studentValidator.UpdateAttendanceRequest)
	db := database.Database.Db

	var record models.Attendance
	if err := utils.FirstOrNotFound(db, &record, id, attendanceNotFound); err != nil {
		return err
	}

	updates := map[string]interface{}{"updated_at": utils.Now()}
	if reqData.LessonID != nil {
		if err := utils.MustExist(db, &models.LessonSchedule{}, *reqData.LessonID, "レッスンが見つかりません"); err != nil {
			return err
		}
		updates["lesson_id"] = *reqData.LessonID
	}
	if reqData.Status != nil {
		updates["status"] = *reqData.Status
	}
	if reqData.Note != nil {
		updates["note"] = *reqData.Note
	}

	if err := db.Model(&record).Updates(updates).Error; err != nil {
		return err
	}
	if err := db.First(&record, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "出席を更新しました", record)
}

func DeleteAttendance(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	res := database.Database.Db.Delete(&models.Attendance{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound(attendanceNotFound)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "出席記録を削除しました", nil)
}
