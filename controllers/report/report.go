package reportController

import (
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	reportValidator "coachhub/validators/report"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const reportNotFound = "レポートが見つかりません"

// MonthlyReport computes the aggregation without storing it.
func MonthlyReport(c *fiber.Ctx) error {
	reqData := c.Locals("validatedReportQuery").(*reportValidator.MonthlyReportRequest)

	report, err := utils.BuildMonthlyReport(c.UserContext(), reqData.StudentID, reqData.Year, reqData.Month, utils.Now())
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", report)
}

// GenerateReport computes and upserts the stored report; finalized reports are frozen.
func GenerateReport(c *fiber.Ctx) error {
	reqData := c.Locals("validatedReportGenerate").(*reportValidator.MonthlyReportRequest)
	db := database.Database.Db

	var stored models.MonthlyReport
	err := db.Where("student_id = ? AND year = ? AND month = ?", reqData.StudentID, reqData.Year, reqData.Month).
		First(&stored).Error
	exists := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if exists && stored.IsFinalized {
		return utils.ErrConflict("確定済みのレポートは再生成できません")
	}

	now := utils.Now()
	data, err := utils.BuildMonthlyReport(c.UserContext(), reqData.StudentID, reqData.Year, reqData.Month, now)
	if err != nil {
		return err
	}
	progress, err := json.Marshal(data.BadgeProgress)
	if err != nil {
		return err
	}

	stored.StudentID = data.StudentID
	stored.Year = data.Year
	stored.Month = data.Month
	stored.AttendanceRate = data.AttendanceRate
	stored.PresentCount = data.PresentCount
	stored.TotalLessons = data.TotalLessons
	stored.VisionAvg = data.SkillAverages.Vision
	stored.RhythmAvg = data.SkillAverages.Rhythm
	stored.CoordinationAvg = data.SkillAverages.Coordination
	stored.BadgeProgress = progress
	stored.CurrentLevel = data.CurrentLevel
	stored.ExpectedLevel = data.ExpectedLevel
	stored.OnTrack = data.OnTrack
	stored.GeneratedAt = &now

	if err := db.Save(&stored).Error; err != nil {
		return utils.DBError(err, "このレポートは既に生成されています")
	}

	status := fiber.StatusCreated
	if exists {
		status = fiber.StatusOK
	}
	return middleware.JsonResponse(c, status, true, "レポートを生成しました", fiber.Map{
		"report":  stored,
		"details": data,
	})
}

func ListReports(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)

	query := db.Model(&models.MonthlyReport{})
	studentID, ok, err := utils.QueryUint(c, "student_id")
	if err != nil {
		return err
	}
	if ok {
		query = query.Where("student_id = ?", studentID)
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return utils.ErrBadRequest("year の値が不正です")
		}
		query = query.Where("year = ?", year)
	}
	if raw := c.Query("is_finalized"); raw != "" {
		finalized, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.ErrBadRequest("is_finalized の値が不正です")
		}
		query = query.Where("is_finalized = ?", finalized)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	reports := []models.MonthlyReport{}
	if err := query.Order("year desc, month desc, student_id asc").
		Limit(paging.Limit).Offset(paging.Offset).Find(&reports).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     true,
		"message":    "",
		"data":       reports,
		"pagination": utils.PaginationMap(total, paging),
	})
}

func GetReport(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	var report models.MonthlyReport
	if err := utils.FirstOrNotFound(database.Database.Db, &report, id, reportNotFound); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", report)
}

func UpdateReport(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedReportUpdate").(*reportValidator.UpdateReportRequest)
	db := database.Database.Db

	var report models.MonthlyReport
	if err := utils.FirstOrNotFound(db, &report, id, reportNotFound); err != nil {
		return err
	}
	if report.IsFinalized {
		return utils.ErrConflict("確定済みのレポートは編集できません")
	}

	if err := db.Model(&report).Updates(map[string]interface{}{
		"coach_comment": *reqData.CoachComment,
		"updated_at":    utils.Now(),
	}).Error; err != nil {
		return err
	}
	if err := db.First(&report, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "レポートを更新しました", report)
}

// FinalizeReport freezes the report and tells the student's guardian it is ready.
func FinalizeReport(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	var report models.MonthlyReport
	if err := utils.FirstOrNotFound(db, &report, id, reportNotFound); err != nil {
		return err
	}
	if report.IsFinalized {
		return utils.ErrConflict("このレポートは既に確定済みです")
	}

	now := utils.Now()
	if err := db.Model(&report).Updates(map[string]interface{}{
		"is_finalized": true,
		"finalized_at": now,
		"updated_at":   now,
	}).Error; err != nil {
		return err
	}
	if err := db.First(&report, id).Error; err != nil {
		return err
	}

	var student models.Student
	if err := db.Select("id", "name").First(&student, report.StudentID).Error; err != nil {
		utils.Log.Warnf("[REPORT] report %d: student %d not loaded: %v", report.ID, report.StudentID, err)
	}
	utils.Notify(utils.NotificationRequest{
		Type:          "report_published",
		RecipientType: models.RecipientStudent,
		RecipientID:   report.StudentID,
		Locale:        middleware.RequestLocale(c),
		Data: map[string]interface{}{
			"student_name":    student.Name,
			"year":            report.Year,
			"month":           report.Month,
			"attendance_rate": strconv.FormatFloat(report.AttendanceRate*100, 'f', 1, 64),
			"report_id":       report.ID,
		},
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "レポートを確定しました", report)
}

func DeleteReport(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	res := database.Database.Db.Delete(&models.MonthlyReport{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound(reportNotFound)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "レポートを削除しました", nil)
}
