package studentController

import (
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	studentValidator "coachhub/validators/student"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const studentNotFound = "生徒が見つかりません"

type studentRow struct {
	models.Student
	Title string `json:"title"`
}

func withTitle(s models.Student, locale string) studentRow {
	return studentRow{Student: s, Title: models.LevelTitle(s.Level, locale)}
}

func ListStudents(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)
	locale := middleware.RequestLocale(c)

	query := db.Model(&models.Student{})
	for _, field := range []string{"school", "status", "class_type"} {
		if v := c.Query(field); v != "" {
			query = query.Where(field+" = ?", v)
		}
	}
	if raw := c.Query("level"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			return utils.ErrBadRequest("level の値が不正です")
		}
		query = query.Where("level = ?", level)
	}
	sportID, ok, err := utils.QueryUint(c, "sport_id")
	if err != nil {
		return err
	}
	if ok {
		query = query.Where("sport_id = ?", sportID)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query = query.Where("name LIKE ? OR name_kana LIKE ?", "%"+q+"%", "%"+q+"%")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var students []models.Student
	if err := query.Order("name asc").Limit(paging.Limit).Offset(paging.Offset).Find(&students).Error; err != nil {
		return err
	}

	rows := make([]studentRow, 0, len(students))
	for _, s := range students {
		rows = append(rows, withTitle(s, locale))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     true,
		"message":    "",
		"data":       rows,
		"pagination": utils.PaginationMap(total, paging),
	})
}

// GetStudent returns the student with badges, badge progress and the latest evaluations.
func GetStudent(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	var student models.Student
	if err := utils.FirstOrNotFound(db, &student, id, studentNotFound); err != nil {
		return err
	}

	badges := []models.Badge{}
	if err := db.Where("student_id = ?", id).Order("earned_date desc, id desc").Find(&badges).Error; err != nil {
		return err
	}

	evaluations := []evaluationRow{}
	if err := evaluationQuery(db).Where("evaluations.student_id = ?", id).
		Order("evaluations.evaluation_date desc, evaluations.id desc").
		Limit(10).Scan(&evaluations).Error; err != nil {
		return err
	}

	progress, err := badgeProgress(db, student)
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"student":            withTitle(student, middleware.RequestLocale(c)),
		"badges":             badges,
		"badge_progress":     progress,
		"recent_evaluations": evaluations,
	})
}

func CreateStudent(c *fiber.Ctx) error {
	reqData := c.Locals("validatedStudent").(*studentValidator.CreateStudentRequest)
	db := database.Database.Db

	if reqData.SportID != nil {
		if err := utils.MustExist(db, &models.Sport{}, *reqData.SportID, "スポーツが見つかりません"); err != nil {
			return err
		}
	}

	enrollment := reqData.EnrollmentDate
	if enrollment == "" {
		enrollment = utils.Today()
	}
	student := models.Student{
		Name:               reqData.Name,
		NameKana:           reqData.NameKana,
		BirthDate:          reqData.BirthDate,
		Level:              reqData.Level,
		School:             reqData.School,
		ClassType:          reqData.ClassType,
		Status:             reqData.Status,
		SportID:            reqData.SportID,
		EnrollmentDate:     enrollment,
		GuardianName:       reqData.GuardianName,
		GuardianEmail:      reqData.GuardianEmail,
		GuardianLineUserID: reqData.GuardianLineUserID,
		Notes:              reqData.Notes,
	}
	if err := db.Create(&student).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "生徒を登録しました",
		withTitle(student, middleware.RequestLocale(c)))
}

func UpdateStudent(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedStudentUpdate").(*studentValidator.UpdateStudentRequest)
	db := database.Database.Db

	var student models.Student
	if err := utils.FirstOrNotFound(db, &student, id, studentNotFound); err != nil {
		return err
	}

	updates := map[string]interface{}{"updated_at": utils.Now()}
	if reqData.Name != nil {
		updates["name"] = strings.TrimSpace(*reqData.Name)
	}
	if reqData.NameKana != nil {
		updates["name_kana"] = *reqData.NameKana
	}
	if reqData.BirthDate != nil {
		updates["birth_date"] = *reqData.BirthDate
	}
	if reqData.Level != nil {
		updates["level"] = *reqData.Level
	}
	if reqData.School != nil {
		updates["school"] = *reqData.School
	}
	if reqData.ClassType != nil {
		updates["class_type"] = *reqData.ClassType
	}
	if reqData.Status != nil {
		updates["status"] = *reqData.Status
	}
	if reqData.SportID != nil {
		if *reqData.SportID == 0 {
			updates["sport_id"] = gorm.Expr("NULL")
		} else {
			if err := utils.MustExist(db, &models.Sport{}, *reqData.SportID, "スポーツが見つかりません"); err != nil {
				return err
			}
			updates["sport_id"] = *reqData.SportID
		}
	}
	if reqData.EnrollmentDate != nil {
		updates["enrollment_date"] = *reqData.EnrollmentDate
	}
	if reqData.GuardianName != nil {
		updates["guardian_name"] = *reqData.GuardianName
	}
	if reqData.GuardianEmail != nil {
		updates["guardian_email"] = strings.ToLower(strings.TrimSpace(*reqData.GuardianEmail))
	}
	if reqData.GuardianLineUserID != nil {
		updates["guardian_line_user_id"] = *reqData.GuardianLineUserID
	}
	if reqData.Notes != nil {
		updates["notes"] = *reqData.Notes
	}

	if err := db.Model(&student).Updates(updates).Error; err != nil {
		return err
	}
	if err := db.First(&student, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "生徒情報を更新しました",
		withTitle(student, middleware.RequestLocale(c)))
}

// DeleteStudent removes the student and everything recorded about them.
func DeleteStudent(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	if err := utils.MustExist(db, &models.Student{}, id, studentNotFound); err != nil {
		return err
	}

	sheetIDs := db.Model(&models.MissionSheet{}).Select("id").Where("student_id = ?", id)
	if err := db.Where("mission_sheet_id IN (?)", sheetIDs).Delete(&models.MissionItem{}).Error; err != nil {
		return err
	}
	for _, model := range []interface{}{
		&models.MissionSheet{},
		&models.Evaluation{},
		&models.Badge{},
		&models.Attendance{},
		&models.MonthlyReport{},
	} {
		if err := db.Where("student_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}
	if err := db.Delete(&models.Student{}, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "生徒を削除しました", nil)
}
