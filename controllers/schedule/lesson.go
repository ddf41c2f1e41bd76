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

const lessonNotFound = "レッスンが見つかりません"

type lessonCoachRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type lessonRow struct {
	models.LessonSchedule
	Coaches []lessonCoachRef `json:"coaches"`
}

// attachCoaches loads the assigned coaches of every lesson in one query.
func attachCoaches(db *gorm.DB, lessons []models.LessonSchedule) ([]lessonRow, error) {
	rows := make([]lessonRow, 0, len(lessons))
	if len(lessons) == 0 {
		return rows, nil
	}

	ids := make([]uint, 0, len(lessons))
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}

	var links []struct {
		LessonScheduleID uint
		CoachID          uint
		Name             string
	}
	if err := db.Table("lesson_coaches").
		Select("lesson_coaches.lesson_schedule_id, lesson_coaches.coach_id, coaches.name").
		Joins("JOIN coaches ON coaches.id = lesson_coaches.coach_id").
		Where("lesson_coaches.lesson_schedule_id IN ?", ids).
		Order("coaches.name asc").
		Scan(&links).Error; err != nil {
		return nil, err
	}

	byLesson := map[uint][]lessonCoachRef{}
	for _, link := range links {
		byLesson[link.LessonScheduleID] = append(byLesson[link.LessonScheduleID], lessonCoachRef{ID: link.CoachID, Name: link.Name})
	}
	for _, l := range lessons {
		coaches := byLesson[l.ID]
		if coaches == nil {
			coaches = []lessonCoachRef{}
		}
		rows = append(rows, lessonRow{LessonSchedule: l, Coaches: coaches})
	}
	return rows, nil
}

func ListLessons(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)

	query := db.Model(&models.LessonSchedule{})
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}
	if school := c.Query("school"); school != "" {
		query = query.Where("school = ?", school)
	}
	sportID, ok, err := utils.QueryUint(c, "sport_id")
	if err != nil {
		return err
	}
	if ok {
		query = query.Where("sport_id = ?", sportID)
	}
	coachID, ok, err := utils.QueryUint(c, "coach_id")
	if err != nil {
		return err
	}
	if ok {
		query = query.Where("id IN (?)",
			db.Model(&models.LessonCoach{}).Select("lesson_schedule_id").Where("coach_id = ?", coachID))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var lessons []models.LessonSchedule
	if err := query.Order("date asc, start_time asc").Limit(paging.Limit).Offset(paging.Offset).Find(&lessons).Error; err != nil {
		return err
	}
	rows, err := attachCoaches(db, lessons)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":     true,
		"message":    "",
		"data":       rows,
		"pagination": utils.PaginationMap(total, paging),
	})
}

func loadLesson(db *gorm.DB, id uint) (*lessonRow, error) {
	var lesson models.LessonSchedule
	if err := utils.FirstOrNotFound(db, &lesson, id, lessonNotFound); err != nil {
		return nil, err
	}
	rows, err := attachCoaches(db, []models.LessonSchedule{lesson})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func GetLesson(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	row, err := loadLesson(database.Database.Db, id)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", row)
}

func checkCoaches(db *gorm.DB, ids []uint) ([]uint, error) {
	unique := make([]uint, 0, len(ids))
	seen := map[uint]bool{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return unique, nil
	}
	var count int64
	if err := db.Model(&models.Coach{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
		return nil, err
	}
	if int(count) != len(unique) {
		return nil, utils.ErrNotFound("コーチが見つかりません")
	}
	return unique, nil
}

func assignCoaches(db *gorm.DB, lesson models.LessonSchedule, coachIDs []uint) error {
	if len(coachIDs) == 0 {
		return nil
	}
	links := make([]models.LessonCoach, 0, len(coachIDs))
	for _, id := range coachIDs {
		links = append(links, models.LessonCoach{LessonScheduleID: lesson.ID, CoachID: id})
	}
	if err := db.Create(&links).Error; err != nil {
		return err
	}

	for _, id := range coachIDs {
		utils.Notify(utils.NotificationRequest{
			Type:          "lesson_assigned",
			RecipientType: models.RecipientCoach,
			RecipientID:   id,
			Data: map[string]interface{}{
				"title":      lesson.Title,
				"date":       lesson.Date,
				"start_time": lesson.StartTime,
				"end_time":   lesson.EndTime,
				"school":     lesson.School,
				"lesson_id":  lesson.ID,
			},
		})
	}
	return nil
}

func CreateLesson(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLesson").(*scheduleValidator.CreateLessonRequest)
	db := database.Database.Db

	if reqData.SportID != nil {
		if err := utils.MustExist(db, &models.Sport{}, *reqData.SportID, "スポーツが見つかりません"); err != nil {
			return err
		}
	}
	coachIDs, err := checkCoaches(db, reqData.CoachIDs)
	if err != nil {
		return err
	}

	lesson := models.LessonSchedule{
		Date:        reqData.Date,
		StartTime:   reqData.StartTime,
		EndTime:     reqData.EndTime,
		School:      reqData.School,
		SportID:     reqData.SportID,
		ClassType:   reqData.ClassType,
		Title:       reqData.Title,
		MaxStudents: reqData.MaxStudents,
		Notes:       reqData.Notes,
	}
	if err := db.Create(&lesson).Error; err != nil {
		return err
	}
	if err := assignCoaches(db, lesson, coachIDs); err != nil {
		return err
	}

	row, err := loadLesson(db, lesson.ID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "レッスンを登録しました", row)
}

func UpdateLesson(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedLessonUpdate").(*scheduleValidator.UpdateLessonRequest)
	db := database.Database.Db

	var lesson models.LessonSchedule
	if err := utils.FirstOrNotFound(db, &lesson, id, lessonNotFound); err != nil {
		return err
	}

	start, end := lesson.StartTime, lesson.EndTime
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
	if reqData.Date != nil {
		updates["date"] = *reqData.Date
	}
	if reqData.School != nil {
		updates["school"] = *reqData.School
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
	if reqData.ClassType != nil {
		updates["class_type"] = *reqData.ClassType
	}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.MaxStudents != nil {
		updates["max_students"] = *reqData.MaxStudents
	}
	if reqData.Notes != nil {
		updates["notes"] = *reqData.Notes
	}

	var newCoaches []uint
	if reqData.CoachIDs != nil {
		ids, err := checkCoaches(db, *reqData.CoachIDs)
		if err != nil {
			return err
		}
		var current []uint
		if err := db.Model(&models.LessonCoach{}).Where("lesson_schedule_id = ?", id).Pluck("coach_id", &current).Error; err != nil {
			return err
		}
		had := map[uint]bool{}
		for _, cid := range current {
			had[cid] = true
		}
		for _, cid := range ids {
			if !had[cid] {
				newCoaches = append(newCoaches, cid)
			}
		}
		keep := ids
		if len(keep) == 0 {
			keep = []uint{0}
		}
		if err := db.Where("lesson_schedule_id = ? AND coach_id NOT IN ?", id, keep).Delete(&models.LessonCoach{}).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&lesson).Updates(updates).Error; err != nil {
		return err
	}
	if err := db.First(&lesson, id).Error; err != nil {
		return err
	}
	if err := assignCoaches(db, lesson, newCoaches); err != nil {
		return err
	}

	row, err := loadLesson(db, id)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "レッスンを更新しました", row)
}

func DeleteLesson(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	db := database.Database.Db

	if err := utils.MustExist(db, &models.LessonSchedule{}, id, lessonNotFound); err != nil {
		return err
	}
	if err := db.Where("lesson_schedule_id = ?", id).Delete(&models.LessonCoach{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.LessonSchedule{}, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "レッスンを削除しました", nil)
}
