package studentController

import (
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	studentValidator "coachhub/validators/student"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type evaluationRow struct {
	models.Evaluation
	SkillName    string `json:"skill_name"`
	TrainingType string `json:"training_type"`
	CoachName    string `json:"coach_name"`
}

func evaluationQuery(db *gorm.DB) *gorm.DB {
	return db.Table("evaluations").
		Select("evaluations.*, skill_items.name AS skill_name, skill_items.training_type AS training_type, coaches.name AS coach_name").
		Joins("LEFT JOIN skill_items ON skill_items.id = evaluations.skill_item_id").
		Joins("LEFT JOIN coaches ON coaches.id = evaluations.coach_id")
}

func ListEvaluations(c *fiber.Ctx) error {
	db := database.Database.Db
	paging := utils.ResolvePaging(c)

	query := evaluationQuery(db)
	for _, field := range []string{"student_id", "coach_id", "skill_item_id"} {
		v, ok, err := utils.QueryUint(c, field)
		if err != nil {
			return err
		}
		if ok {
			query = query.Where("evaluations."+field+" = ?", v)
		}
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("evaluations.evaluation_date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("evaluations.evaluation_date <= ?", to)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	rows := []evaluationRow{}
	if err := query.Order("evaluations.evaluation_date desc, evaluations.id desc").
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

func GetEvaluation(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	var row evaluationRow
	res := evaluationQuery(database.Database.Db).Where("evaluations.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound("評価が見つかりません")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", row)
}

// evaluationParents loads the student and checks the coach exists.
func evaluationParents(db *gorm.DB, studentID, coachID uint) (*models.Student, error) {
	var student models.Student
	if err := utils.FirstOrNotFound(db, &student, studentID, studentNotFound); err != nil {
		return nil, err
	}
	if err := utils.MustExist(db, &models.Coach{}, coachID, "コーチが見つかりません"); err != nil {
		return nil, err
	}
	return &student, nil
}

func CreateEvaluation(c *fiber.Ctx) error {
	reqData := c.Locals("validatedEvaluation").(*studentValidator.CreateEvaluationRequest)
	db := database.Database.Db

	student, err := evaluationParents(db, reqData.StudentID, reqData.CoachID)
	if err != nil {
		return err
	}
	var skill models.SkillItem
	if err := utils.FirstOrNotFound(db, &skill, reqData.SkillItemID, "スキル項目が見つかりません"); err != nil {
		return err
	}

	date := reqData.EvaluationDate
	if date == "" {
		date = utils.Today()
	}
	evaluation := models.Evaluation{
		StudentID:      reqData.StudentID,
		CoachID:        reqData.CoachID,
		SkillItemID:    reqData.SkillItemID,
		Rating:         reqData.Rating,
		EvaluationDate: date,
		Comment:        reqData.Comment,
	}
	if err := db.Create(&evaluation).Error; err != nil {
		return err
	}

	utils.Notify(utils.NotificationRequest{
		Type:          "evaluation_added",
		RecipientType: models.RecipientStudent,
		RecipientID:   student.ID,
		Data: map[string]interface{}{
			"student_name":  student.Name,
			"skill_name":    skill.Name,
			"rating":        evaluation.Rating,
			"evaluation_id": evaluation.ID,
		},
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "評価を登録しました", evaluation)
}

// BulkCreateEvaluations records several skill ratings for one student in a single insert.
func BulkCreateEvaluations(c *fiber.Ctx) error {
	reqData := c.Locals("validatedEvaluationBulk").(*studentValidator.BulkEvaluationRequest)
	db := database.Database.Db

	if _, err := evaluationParents(db, reqData.StudentID, reqData.CoachID); err != nil {
		return err
	}

	skillIDs := make([]uint, 0, len(reqData.Evaluations))
	for _, e := range reqData.Evaluations {
		skillIDs = append(skillIDs, e.SkillItemID)
	}
	var found []uint
	if err := db.Model(&models.SkillItem{}).Where("id IN ?", skillIDs).Pluck("id", &found).Error; err != nil {
		return err
	}
	known := make(map[uint]bool, len(found))
	for _, id := range found {
		known[id] = true
	}

	date := reqData.EvaluationDate
	if date == "" {
		date = utils.Today()
	}
	evaluations := make([]models.Evaluation, 0, len(reqData.Evaluations))
	for _, e := range reqData.Evaluations {
		if !known[e.SkillItemID] {
			return utils.ErrNotFound("スキル項目が見つかりません")
		}
		evaluations = append(evaluations, models.Evaluation{
			StudentID:      reqData.StudentID,
			CoachID:        reqData.CoachID,
			SkillItemID:    e.SkillItemID,
			Rating:         e.Rating,
			EvaluationDate: date,
			Comment:        e.Comment,
		})
	}

	if err := db.Create(&evaluations).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "評価を一括登録しました", evaluations)
}

func UpdateEvaluation(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedEvaluationUpdate").(*studentValidator.UpdateEvaluationRequest)
	db := database.Database.Db

	var evaluation models.Evaluation
	if err := utils.FirstOrNotFound(db, &evaluation, id, "評価が見つかりません"); err != nil {
		return err
	}

	updates := map[string]interface{}{"updated_at": utils.Now()}
	if reqData.Rating != nil {
		updates["rating"] = *reqData.Rating
	}
	if reqData.EvaluationDate != nil {
		updates["evaluation_date"] = *reqData.EvaluationDate
	}
	if reqData.Comment != nil {
		updates["comment"] = *reqData.Comment
	}

	if err := db.Model(&evaluation).Updates(updates).Error; err != nil {
		return err
	}
	if err := db.First(&evaluation, id).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "評価を更新しました", evaluation)
}

func DeleteEvaluation(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}

	res := database.Database.Db.Delete(&models.Evaluation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound("評価が見つかりません")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "評価を削除しました", nil)
}
