package studentController_test

import (
	"coachhub/models"
	studentRoutes "coachhub/routers/studentRoutes"
	"coachhub/testutil"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	return testutil.NewApp(
		studentRoutes.SetupStudentRoutes,
		studentRoutes.SetupEvaluationRoutes,
		studentRoutes.SetupBadgeRoutes,
		studentRoutes.SetupAttendanceRoutes,
	)
}

func TestCreateStudentTitleFollowsLocale(t *testing.T) {
	env := testutil.Setup(t)
	app := newApp()
	token := testutil.Token(t, env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach))

	body := map[string]interface{}{
		"name":       "佐藤 花子",
		"birth_date": "2016-05-05",
		"level":      3,
		"school":     models.SchoolOkegawa,
		"class_type": "regular",
	}
	resp := testutil.Do(t, app, http.MethodPost, "/api/students", body, token)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
	assert.Equal(t, "ファイター", resp.Data()["title"])
	assert.Equal(t, models.StudentStatusActive, resp.Data()["status"])
	assert.NotEmpty(t, resp.Data()["enrollment_date"])
	id := uint(resp.Data()["id"].(float64))

	resp = testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/api/students/%d", id), nil, token, "Accept-Language", "en-US,en;q=0.9")
	require.Equal(t, http.StatusOK, resp.Status)
	student := resp.Data()["student"].(map[string]interface{})
	assert.Equal(t, "Fighter", student["title"])
	assert.Len(t, resp.Data()["badge_progress"], 3)

	body["level"] = 7
	resp = testutil.Do(t, app, http.MethodPost, "/api/students", body, token)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestListStudentsFilters(t *testing.T) {
	env := testutil.Setup(t)
	app := newApp()
	token := testutil.Token(t, env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach))
	env.CreateStudent(t, "青木 一郎", 1)
	env.CreateStudent(t, "井上 二郎", 3)
	env.CreateStudent(t, "上田 三郎", 3)

	resp := testutil.Do(t, app, http.MethodGet, "/api/students?level=3", nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Len(t, resp.List(), 2)

	resp = testutil.Do(t, app, http.MethodGet, "/api/students?q=青木", nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Len(t, resp.List(), 1)

	resp = testutil.Do(t, app, http.MethodGet, "/api/students?limit=1&page=2", nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, resp.List(), 1)
	assert.Equal(t, float64(3), resp.Body["pagination"].(map[string]interface{})["total"])
}

func TestEvaluations(t *testing.T) {
	env := testutil.Setup(t)
	app := newApp()
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	token := testutil.Token(t, coach)
	student := env.CreateStudent(t, "佐藤 花子", 1)
	vision := env.CreateSkillItem(t, "サッカー", "パス", models.TrainingVision)
	rhythm := env.CreateSkillItem(t, "サッカー", "ステップ", models.TrainingRhythm)

	resp := testutil.Do(t, app, http.MethodPost, "/api/evaluations", map[string]interface{}{
		"student_id": student.ID, "coach_id": coach.ID, "skill_item_id": vision.ID, "rating": 4,
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.Status, "rating is 1-3")

	resp = testutil.Do(t, app, http.MethodPost, "/api/evaluations/bulk", map[string]interface{}{
		"student_id":      student.ID,
		"coach_id":        coach.ID,
		"evaluation_date": "2024-06-01",
		"evaluations": []map[string]interface{}{
			{"skill_item_id": vision.ID, "rating": 3},
			{"skill_item_id": rhythm.ID, "rating": 2},
		},
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
	assert.Len(t, resp.List(), 2)

	resp = testutil.Do(t, app, http.MethodPost, "/api/evaluations/bulk", map[string]interface{}{
		"student_id":  student.ID,
		"coach_id":    coach.ID,
		"evaluations": []map[string]interface{}{{"skill_item_id": 999, "rating": 1}},
	}, token)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/api/evaluations?student_id=%d", student.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Len(t, resp.List(), 2)
	row := resp.List()[0].(map[string]interface{})
	assert.Equal(t, "山田コーチ", row["coach_name"])
	assert.NotEmpty(t, row["skill_name"])
	assert.NotEmpty(t, row["training_type"])
}

func TestBadgesAndProgress(t *testing.T) {
	env := testutil.Setup(t)
	app := newApp()
	token := testutil.Token(t, env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach))
	student := env.CreateStudent(t, "佐藤 花子", 3)

	for i := 0; i < 2; i++ {
		resp := testutil.Do(t, app, http.MethodPost, "/api/badges", map[string]interface{}{
			"student_id": student.ID, "sport": "サッカー", "category": models.TrainingVision,
		}, token)
		require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
		assert.Equal(t, models.BadgeShield, resp.Data()["badge_type"], "tier follows level")
	}

	resp := testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/api/badges/progress/%d", student.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	categories := resp.Data()["categories"].([]interface{})
	require.Len(t, categories, 3)
	first := categories[0].(map[string]interface{})
	assert.Equal(t, models.TrainingVision, first["category"])
	assert.Equal(t, float64(2), first["earned"])
	assert.Equal(t, float64(5), first["required"])
	assert.Equal(t, false, first["completed"])

	var notes int64
	env.DB.Model(&models.Notification{}).Where("type = ?", "badge_earned").Count(&notes)
	assert.Equal(t, int64(2), notes)
}

func TestAttendance(t *testing.T) {
	env := testutil.Setup(t)
	app := newApp()
	token := testutil.Token(t, env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach))
	a := env.CreateStudent(t, "青木 一郎", 1)
	b := env.CreateStudent(t, "井上 二郎", 1)

	resp := testutil.Do(t, app, http.MethodPost, "/api/attendance", map[string]interface{}{
		"student_id": a.ID, "lesson_date": "2024-06-01", "status": models.AttendancePresent,
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))

	resp = testutil.Do(t, app, http.MethodPost, "/api/attendance", map[string]interface{}{
		"student_id": a.ID, "lesson_date": "2024-06-01", "status": models.AttendanceAbsent,
	}, token)
	assert.Equal(t, http.StatusConflict, resp.Status)

	resp = testutil.Do(t, app, http.MethodPost, "/api/attendance/bulk", map[string]interface{}{
		"lesson_date": "2024-06-01",
		"records": []map[string]interface{}{
			{"student_id": a.ID, "status": models.AttendanceLate},
			{"student_id": b.ID, "status": models.AttendanceAbsent},
		},
	}, token)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))

	var rows []models.Attendance
	require.NoError(t, env.DB.Order("student_id").Find(&rows).Error)
	require.Len(t, rows, 2, "bulk overwrites the existing row")
	assert.Equal(t, models.AttendanceLate, rows[0].Status)
	assert.Equal(t, models.AttendanceAbsent, rows[1].Status)

	resp = testutil.Do(t, app, http.MethodGet, "/api/attendance?status=late", nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, resp.List(), 1)
}

func TestDeleteStudentCascades(t *testing.T) {
	env := testutil.Setup(t)
	app := newApp()
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	student := env.CreateStudent(t, "佐藤 花子", 1)
	require.NoError(t, env.DB.Create(&models.Badge{StudentID: student.ID, Sport: "サッカー", Category: models.TrainingVision, BadgeType: models.BadgeStar}).Error)
	require.NoError(t, env.DB.Create(&models.Attendance{StudentID: student.ID, LessonDate: "2024-06-01", Status: models.AttendancePresent}).Error)
	sheet := models.MissionSheet{StudentID: student.ID, CoachID: coach.ID, LessonDate: "2024-06-01", Status: models.MissionDraft}
	require.NoError(t, env.DB.Create(&sheet).Error)
	require.NoError(t, env.DB.Create(&models.MissionItem{MissionSheetID: sheet.ID, TargetDescription: "x"}).Error)

	resp := testutil.Do(t, app, http.MethodDelete, fmt.Sprintf("/api/students/%d", student.ID), nil, testutil.Token(t, coach))
	require.Equal(t, http.StatusOK, resp.Status)

	for _, model := range []interface{}{&models.Badge{}, &models.Attendance{}, &models.MissionSheet{}, &models.MissionItem{}, &models.Student{}} {
		var n int64
		env.DB.Model(model).Count(&n)
		assert.Zero(t, n, "%T", model)
	}
}
