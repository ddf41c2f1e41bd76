package reportController_test

import (
	"coachhub/models"
	reportRoutes "coachhub/routers/reportRoutes"
	"coachhub/testutil"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedJune records a month of activity for a level 1 student enrolled in April 2024.
func seedJune(t *testing.T, env *testutil.Env) *models.Student {
	t.Helper()
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	student := env.CreateStudent(t, "佐藤 花子", 1)
	require.NoError(t, env.DB.Model(student).Update("guardian_email", "parent@example.com").Error)

	for date, status := range map[string]string{
		"2024-06-03": models.AttendancePresent,
		"2024-06-10": models.AttendanceLate,
		"2024-06-17": models.AttendanceAbsent,
		"2024-07-01": models.AttendancePresent,
	} {
		require.NoError(t, env.DB.Create(&models.Attendance{StudentID: student.ID, LessonDate: date, Status: status}).Error)
	}

	vision := env.CreateSkillItem(t, "サッカー", "パス", models.TrainingVision)
	rhythm := env.CreateSkillItem(t, "サッカー", "ステップ", models.TrainingRhythm)
	for _, e := range []models.Evaluation{
		{SkillItemID: vision.ID, Rating: 3, EvaluationDate: "2024-06-03"},
		{SkillItemID: vision.ID, Rating: 2, EvaluationDate: "2024-06-10"},
		{SkillItemID: rhythm.ID, Rating: 1, EvaluationDate: "2024-06-10"},
		{SkillItemID: rhythm.ID, Rating: 3, EvaluationDate: "2024-05-20"},
	} {
		e.StudentID, e.CoachID = student.ID, coach.ID
		require.NoError(t, env.DB.Create(&e).Error)
	}

	require.NoError(t, env.DB.Create(&models.Badge{StudentID: student.ID, Sport: "サッカー", Category: models.TrainingVision, BadgeType: models.BadgeStar, EarnedDate: "2024-06-05"}).Error)
	require.NoError(t, env.DB.Create(&models.Badge{StudentID: student.ID, Sport: "サッカー", Category: models.TrainingVision, BadgeType: models.BadgeStar, EarnedDate: "2024-05-01"}).Error)
	return student
}

func TestMonthlyReportAggregates(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(reportRoutes.SetupReportRoutes)
	student := seedJune(t, env)
	token := testutil.Token(t, env.CreateCoach(t, "管理者", "admin@example.com", models.CoachRoleAdmin))

	resp := testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/api/reports/monthly?student_id=%d&year=2024&month=6", student.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))
	data := resp.Data()
	assert.Equal(t, "2024-06-01", data["period_start"])
	assert.Equal(t, "2024-07-01", data["period_end"])
	assert.Equal(t, float64(3), data["total_lessons"])
	assert.Equal(t, float64(2), data["present_count"], "late counts as present")
	assert.Equal(t, 0.667, data["attendance_rate"])
	assert.Equal(t, float64(3), data["evaluation_count"])
	skills := data["skill_averages"].(map[string]interface{})
	assert.Equal(t, 2.5, skills["vision"])
	assert.Equal(t, float64(1), skills["rhythm"])
	assert.Equal(t, float64(0), skills["coordination"])
	assert.Equal(t, float64(1), data["badges_earned"])
	assert.Equal(t, float64(1), data["expected_level"])
	assert.Equal(t, true, data["on_track"])

	progress := data["badge_progress"].([]interface{})
	require.Len(t, progress, 3)
	vision := progress[0].(map[string]interface{})
	assert.Equal(t, float64(2), vision["earned"])
	assert.Equal(t, float64(3), vision["required"])
	assert.Equal(t, 0.67, vision["progress"])

	var stored int64
	env.DB.Model(&models.MonthlyReport{}).Count(&stored)
	assert.Zero(t, stored, "preview is not stored")

	resp = testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/api/reports/monthly?student_id=%d&year=2024&month=13", student.ID), nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	resp = testutil.Do(t, app, http.MethodGet, "/api/reports/monthly?student_id=999&year=2024&month=6", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestEmptyMonth(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(reportRoutes.SetupReportRoutes)
	student := env.CreateStudent(t, "佐藤 花子", 2)
	token := testutil.Token(t, env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach))

	resp := testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/api/reports/monthly?student_id=%d&year=2024&month=1", student.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))
	assert.Equal(t, float64(0), resp.Data()["attendance_rate"])
	assert.Equal(t, float64(0), resp.Data()["total_lessons"])
}

func TestGenerateFinalizeLifecycle(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(reportRoutes.SetupReportRoutes)
	student := seedJune(t, env)
	token := testutil.Token(t, env.CreateCoach(t, "管理者", "admin@example.com", models.CoachRoleAdmin))
	body := map[string]interface{}{"student_id": student.ID, "year": 2024, "month": 6}

	resp := testutil.Do(t, app, http.MethodPost, "/api/reports/monthly/generate", body, token)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
	report := resp.Data()["report"].(map[string]interface{})
	assert.Equal(t, 0.667, report["attendance_rate"])
	assert.Equal(t, 2.5, report["vision_avg"])
	assert.NotNil(t, report["generated_at"])
	id := uint(report["id"].(float64))

	resp = testutil.Do(t, app, http.MethodPost, "/api/reports/monthly/generate", body, token)
	require.Equal(t, http.StatusOK, resp.Status, "regenerating updates in place")
	assert.Equal(t, float64(id), resp.Data()["report"].(map[string]interface{})["id"])

	resp = testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/reports/%d", id), map[string]interface{}{"coach_comment": "よく頑張りました"}, token)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "よく頑張りました", resp.Data()["coach_comment"])

	resp = testutil.Do(t, app, http.MethodPost, fmt.Sprintf("/api/reports/%d/finalize", id), nil, token)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))
	assert.Equal(t, true, resp.Data()["is_finalized"])
	assert.NotNil(t, resp.Data()["finalized_at"])

	var n models.Notification
	require.NoError(t, env.DB.Where("type = ?", "report_published").First(&n).Error)
	assert.Equal(t, student.ID, n.RecipientID)
	assert.Contains(t, n.Message, "66.7%")
	mails := env.Mail.Messages()
	require.Len(t, mails, 1)
	assert.Equal(t, []string{"parent@example.com"}, mails[0].To)

	resp = testutil.Do(t, app, http.MethodPost, fmt.Sprintf("/api/reports/%d/finalize", id), nil, token)
	assert.Equal(t, http.StatusConflict, resp.Status)
	resp = testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/reports/%d", id), map[string]interface{}{"coach_comment": "x"}, token)
	assert.Equal(t, http.StatusConflict, resp.Status)
	resp = testutil.Do(t, app, http.MethodPost, "/api/reports/monthly/generate", body, token)
	assert.Equal(t, http.StatusConflict, resp.Status)

	resp = testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/api/reports?student_id=%d&is_finalized=true", student.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, resp.List(), 1)

	resp = testutil.Do(t, app, http.MethodDelete, fmt.Sprintf("/api/reports/%d", id), nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	resp = testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/api/reports/%d", id), nil, token)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}
