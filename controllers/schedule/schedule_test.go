package scheduleController_test

import (
	"coachhub/models"
	scheduleRoutes "coachhub/routers/scheduleRoutes"
	"coachhub/testutil"
	scheduleValidator "coachhub/validators/schedule"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShiftTimeRange(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(scheduleRoutes.SetupScheduleRoutes)
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	token := testutil.Token(t, coach)

	cases := []struct {
		name       string
		start, end string
		want       int
	}{
		{"start after end", "15:00", "14:00", http.StatusBadRequest},
		{"equal times", "15:00", "15:00", http.StatusBadRequest},
		{"valid range", "14:00", "15:30", http.StatusCreated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := testutil.Do(t, app, http.MethodPost, "/api/shifts", map[string]interface{}{
				"coach_id":   coach.ID,
				"date":       "2024-06-01",
				"start_time": tc.start,
				"end_time":   tc.end,
				"school":     models.SchoolAgeo,
			}, token)
			assert.Equal(t, tc.want, resp.Status, string(resp.Raw))
			if tc.want == http.StatusBadRequest {
				assert.Equal(t, scheduleValidator.ErrTimeRange, resp.Body["error"])
			}
		})
	}

	var count int64
	env.DB.Model(&models.CoachShift{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var notes []models.Notification
	require.NoError(t, env.DB.Where("type = ?", "shift_assigned").Find(&notes).Error)
	assert.Len(t, notes, 1)
}

func TestUpdateShiftMergesStoredTimes(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(scheduleRoutes.SetupScheduleRoutes)
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	token := testutil.Token(t, coach)

	shift := models.CoachShift{CoachID: coach.ID, Date: "2024-06-01", StartTime: "10:00", EndTime: "12:00", School: models.SchoolAgeo}
	require.NoError(t, env.DB.Create(&shift).Error)

	resp := testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/shifts/%d", shift.ID),
		map[string]interface{}{"start_time": "12:30"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/shifts/%d", shift.ID),
		map[string]interface{}{"start_time": "11:00"}, token)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))
	assert.Equal(t, "11:00", resp.Data()["start_time"])
}

func TestLessonCoachAssignment(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(scheduleRoutes.SetupScheduleRoutes)
	a := env.CreateCoach(t, "コーチA", "a@example.com", models.CoachRoleCoach)
	b := env.CreateCoach(t, "コーチB", "b@example.com", models.CoachRoleCoach)
	token := testutil.Token(t, a)

	resp := testutil.Do(t, app, http.MethodPost, "/api/lessons", map[string]interface{}{
		"date":       "2024-06-01",
		"start_time": "16:00",
		"end_time":   "17:00",
		"school":     models.SchoolOkegawa,
		"title":      "キッズ英語サッカー",
		"coach_ids":  []uint{a.ID},
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
	lessonID := uint(resp.Data()["id"].(float64))
	assert.Len(t, resp.Data()["coaches"], 1)

	resp = testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/lessons/%d", lessonID),
		map[string]interface{}{"coach_ids": []uint{a.ID, b.ID}}, token)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))
	assert.Len(t, resp.Data()["coaches"], 2)

	resp = testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/api/lessons?coach_id=%d", b.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, resp.List(), 1)

	var notes []models.Notification
	require.NoError(t, env.DB.Where("type = ?", "lesson_assigned").Order("id").Find(&notes).Error)
	require.Len(t, notes, 2, "each coach is notified once")
	assert.Equal(t, a.ID, notes[0].RecipientID)
	assert.Equal(t, b.ID, notes[1].RecipientID)

	resp = testutil.Do(t, app, http.MethodPost, "/api/lessons", map[string]interface{}{
		"date":       "2024-06-01",
		"start_time": "16:00",
		"end_time":   "17:00",
		"school":     models.SchoolOkegawa,
		"coach_ids":  []uint{999},
	}, token)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}
