package missionController_test

import (
	"coachhub/models"
	missionRoutes "coachhub/routers/missionRoutes"
	"coachhub/testutil"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissionSheetLifecycle(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(missionRoutes.SetupMissionRoutes)
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	student := env.CreateStudent(t, "佐藤 花子", 2)
	token := testutil.Token(t, coach)

	t.Run("empty mission items rejected", func(t *testing.T) {
		resp := testutil.Do(t, app, http.MethodPost, "/api/mission-sheets", map[string]interface{}{
			"student_id":    student.ID,
			"coach_id":      coach.ID,
			"lesson_date":   "2024-06-01",
			"mission_items": []interface{}{},
		}, token)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, "ミッション項目が設定されていません", resp.Body["error"])

		var count int64
		env.DB.Model(&models.MissionSheet{}).Count(&count)
		assert.Zero(t, count, "no sheet is stored")
	})

	resp := testutil.Do(t, app, http.MethodPost, "/api/mission-sheets", map[string]interface{}{
		"student_id":  student.ID,
		"coach_id":    coach.ID,
		"lesson_date": "2024-06-01",
		"mission_items": []map[string]interface{}{
			{"target_description": "ボールを10回つく"},
		},
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
	sheet := resp.Data()
	assert.Equal(t, models.MissionDraft, sheet["status"])
	items := sheet["mission_items"].([]interface{})
	require.Len(t, items, 1)
	itemID := uint(items[0].(map[string]interface{})["id"].(float64))
	sheetID := uint(sheet["id"].(float64))

	resp = testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/mission-items/%d", itemID),
		map[string]interface{}{"completed": true}, token)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))
	rolled := resp.Data()["mission_sheet"].(map[string]interface{})
	assert.Equal(t, models.MissionCompleted, rolled["status"])
	assert.NotNil(t, rolled["completed_at"])

	var stored models.MissionSheet
	require.NoError(t, env.DB.First(&stored, sheetID).Error)
	assert.Equal(t, models.MissionCompleted, stored.Status)

	var notes []models.Notification
	require.NoError(t, env.DB.Where("type = ?", "mission_completed").Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, coach.ID, notes[0].RecipientID)

	t.Run("adding an open item moves the sheet back to in_progress", func(t *testing.T) {
		resp := testutil.Do(t, app, http.MethodPost, fmt.Sprintf("/api/mission-sheets/%d/items", sheetID),
			map[string]interface{}{"target_description": "リズムに合わせてジャンプ"}, token)
		require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
		rolled := resp.Data()["mission_sheet"].(map[string]interface{})
		assert.Equal(t, models.MissionInProgress, rolled["status"])
		assert.Nil(t, rolled["completed_at"])
	})

	t.Run("uncompleting the last done item returns to draft", func(t *testing.T) {
		resp := testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/mission-items/%d", itemID),
			map[string]interface{}{"completed": false}, token)
		require.Equal(t, http.StatusOK, resp.Status)
		rolled := resp.Data()["mission_sheet"].(map[string]interface{})
		assert.Equal(t, models.MissionDraft, rolled["status"])
	})

	t.Run("delete removes items", func(t *testing.T) {
		resp := testutil.Do(t, app, http.MethodDelete, fmt.Sprintf("/api/mission-sheets/%d", sheetID), nil, token)
		require.Equal(t, http.StatusOK, resp.Status)

		var count int64
		env.DB.Model(&models.MissionItem{}).Where("mission_sheet_id = ?", sheetID).Count(&count)
		assert.Zero(t, count)
	})
}

func TestCreateMissionSheetMissingStudent(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(missionRoutes.SetupMissionRoutes)
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)

	resp := testutil.Do(t, app, http.MethodPost, "/api/mission-sheets", map[string]interface{}{
		"student_id":    999,
		"coach_id":      coach.ID,
		"lesson_date":   "2024-06-01",
		"mission_items": []map[string]interface{}{{"target_description": "x"}},
	}, testutil.Token(t, coach))
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestMissionRoutesRequireAuth(t *testing.T) {
	testutil.Setup(t)
	app := testutil.NewApp(missionRoutes.SetupMissionRoutes)

	resp := testutil.Do(t, app, http.MethodGet, "/api/mission-sheets", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestCreateMissionSheetRemovesSheetWhenItemsFail(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(missionRoutes.SetupMissionRoutes)
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	student := env.CreateStudent(t, "佐藤 花子", 2)
	require.NoError(t, env.DB.Migrator().DropTable(&models.MissionItem{}))

	resp := testutil.Do(t, app, http.MethodPost, "/api/mission-sheets", map[string]interface{}{
		"student_id":    student.ID,
		"coach_id":      coach.ID,
		"lesson_date":   "2024-06-01",
		"mission_items": []map[string]interface{}{{"target_description": "ボールを10回つく"}},
	}, testutil.Token(t, coach))
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Equal(t, "ミッション項目の登録に失敗しました", resp.Body["error"])

	var count int64
	require.NoError(t, env.DB.Model(&models.MissionSheet{}).Count(&count).Error)
	assert.Zero(t, count, "no orphan sheet")
}

func TestUpdateMissionItemTrimsDescription(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(missionRoutes.SetupMissionRoutes)
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	student := env.CreateStudent(t, "佐藤 花子", 2)
	token := testutil.Token(t, coach)

	resp := testutil.Do(t, app, http.MethodPost, "/api/mission-sheets", map[string]interface{}{
		"student_id":    student.ID,
		"coach_id":      coach.ID,
		"lesson_date":   "2024-06-01",
		"mission_items": []map[string]interface{}{{"target_description": "ボールを10回つく"}},
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
	item := resp.Data()["mission_items"].([]interface{})[0].(map[string]interface{})
	itemID := uint(item["id"].(float64))
	path := fmt.Sprintf("/api/mission-items/%d", itemID)

	resp = testutil.Do(t, app, http.MethodPatch, path, map[string]interface{}{"target_description": "   "}, token)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = testutil.Do(t, app, http.MethodPatch, path, map[string]interface{}{"target_description": "  片足で5秒立つ "}, token)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))

	var stored models.MissionItem
	require.NoError(t, env.DB.First(&stored, itemID).Error)
	assert.Equal(t, "片足で5秒立つ", stored.TargetDescription)
}
