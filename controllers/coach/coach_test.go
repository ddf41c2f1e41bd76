package coachController_test

import (
	"coachhub/models"
	coachRoutes "coachhub/routers/coachRoutes"
	"coachhub/testutil"
	"coachhub/utils"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	return testutil.NewApp(coachRoutes.SetupCoachRoutes, coachRoutes.SetupCertificationRoutes)
}

func TestCreateCoach(t *testing.T) {
	env := testutil.Setup(t)
	app := newApp()
	admin := env.CreateCoach(t, "管理者", "admin@example.com", models.CoachRoleAdmin)
	token := testutil.Token(t, admin)

	resp := testutil.Do(t, app, http.MethodPost, "/api/coaches", map[string]interface{}{
		"name":     "鈴木コーチ",
		"email":    " Suzuki@Example.com ",
		"role":     models.CoachRoleCoach,
		"password": "secret-pass",
		"schools":  []string{models.SchoolAgeo, models.SchoolOkegawa},
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
	assert.Equal(t, "suzuki@example.com", resp.Data()["email"])
	assert.Equal(t, models.CoachStatusActive, resp.Data()["status"])
	assert.NotContains(t, resp.Data(), "password_hash")
	assert.Len(t, resp.Data()["schools"], 2)

	resp = testutil.Do(t, app, http.MethodPost, "/api/coaches", map[string]interface{}{
		"name":  "別の鈴木",
		"email": "suzuki@example.com",
		"role":  models.CoachRoleCoach,
	}, token)
	assert.Equal(t, http.StatusConflict, resp.Status)

	resp = testutil.Do(t, app, http.MethodPost, "/api/coaches", map[string]interface{}{"name": "名前だけ"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Contains(t, resp.Body["error"], "email")
	assert.Contains(t, resp.Body["error"], "role")
}

func TestCoachPermissions(t *testing.T) {
	env := testutil.Setup(t)
	app := newApp()
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	other := env.CreateCoach(t, "田中コーチ", "tanaka@example.com", models.CoachRoleCoach)
	token := testutil.Token(t, coach)

	resp := testutil.Do(t, app, http.MethodPost, "/api/coaches", map[string]interface{}{
		"name": "x", "email": "x@example.com", "role": models.CoachRoleCoach,
	}, token)
	assert.Equal(t, http.StatusForbidden, resp.Status)

	resp = testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/coaches/%d", other.ID), map[string]interface{}{"phone": "090"}, token)
	assert.Equal(t, http.StatusForbidden, resp.Status)

	resp = testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/coaches/%d", coach.ID), map[string]interface{}{"role": models.CoachRoleAdmin}, token)
	assert.Equal(t, http.StatusForbidden, resp.Status)

	resp = testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/coaches/%d", coach.ID), map[string]interface{}{"phone": "090-1111-2222"}, token)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))
	assert.Equal(t, "090-1111-2222", resp.Data()["phone"])

	resp = testutil.Do(t, app, http.MethodDelete, fmt.Sprintf("/api/coaches/%d", other.ID), nil, token)
	assert.Equal(t, http.StatusForbidden, resp.Status)
}

func TestListCoachesFilters(t *testing.T) {
	env := testutil.Setup(t)
	app := newApp()
	admin := env.CreateCoach(t, "管理者", "admin@example.com", models.CoachRoleAdmin)
	env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	inactive := env.CreateCoach(t, "田中コーチ", "tanaka@example.com", models.CoachRoleCoach)
	require.NoError(t, env.DB.Model(inactive).Update("status", models.CoachStatusInactive).Error)
	token := testutil.Token(t, admin)

	resp := testutil.Do(t, app, http.MethodGet, "/api/coaches?role=coach&status=active", nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Len(t, resp.List(), 1)
	assert.Equal(t, "山田コーチ", resp.List()[0].(map[string]interface{})["name"])

	pagination := resp.Body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])
}

func TestCertificationStatusOnWrite(t *testing.T) {
	env := testutil.Setup(t)
	app := newApp()
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	token := testutil.Token(t, coach)
	now := utils.Now()
	date := func(days int) string { return now.AddDate(0, 0, days).Format(models.DateLayout) }

	cases := []struct {
		name   string
		expiry interface{}
		want   string
	}{
		{"no expiry", nil, models.CertStatusValid},
		{"far future", date(120), models.CertStatusValid},
		{"within window", date(10), models.CertStatusExpiringSoon},
		{"in the past", date(-1), models.CertStatusExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := map[string]interface{}{
				"coach_id":    coach.ID,
				"name":        "JFA C級",
				"issued_date": "2020-04-01",
			}
			if tc.expiry != nil {
				body["expiry_date"] = tc.expiry
			}
			resp := testutil.Do(t, app, http.MethodPost, "/api/certifications", body, token)
			require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
			assert.Equal(t, tc.want, resp.Data()["status"])
		})
	}

	t.Run("update recomputes and empty expiry clears", func(t *testing.T) {
		cert := models.Certification{CoachID: coach.ID, Name: "救命講習", IssuedDate: "2020-01-01", Status: models.CertStatusValid}
		require.NoError(t, env.DB.Create(&cert).Error)

		resp := testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/certifications/%d", cert.ID),
			map[string]interface{}{"expiry_date": date(-5)}, token)
		require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))
		assert.Equal(t, models.CertStatusExpired, resp.Data()["status"])

		resp = testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/certifications/%d", cert.ID),
			map[string]interface{}{"expiry_date": ""}, token)
		require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))
		assert.Equal(t, models.CertStatusValid, resp.Data()["status"])
		assert.Nil(t, resp.Data()["expiry_date"])
	})

	t.Run("missing coach", func(t *testing.T) {
		resp := testutil.Do(t, app, http.MethodPost, "/api/certifications", map[string]interface{}{
			"coach_id": 999, "name": "x", "issued_date": "2020-04-01",
		}, token)
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})
}

func TestDeleteCoachCascades(t *testing.T) {
	env := testutil.Setup(t)
	app := newApp()
	admin := env.CreateCoach(t, "管理者", "admin@example.com", models.CoachRoleAdmin)
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	require.NoError(t, env.DB.Create(&models.Certification{CoachID: coach.ID, Name: "x", IssuedDate: "2020-01-01", Status: models.CertStatusValid}).Error)
	require.NoError(t, env.DB.Create(&models.CoachShift{CoachID: coach.ID, Date: "2024-06-01", StartTime: "10:00", EndTime: "11:00", School: models.SchoolAgeo}).Error)

	resp := testutil.Do(t, app, http.MethodDelete, fmt.Sprintf("/api/coaches/%d", coach.ID), nil, testutil.Token(t, admin))
	require.Equal(t, http.StatusOK, resp.Status)

	var certs, shifts int64
	env.DB.Model(&models.Certification{}).Where("coach_id = ?", coach.ID).Count(&certs)
	env.DB.Model(&models.CoachShift{}).Where("coach_id = ?", coach.ID).Count(&shifts)
	assert.Zero(t, certs)
	assert.Zero(t, shifts)

	// the email can be reused after a delete
	env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
}

func TestRefreshCertificationStatuses(t *testing.T) {
	env := testutil.Setup(t)
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	now := utils.Now()
	date := func(days int) *string {
		s := now.AddDate(0, 0, days).Format(models.DateLayout)
		return &s
	}

	stale := []models.Certification{
		{CoachID: coach.ID, Name: "JFA C級", IssuedDate: "2020-04-01", ExpiryDate: date(5), Status: models.CertStatusValid},
		{CoachID: coach.ID, Name: "救命講習", IssuedDate: "2020-04-01", ExpiryDate: date(-2), Status: models.CertStatusExpiringSoon},
		{CoachID: coach.ID, Name: "審判資格", IssuedDate: "2020-04-01", ExpiryDate: date(200), Status: models.CertStatusValid},
		{CoachID: coach.ID, Name: "無期限", IssuedDate: "2020-04-01", Status: models.CertStatusValid},
	}
	require.NoError(t, env.DB.Create(&stale).Error)

	changed, err := utils.RefreshCertificationStatuses(now)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	var got models.Certification
	require.NoError(t, env.DB.First(&got, stale[0].ID).Error)
	assert.Equal(t, models.CertStatusExpiringSoon, got.Status)
	got = models.Certification{}
	require.NoError(t, env.DB.First(&got, stale[1].ID).Error)
	assert.Equal(t, models.CertStatusExpired, got.Status)

	var types []string
	require.NoError(t, env.DB.Model(&models.Notification{}).
		Where("recipient_type = ? AND recipient_id = ?", models.RecipientCoach, coach.ID).
		Order("type asc").Pluck("type", &types).Error)
	assert.Equal(t, []string{"certification_expired", "certification_expiring"}, types)

	changed, err = utils.RefreshCertificationStatuses(now)
	require.NoError(t, err)
	assert.Zero(t, changed)
}
