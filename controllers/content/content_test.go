package contentController_test

import (
	"bytes"
	"coachhub/models"
	contentRoutes "coachhub/routers/contentRoutes"
	"coachhub/testutil"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoLifecycle(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(contentRoutes.SetupContentRoutes)
	token := testutil.Token(t, env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach))

	resp := testutil.Do(t, app, http.MethodPost, "/api/videos", map[string]interface{}{
		"title":         "パス練習",
		"url":           "https://videos.example.com/pass.mp4",
		"category":      "drill",
		"training_type": models.TrainingVision,
		"level":         2,
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
	assert.Equal(t, true, resp.Data()["is_published"], "published by default")
	assert.Equal(t, float64(0), resp.Data()["view_count"])
	id := uint(resp.Data()["id"].(float64))

	resp = testutil.Do(t, app, http.MethodPost, "/api/videos", map[string]interface{}{
		"title": "下書き", "url": "https://videos.example.com/draft.mp4", "category": "drill", "is_published": false,
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, false, resp.Data()["is_published"])

	for i := 1; i <= 3; i++ {
		resp = testutil.Do(t, app, http.MethodPost, fmt.Sprintf("/api/videos/%d/view", id), nil, token)
		require.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, float64(i), resp.Data()["view_count"])
	}

	resp = testutil.Do(t, app, http.MethodGet, "/api/videos?is_published=true&training_type=vision", nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Len(t, resp.List(), 1)
	assert.Equal(t, float64(3), resp.List()[0].(map[string]interface{})["view_count"])

	resp = testutil.Do(t, app, http.MethodPatch, fmt.Sprintf("/api/videos/%d", id), map[string]interface{}{"title": "  パス練習2 "}, token)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "パス練習2", resp.Data()["title"])
	assert.Equal(t, float64(3), resp.Data()["view_count"])

	resp = testutil.Do(t, app, http.MethodDelete, fmt.Sprintf("/api/videos/%d", id), nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	var stats int64
	env.DB.Model(&models.VideoStats{}).Where("video_id = ?", id).Count(&stats)
	assert.Zero(t, stats)

	resp = testutil.Do(t, app, http.MethodPost, fmt.Sprintf("/api/videos/%d/view", id), nil, token)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestVideoViewRecreatesMissingStats(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(contentRoutes.SetupContentRoutes)
	token := testutil.Token(t, env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach))

	video := models.Video{Title: "x", URL: "https://videos.example.com/x.mp4", Category: "drill", IsPublished: true}
	require.NoError(t, env.DB.Create(&video).Error)

	resp := testutil.Do(t, app, http.MethodPost, fmt.Sprintf("/api/videos/%d/view", video.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))
	assert.Equal(t, float64(1), resp.Data()["view_count"])
}

func TestThumbnailRejectsBadUploads(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(contentRoutes.SetupContentRoutes)
	token := testutil.Token(t, env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach))

	video := models.Video{Title: "x", URL: "https://videos.example.com/x.mp4", Category: "drill", IsPublished: true}
	require.NoError(t, env.DB.Create(&video).Error)
	path := fmt.Sprintf("/api/videos/%d/thumbnail", video.ID)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("thumbnail", "thumb.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not an image"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp := testutil.Do(t, app, http.MethodPost, path, buf.Bytes(), token, "Content-Type", w.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "画像形式が不正です", resp.Body["error"])

	var empty bytes.Buffer
	ew := multipart.NewWriter(&empty)
	require.NoError(t, ew.WriteField("note", "no file"))
	require.NoError(t, ew.Close())
	resp = testutil.Do(t, app, http.MethodPost, path, empty.Bytes(), token, "Content-Type", ew.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestPDFDownloads(t *testing.T) {
	env := testutil.Setup(t)
	app := testutil.NewApp(contentRoutes.SetupContentRoutes)
	token := testutil.Token(t, env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach))

	resp := testutil.Do(t, app, http.MethodPost, "/api/pdfs", map[string]interface{}{
		"title": "練習メニュー", "file_url": "https://files.example.com/menu.pdf", "category": "menu", "page_count": 4,
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
	assert.Equal(t, true, resp.Data()["is_downloadable"])
	open := uint(resp.Data()["id"].(float64))

	resp = testutil.Do(t, app, http.MethodPost, "/api/pdfs", map[string]interface{}{
		"title": "社外秘", "file_url": "https://files.example.com/secret.pdf", "category": "internal", "is_downloadable": false,
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status)
	locked := uint(resp.Data()["id"].(float64))

	resp = testutil.Do(t, app, http.MethodPost, fmt.Sprintf("/api/pdfs/%d/download", open), nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "https://files.example.com/menu.pdf", resp.Data()["file_url"])
	assert.Equal(t, float64(1), resp.Data()["download_count"])
	assert.Equal(t, float64(0), resp.Data()["view_count"])

	resp = testutil.Do(t, app, http.MethodPost, fmt.Sprintf("/api/pdfs/%d/view", open), nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, float64(1), resp.Data()["view_count"])
	assert.Equal(t, float64(1), resp.Data()["download_count"])

	resp = testutil.Do(t, app, http.MethodPost, fmt.Sprintf("/api/pdfs/%d/download", locked), nil, token)
	assert.Equal(t, http.StatusForbidden, resp.Status)
	resp = testutil.Do(t, app, http.MethodPost, fmt.Sprintf("/api/pdfs/%d/view", locked), nil, token)
	assert.Equal(t, http.StatusOK, resp.Status, "viewing is allowed")

	resp = testutil.Do(t, app, http.MethodGet, "/api/pdfs?is_downloadable=false", nil, token)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Len(t, resp.List(), 1)
	assert.Equal(t, "社外秘", resp.List()[0].(map[string]interface{})["title"])

	resp = testutil.Do(t, app, http.MethodGet, "/api/pdfs?is_downloadable=maybe", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = testutil.Do(t, app, http.MethodGet, "/api/pdfs/999", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}
