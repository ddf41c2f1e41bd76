package lineController_test

import (
	"coachhub/config"
	lineController "coachhub/controllers/line"
	"coachhub/models"
	lineRoutes "coachhub/routers/lineRoutes"
	"coachhub/testutil"
	"coachhub/utils"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "line-channel-secret"

type recordingHandler struct {
	events []lineController.Event
}

func (r *recordingHandler) HandleEvent(_ context.Context, ev lineController.Event) error {
	r.events = append(r.events, ev)
	return nil
}

func useHandler(t *testing.T, h lineController.EventHandler) {
	t.Helper()
	prev := lineController.Handler
	lineController.Handler = h
	t.Cleanup(func() { lineController.Handler = prev })
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	testutil.Setup(t)
	config.AppConfig.LineChannelSecret = secret
	app := testutil.NewApp(lineRoutes.SetupLineRoutes)
	rec := &recordingHandler{}
	useHandler(t, rec)

	body := `{"events":[{"type":"follow","source":{"type":"user","userId":"U1"}}]}`

	resp := testutil.Do(t, app, http.MethodPost, "/api/line/webhook", body, "",
		"X-Line-Signature", utils.LineSignature("some-other-secret", []byte(body)))
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "署名が不正です", resp.Body["error"])

	resp = testutil.Do(t, app, http.MethodPost, "/api/line/webhook", body, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Status, "missing signature")

	assert.Empty(t, rec.events, "handler never invoked")
}

func TestWebhookDispatchesVerifiedEvents(t *testing.T) {
	testutil.Setup(t)
	config.AppConfig.LineChannelSecret = secret
	app := testutil.NewApp(lineRoutes.SetupLineRoutes)
	rec := &recordingHandler{}
	useHandler(t, rec)

	body := `{"destination":"Ux","events":[` +
		`{"type":"follow","replyToken":"r1","source":{"type":"user","userId":"U1"}},` +
		`{"type":"message","replyToken":"r2","source":{"type":"user","userId":"U1"},"message":{"id":"1","type":"text","text":"hi"}}]}`

	resp := testutil.Do(t, app, http.MethodPost, "/api/line/webhook", body, "",
		"X-Line-Signature", utils.LineSignature(secret, []byte(body)))
	require.Equal(t, http.StatusOK, resp.Status)
	require.Len(t, rec.events, 2)
	assert.Equal(t, "follow", rec.events[0].Type)
	assert.Equal(t, "hi", rec.events[1].Message.Text)

	bad := `{"events":`
	resp = testutil.Do(t, app, http.MethodPost, "/api/line/webhook", bad, "",
		"X-Line-Signature", utils.LineSignature(secret, []byte(bad)))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

type failingHandler struct {
	err error
}

func (f failingHandler) HandleEvent(context.Context, lineController.Event) error {
	return f.err
}

func TestWebhookHandlerFailureIsGeneric500(t *testing.T) {
	testutil.Setup(t)
	config.AppConfig.LineChannelSecret = secret
	app := testutil.NewApp(lineRoutes.SetupLineRoutes)

	body := `{"events":[{"type":"follow","source":{"type":"user","userId":"U1"}}]}`
	for _, err := range []error{
		utils.ErrNotFound("コーチが見つかりません"),
		utils.ErrBadRequest("bad"),
		errors.New("db down"),
	} {
		useHandler(t, failingHandler{err: err})
		resp := testutil.Do(t, app, http.MethodPost, "/api/line/webhook", body, "",
			"X-Line-Signature", utils.LineSignature(secret, []byte(body)))
		assert.Equal(t, http.StatusInternalServerError, resp.Status, err.Error())
		assert.Equal(t, "イベント処理に失敗しました", resp.Body["error"])
	}
}

func TestDefaultHandlerFollowAndLink(t *testing.T) {
	env := testutil.Setup(t)
	env.Line.Profiles = map[string]*utils.LineProfile{"U1": {UserID: "U1", DisplayName: "山田"}}
	coach := env.CreateCoach(t, "山田コーチ", "yamada@example.com", models.CoachRoleCoach)
	student := env.CreateStudent(t, "佐藤 花子", 1)
	require.NoError(t, env.DB.Model(student).Update("guardian_email", "parent@example.com").Error)

	h := &lineController.DefaultHandler{}
	ctx := context.Background()

	require.NoError(t, h.HandleEvent(ctx, lineController.Event{
		Type: "follow", ReplyToken: "r1", Source: lineController.EventSource{UserID: "U1"},
	}))
	var friend models.LineFriend
	require.NoError(t, env.DB.Where("line_user_id = ?", "U1").First(&friend).Error)
	assert.Equal(t, models.LineFollowing, friend.Status)
	assert.Equal(t, "山田", friend.DisplayName)

	require.NoError(t, h.HandleEvent(ctx, lineController.Event{
		Type: "message", ReplyToken: "r2", Source: lineController.EventSource{UserID: "U1"},
		Message: &lineController.EventMessage{Type: "text", Text: "連携 Yamada@Example.com"},
	}))
	var linked models.Coach
	require.NoError(t, env.DB.First(&linked, coach.ID).Error)
	assert.Equal(t, "U1", linked.LineUserID)

	require.NoError(t, h.HandleEvent(ctx, lineController.Event{
		Type: "message", ReplyToken: "r3", Source: lineController.EventSource{UserID: "U2"},
		Message: &lineController.EventMessage{Type: "text", Text: "link parent@example.com"},
	}))
	var guardian models.Student
	require.NoError(t, env.DB.First(&guardian, student.ID).Error)
	assert.Equal(t, "U2", guardian.GuardianLineUserID)

	require.NoError(t, h.HandleEvent(ctx, lineController.Event{
		Type: "unfollow", Source: lineController.EventSource{UserID: "U1"},
	}))
	require.NoError(t, env.DB.Where("line_user_id = ?", "U1").First(&friend).Error)
	assert.Equal(t, models.LineUnfollowed, friend.Status)

	replies := env.Line.RepliesSent()
	require.Len(t, replies, 3)
	assert.Contains(t, replies[1], "コーチアカウント")
	assert.Contains(t, replies[2], "保護者アカウント")
}

func TestParseLinkCommand(t *testing.T) {
	cases := []struct {
		text  string
		email string
		ok    bool
	}{
		{"連携 a@example.com", "a@example.com", true},
		{"  LINK  A@Example.com ", "a@example.com", true},
		{"連携", "", true},
		{"こんにちは", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		email, ok := lineController.ParseLinkCommand(tc.text)
		assert.Equal(t, tc.ok, ok, tc.text)
		assert.Equal(t, tc.email, email, tc.text)
	}
}
