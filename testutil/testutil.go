// Package testutil wires an in-memory database, fake providers and a fiber app
// for handler tests.
package testutil

import (
	"bytes"
	"coachhub/config"
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const Password = "password123"

var dbSeq int64

// Env is the per-test environment.
type Env struct {
	DB       *gorm.DB
	Mail     *FakeMailer
	Line     *FakeLine
	Checkout *FakeCheckout
}

// Setup installs a fresh in-memory sqlite database, test config and fake providers.
func Setup(t *testing.T) *Env {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:        "test-secret",
		JWTTTLHours:   24,
		SaltRound:     bcrypt.MinCost,
		Timezone:      "Asia/Tokyo",
		DefaultLocale: "ja",
		UploadDir:     t.TempDir(),
		DBDriver:      "sqlite",
	}
	utils.SetLocation(config.AppConfig.Timezone)
	utils.AsyncNotifications = false

	dsn := fmt.Sprintf("file:coachhub_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Use(db, "sqlite"))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.RunMigrations(db))

	env := &Env{DB: db, Mail: &FakeMailer{}, Line: &FakeLine{}, Checkout: &FakeCheckout{}}
	utils.Mail = env.Mail
	utils.Line = env.Line
	utils.Checkout = env.Checkout

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return env
}

// NewApp builds a fiber app with the production error handler and the given routes.
func NewApp(setups ...func(*fiber.App)) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	for _, setup := range setups {
		setup(app)
	}
	return app
}

// CreateCoach inserts an active coach with Password.
func (e *Env) CreateCoach(t *testing.T, name, email, role string) *models.Coach {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	coach := &models.Coach{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.CoachStatusActive,
		Schools:      []string{models.SchoolAgeo},
	}
	require.NoError(t, e.DB.Create(coach).Error)
	return coach
}

// CreateStudent inserts an active student at the given level.
func (e *Env) CreateStudent(t *testing.T, name string, level int) *models.Student {
	t.Helper()
	student := &models.Student{
		Name:           name,
		BirthDate:      "2015-04-01",
		Level:          level,
		School:         models.SchoolAgeo,
		ClassType:      "regular",
		Status:         models.StudentStatusActive,
		EnrollmentDate: "2024-04-01",
	}
	require.NoError(t, e.DB.Create(student).Error)
	return student
}

// CreateSkillItem inserts a sport (if needed) and one skill item.
func (e *Env) CreateSkillItem(t *testing.T, sportName, name, trainingType string) *models.SkillItem {
	t.Helper()
	var sport models.Sport
	require.NoError(t, e.DB.Where(models.Sport{Name: sportName}).Attrs(models.Sport{IsActive: true}).FirstOrCreate(&sport).Error)
	item := &models.SkillItem{
		SportID:      sport.ID,
		Name:         name,
		TrainingType: trainingType,
		Level:        1,
	}
	require.NoError(t, e.DB.Create(item).Error)
	return item
}

// Token signs a JWT for coach.
func Token(t *testing.T, coach *models.Coach) string {
	t.Helper()
	token, err := middleware.GenerateJWT(coach.ID, coach.Name, coach.Role, coach.Email)
	require.NoError(t, err)
	return token
}

// Response is a decoded test response.
type Response struct {
	Status int
	Header http.Header
	Raw    []byte
	Body   map[string]interface{}
}

// Data returns body["data"] as an object.
func (r Response) Data() map[string]interface{} {
	m, _ := r.Body["data"].(map[string]interface{})
	return m
}

// List returns body["data"] as an array.
func (r Response) List() []interface{} {
	l, _ := r.Body["data"].([]interface{})
	return l
}

// Do sends a JSON request through app.Test. body may be nil, a string or any value
// that is marshalled to JSON.
func Do(t *testing.T, app *fiber.App, method, path string, body interface{}, token string, headers ...string) Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := Response{Status: resp.StatusCode, Header: resp.Header, Raw: raw}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

// FakeMailer records sent messages.
type FakeMailer struct {
	mu   sync.Mutex
	Sent []utils.EmailMessage
	Err  error
}

func (m *FakeMailer) Send(_ context.Context, msg utils.EmailMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.Sent = append(m.Sent, msg)
	return fmt.Sprintf("mail-%d", len(m.Sent)), nil
}

func (m *FakeMailer) Messages() []utils.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]utils.EmailMessage(nil), m.Sent...)
}

// LinePush is one recorded push.
type LinePush struct {
	To   string
	Text string
	Flex bool
}

// FakeLine records pushes and replies.
type FakeLine struct {
	mu       sync.Mutex
	Pushes   []LinePush
	Replies  []string
	Profiles map[string]*utils.LineProfile
	Err      error
}

func (l *FakeLine) PushText(_ context.Context, to, text string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return "", l.Err
	}
	l.Pushes = append(l.Pushes, LinePush{To: to, Text: text})
	return fmt.Sprintf("line-%d", len(l.Pushes)), nil
}

func (l *FakeLine) PushFlex(_ context.Context, to, altText string, _ map[string]interface{}) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return "", l.Err
	}
	l.Pushes = append(l.Pushes, LinePush{To: to, Text: altText, Flex: true})
	return fmt.Sprintf("line-%d", len(l.Pushes)), nil
}

func (l *FakeLine) Reply(_ context.Context, _, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Replies = append(l.Replies, text)
	return nil
}

func (l *FakeLine) GetProfile(_ context.Context, userID string) (*utils.LineProfile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.Profiles[userID]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("profile %s not found", userID)
}

func (l *FakeLine) RepliesSent() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Replies...)
}

// FakeCheckout returns a fixed session or Err.
type FakeCheckout struct {
	Requests []utils.CheckoutRequest
	Err      error
}

func (f *FakeCheckout) CreateCheckout(req utils.CheckoutRequest) (*utils.CheckoutSession, error) {
	f.Requests = append(f.Requests, req)
	if f.Err != nil {
		return nil, f.Err
	}
	return &utils.CheckoutSession{
		Token:       "snap-token-" + req.OrderID,
		RedirectURL: "https://checkout.test/" + req.OrderID,
	}, nil
}
