package pagesController

import (
	"bytes"
	"coachhub/config"
	authController "coachhub/controllers/auth"
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	"coachhub/views"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

var labels = map[string]map[string]string{
	"ja": {
		"app_name":                "スポーツ英語コーチング",
		"dashboard":               "ダッシュボード",
		"students":                "生徒一覧",
		"coaches":                 "コーチ一覧",
		"login":                   "ログイン",
		"logout":                  "ログアウト",
		"email":                   "メールアドレス",
		"password":                "パスワード",
		"active_students":         "在籍生徒数",
		"active_coaches":          "在籍コーチ数",
		"expiring_certifications": "期限間近・期限切れの資格",
		"todays_lessons":          "本日のレッスン",
		"no_lessons":              "本日のレッスンはありません",
		"time":                    "時間",
		"title":                   "タイトル",
		"school":                  "校舎",
		"name":                    "名前",
		"level":                   "レベル",
		"class_type":              "クラス",
		"status":                  "ステータス",
		"role":                    "役割",
		"ageo":                    "上尾",
		"okegawa":                 "桶川",
	},
	"en": {
		"app_name":                "Sports English Coaching",
		"dashboard":               "Dashboard",
		"students":                "Students",
		"coaches":                 "Coaches",
		"login":                   "Log in",
		"logout":                  "Log out",
		"email":                   "Email",
		"password":                "Password",
		"active_students":         "Active students",
		"active_coaches":          "Active coaches",
		"expiring_certifications": "Expiring or expired certifications",
		"todays_lessons":          "Today's lessons",
		"no_lessons":              "No lessons today",
		"time":                    "Time",
		"title":                   "Title",
		"school":                  "School",
		"name":                    "Name",
		"level":                   "Level",
		"class_type":              "Class",
		"status":                  "Status",
		"role":                    "Role",
		"ageo":                    "Ageo",
		"okegawa":                 "Okegawa",
	},
}

func translate(locale, key string) string {
	if v, ok := labels[locale][key]; ok {
		return v
	}
	return key
}

var funcs = template.FuncMap{
	"t":      translate,
	"school": translate,
	"title": func(locale string, level int) string {
		return models.LevelTitle(level, locale)
	},
}

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"login", "dashboard", "students", "coaches"} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(views.FS, "layout.html", name+".html"))
	}
}

type pageData struct {
	Locale    string
	Path      string
	CoachName string
	Error     string
	Email     string
	Data      interface{}
}

func newPageData(c *fiber.Ctx) pageData {
	locale, _ := c.Locals("locale").(string)
	name, _ := c.Locals("coachName").(string)
	return pageData{
		Locale:    locale,
		Path:      strings.TrimPrefix(c.Path(), "/"+locale),
		CoachName: name,
	}
}

func render(c *fiber.Ctx, status int, name string, data pageData) error {
	var buf bytes.Buffer
	if err := pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// RequireLocale rejects page paths whose first segment is not a supported locale.
func RequireLocale(c *fiber.Ctx) error {
	locale := c.Params("locale")
	for _, l := range middleware.SupportedLocales {
		if l == locale {
			c.Locals("locale", locale)
			return c.Next()
		}
	}
	return fiber.ErrNotFound
}

func LoginPage(c *fiber.Ctx) error {
	data := newPageData(c)
	if _, err := middleware.ParseJWT(c.Cookies(middleware.SessionCookie)); err == nil {
		return c.Redirect("/"+data.Locale+"/", fiber.StatusFound)
	}
	return render(c, fiber.StatusOK, "login", data)
}

func Login(c *fiber.Ctx) error {
	data := newPageData(c)
	data.Email = strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")

	if data.Email == "" || password == "" {
		data.Error = utils.ErrMissingFields("email", "password").Error()
		return render(c, fiber.StatusBadRequest, "login", data)
	}

	_, token, err := authController.Authenticate(data.Email, password)
	if err != nil {
		appErr, ok := utils.AsAppError(err)
		if !ok {
			return err
		}
		data.Error = appErr.Message
		return render(c, appErr.Status, "login", data)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(time.Duration(config.AppConfig.JWTTTLHours) * time.Hour),
	})
	return c.Redirect("/"+data.Locale+"/", fiber.StatusFound)
}

func Logout(c *fiber.Ctx) error {
	locale, _ := c.Locals("locale").(string)
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Unix(0, 0),
	})
	return c.Redirect("/"+locale+"/login", fiber.StatusFound)
}

type dashboardData struct {
	Today                  string
	Students               int64
	Coaches                int64
	ExpiringCertifications int64
	Lessons                []models.LessonSchedule
}

func Dashboard(c *fiber.Ctx) error {
	db := database.Database.Db
	d := dashboardData{Today: utils.Today()}

	if err := db.Model(&models.Student{}).Where("status = ?", models.StudentStatusActive).Count(&d.Students).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Coach{}).Where("status = ?", models.CoachStatusActive).Count(&d.Coaches).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Certification{}).
		Where("status IN ?", []string{models.CertStatusExpiringSoon, models.CertStatusExpired}).
		Count(&d.ExpiringCertifications).Error; err != nil {
		return err
	}
	if err := db.Where("date = ?", d.Today).Order("start_time asc").Find(&d.Lessons).Error; err != nil {
		return err
	}

	data := newPageData(c)
	data.Data = d
	return render(c, fiber.StatusOK, "dashboard", data)
}

func Students(c *fiber.Ctx) error {
	var students []models.Student
	if err := database.Database.Db.Order("name asc").Limit(utils.MaxPageLimit).Find(&students).Error; err != nil {
		return err
	}
	data := newPageData(c)
	data.Data = students
	return render(c, fiber.StatusOK, "students", data)
}

func Coaches(c *fiber.Ctx) error {
	var coaches []models.Coach
	if err := database.Database.Db.Order("name asc").Limit(utils.MaxPageLimit).Find(&coaches).Error; err != nil {
		return err
	}
	data := newPageData(c)
	data.Data = coaches
	return render(c, fiber.StatusOK, "coaches", data)
}
