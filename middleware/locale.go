package middleware

import (
	"coachhub/config"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
)

// SupportedLocales are the page locales, default first.
var SupportedLocales = []string{"ja", "en"}

var localeMatcher = language.NewMatcher([]language.Tag{language.Japanese, language.English})

// MatchLocale resolves an Accept-Language header to a supported locale.
func MatchLocale(acceptLanguage, fallback string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return SupportedLocales[idx]
}

func isSupportedLocale(locale string) bool {
	for _, l := range SupportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}

// Locale redirects unprefixed page paths to /{locale}/... and stores the locale.
// Paths under skipPrefixes (api, uploads, health) are left alone.
func Locale(skipPrefixes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, p := range skipPrefixes {
			if strings.HasPrefix(path, p) {
				return c.Next()
			}
		}

		segment := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
		if isSupportedLocale(segment) {
			c.Locals("locale", segment)
			return c.Next()
		}

		fallback := config.AppConfig.DefaultLocale
		if !isSupportedLocale(fallback) {
			fallback = SupportedLocales[0]
		}
		locale := MatchLocale(c.Get(fiber.HeaderAcceptLanguage), fallback)
		target := "/" + locale + path
		if path == "/" {
			target = "/" + locale + "/"
		}
		return c.Redirect(target, fiber.StatusFound)
	}
}

// PageSession resolves the session cookie for pages; anonymous visitors are sent to login.
func PageSession(c *fiber.Ctx) error {
	locale, _ := c.Locals("locale").(string)
	claims, err := ParseJWT(c.Cookies(SessionCookie))
	if err != nil {
		return c.Redirect("/"+locale+"/login", fiber.StatusFound)
	}
	c.Locals("coachId", claims.CoachID)
	c.Locals("role", claims.Role)
	c.Locals("coachName", claims.Name)
	return c.Next()
}

// RequestLocale is the locale for API responses: the page prefix, then ?locale=,
// then Accept-Language.
func RequestLocale(c *fiber.Ctx) string {
	if locale, ok := c.Locals("locale").(string); ok && isSupportedLocale(locale) {
		return locale
	}
	if q := c.Query("locale"); isSupportedLocale(q) {
		return q
	}
	fallback := SupportedLocales[0]
	if config.AppConfig != nil && isSupportedLocale(config.AppConfig.DefaultLocale) {
		fallback = config.AppConfig.DefaultLocale
	}
	return MatchLocale(c.Get(fiber.HeaderAcceptLanguage), fallback)
}
