package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Paging is the resolved ?page= / ?limit= pair.
type Paging struct {
	Page   int
	Limit  int
	Offset int
}

// ResolvePaging reads page and limit from the query string and normalises them.
func ResolvePaging(c *fiber.Ctx) Paging {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page", "1")))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit", strconv.Itoa(DefaultPageLimit))))
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Paging{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// PaginationMap is the pagination block attached to list responses.
func PaginationMap(total int64, p Paging) fiber.Map {
	return fiber.Map{
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}
}

// ParamID parses a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrBadRequest("IDが不正です")
	}
	return uint(id), nil
}

// QueryUint parses an optional numeric query parameter; ok is false when absent.
func QueryUint(c *fiber.Ctx, name string) (uint, bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, ErrBadRequest(name + " の値が不正です")
	}
	return uint(v), true, nil
}

var location = time.Local

// SetLocation sets the business time zone used for "today" and date stamps.
func SetLocation(name string) {
	if loc, err := time.LoadLocation(name); err == nil {
		location = loc
	}
}

// Location returns the business time zone.
func Location() *time.Location {
	return location
}

// Now is the current time in the business time zone. Tests may replace it.
var Now = func() time.Time {
	return time.Now().In(location)
}

// Today returns today's date as YYYY-MM-DD in the business time zone.
func Today() string {
	return Now().Format("2006-01-02")
}

// FirstOrNotFound loads the row with id into dest, answering 404 with msg when it is missing.
func FirstOrNotFound(db *gorm.DB, dest interface{}, id uint, msg string) error {
	if err := db.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound(msg)
		}
		return err
	}
	return nil
}

// MustExist answers 404 with msg unless a row of model with id exists.
func MustExist(db *gorm.DB, model interface{}, id uint, msg string) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound(msg)
	}
	return nil
}
