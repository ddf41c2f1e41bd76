package validators

import (
	"coachhub/utils"

	"github.com/gofiber/fiber/v2"
)

// normalizer trims or defaults fields before validation.
type normalizer interface {
	Normalize()
}

// checker runs cross-field rules after the tag rules pass.
type checker interface {
	Check() error
}

// Body parses the JSON body into a new T, validates it and stores it in c.Locals(key).
func Body[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.BodyParser(reqData); err != nil {
			return utils.ErrBadRequest("リクエストボディが不正です")
		}
		if n, ok := any(reqData).(normalizer); ok {
			n.Normalize()
		}
		if err := utils.ValidateStruct(reqData); err != nil {
			return err
		}
		if ck, ok := any(reqData).(checker); ok {
			if err := ck.Check(); err != nil {
				return err
			}
		}
		c.Locals(key, reqData)
		return c.Next()
	}
}

// Query parses the query string into a new T and stores it in c.Locals(key).
func Query[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.QueryParser(reqData); err != nil {
			return utils.ErrBadRequest("クエリパラメータが不正です")
		}
		if n, ok := any(reqData).(normalizer); ok {
			n.Normalize()
		}
		if err := utils.ValidateStruct(reqData); err != nil {
			return err
		}
		if ck, ok := any(reqData).(checker); ok {
			if err := ck.Check(); err != nil {
				return err
			}
		}
		c.Locals(key, reqData)
		return c.Next()
	}
}

// ID checks that the named route parameter is a positive integer and stores it as uint.
func ID(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := utils.ParamID(c, param)
		if err != nil {
			return err
		}
		c.Locals(param, id)
		return c.Next()
	}
}
