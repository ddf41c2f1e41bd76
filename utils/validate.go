package utils

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names so messages match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// YYYY-MM-DD, or "" where an empty value clears a stored date
	_ = v.RegisterValidation("date_or_empty", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		_, err := time.Parse("2006-01-02", value)
		return err == nil
	})
	return v
}

// ValidateStruct runs the struct tag rules. Missing required fields are reported
// together; otherwise the first failing field is named.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrBadRequest("リクエストが不正です")
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fieldPath(fe))
		}
	}
	if len(missing) > 0 {
		return ErrMissingFields(missing...)
	}

	fe := verrs[0]
	return ErrBadRequest(fieldPath(fe) + " の値が不正です (" + fe.Tag() + ")")
}

// fieldPath strips the root struct name from the namespace, e.g. mission_items[0].target_description.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
