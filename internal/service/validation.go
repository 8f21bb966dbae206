package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/cirqle/cirqle-api/internal/availability"
	"github.com/cirqle/cirqle-api/internal/models"
	appErrors "github.com/cirqle/cirqle-api/pkg/errors"
)

var (
	emailShapePattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

const (
	minPasswordLength = 8
	maxUsernameLength = 40
)

// NewValidator returns a validator with the booking tags registered. Field
// errors are keyed by json name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return IsEmailShape(fl.Field().String())
	})
	v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return availability.IsSlot(fl.Field().String())
	})
	v.RegisterValidation("civildate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(models.DateLayout, fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return validUsername(fl.Field().String())
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return passwordProblem(fl.Field().String()) == ""
	})
	v.RegisterValidation("iconkind", func(fl validator.FieldLevel) bool {
		_, err := models.ParseServiceIconKind(fl.Field().String())
		return err == nil
	})
	return v
}

// IsEmailShape reports whether raw looks like local@domain.tld.
func IsEmailShape(raw string) bool {
	return emailShapePattern.MatchString(raw)
}

func validUsername(raw string) bool {
	return raw != "" && len(raw) <= maxUsernameLength && usernamePattern.MatchString(raw)
}

func passwordProblem(raw string) string {
	if len(raw) < minPasswordLength {
		return fmt.Sprintf("must be at least %d characters", minPasswordLength)
	}
	var digit, special bool
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			special = true
		}
	}
	if !digit {
		return "must contain a number"
	}
	if !special {
		return "must contain a special character"
	}
	return ""
}

// validationError converts validator output into a VALIDATION_ERROR with one
// message per field.
func validationError(err error, message string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fieldMessage(fe)
	}
	return appErrors.Validation(message, fields)
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "emailshape":
		return "must be a valid email address"
	case "hhmm":
		return "must be a time in H:MM format"
	case "civildate":
		return "must be a date in YYYY-MM-DD format"
	case "username":
		return "may only contain letters, numbers, underscores and hyphens"
	case "password":
		if s, ok := fe.Value().(string); ok {
			if msg := passwordProblem(s); msg != "" {
				return msg
			}
		}
		return "does not meet the password policy"
	case "iconkind":
		return "must be one of clock, video, calendar"
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "gt", "gte":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}
