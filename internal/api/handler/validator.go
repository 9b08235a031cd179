package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/clinicore/emr-system/internal/core/validation"
)

// ValidationError carries every failing rule from one validation pass. The
// pipeline never stops at the first violation; the client receives the full
// list.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator with the EMR field rules registered,
// ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()

	// Field validators from the core validation package, exposed as tags.
	must(v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return validation.IsObjectID(fl.Field().String())
	}))
	must(v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return validation.IsPhone(fl.Field().String())
	}))
	must(v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		return validation.IsTimeOfDay(fl.Field().String())
	}))
	must(v.RegisterValidation("futuredate", func(fl validator.FieldLevel) bool {
		return validation.IsFutureDate(fl.Field().String(), time.Now())
	}))
	must(v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return validation.IsStrongPassword(fl.Field().String())
	}))

	return &echoValidator{v: v}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate satisfies the echo.Validator interface. All violations are
// aggregated into a single ValidationError.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return &ValidationError{Messages: msgs}
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "objectid":
		return field + " must be a 24-character hexadecimal identifier"
	case "phone":
		return field + " must be a valid phone number"
	case "timeofday":
		return field + " must be a valid HH:MM time"
	case "futuredate":
		return field + " must be today or a future date"
	case "strongpassword":
		return field + " must be at least 8 characters with uppercase, lowercase, digit, and symbol"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
