package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// Validator turns validator/v10 failures into field violations named after
// the JSON (or query) field.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	return &Validator{validate: v}
}

// Struct validates dst and reports a ValidationError with per-field details.
func (v *Validator) Struct(dst any) error {
	err := v.validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make([]apperrors.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperrors.FieldViolation{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Message: violationMessage(fe),
		})
	}
	return apperrors.NewValidationError("validation failed", details)
}

// bindBody decodes the JSON body into dst and validates it.
func bindBody(c *fiber.Ctx, v *Validator, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid JSON payload", []apperrors.FieldViolation{{
			Field:   "body",
			Rule:    "json",
			Message: err.Error(),
		}})
	}
	return v.Struct(dst)
}

// bindQuery decodes query parameters into dst and validates it.
func bindQuery(c *fiber.Ctx, v *Validator, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return apperrors.NewValidationError("invalid query parameters", []apperrors.FieldViolation{{
			Field:   "query",
			Rule:    "type",
			Message: err.Error(),
		}})
	}
	return v.Struct(dst)
}

// idParam parses a positive integer path parameter.
func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, []apperrors.FieldViolation{{
			Field:   name,
			Rule:    "id",
			Message: name + " must be a positive integer",
		}})
	}
	return id, nil
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
