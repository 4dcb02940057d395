// Package validation checks request payloads against their struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is matched by every error this package returns.
var ErrValidation = errors.New("validation failed")

var (
	validate  *validator.Validate
	hsnFormat = regexp.MustCompile(`^[0-9]{8}$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("hsn", func(fl validator.FieldLevel) bool {
		return hsnFormat.MatchString(fl.Field().String())
	})
}

// FieldError is one failed constraint, named by its JSON field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error lists every failed field.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() error { return ErrValidation }

// Struct validates v and returns an *Error, or nil.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

// Field builds a single-field error for checks that have no struct tag.
func Field(field, msg string) error {
	return &Error{Fields: []FieldError{{Field: field, Tag: "custom", Message: msg}}}
}

// fieldPath drops the root struct name: "Order.items[0].name" -> "items[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gte":
		return field + " must be >= " + fe.Param()
	case "gt":
		return field + " must be > " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return field + " must have at least " + fe.Param() + " entries"
		}
		return field + " must not be empty"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "hsn":
		return field + " must be 8 digits"
	default:
		return field + " is invalid"
	}
}
