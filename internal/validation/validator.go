// Package validation checks request payloads with go-playground/validator and
// reports failures as per-field message lists.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ReservedUsername can never be registered; it names the self-service route.
const ReservedUsername = "me"

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Errors maps a JSON field name to its messages.
type Errors map[string][]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Validator wraps go-playground/validator with the project's custom tags.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New creates a validator with the username, notme, slug and notfutureyear
// tags registered.
func New() *Validator {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	val := &Validator{v: v, now: now}
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notme", func(fl validator.FieldLevel) bool {
		return fl.Field().String() != ReservedUsername
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notfutureyear", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(val.now().Year())
	})
	return val
}

// Validate returns nil or an Errors value describing every failed field.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	out := Errors{}
	for _, e := range validationErrs {
		out.Add(fieldName(e), v.friendlyMessage(e))
	}
	return out
}

// fieldName reports errors on list elements under the list's own name, so
// genre[1] becomes genre.
func fieldName(e validator.FieldError) string {
	name := e.Field()
	if i := strings.IndexByte(name, '['); i > 0 {
		name = name[:i]
	}
	return name
}

//nolint:gocyclo
func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
	case "len":
		return fmt.Sprintf("Ensure this field has exactly %s characters.", e.Param())
	case "numeric":
		return "Only digits are allowed."
	case "oneof":
		return "Must be one of: " + e.Param() + "."
	case "username":
		return "Enter a valid username. It may contain only letters, numbers, and @/./+/-/_ characters."
	case "notme":
		return `The username "me" is reserved.`
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	case "notfutureyear":
		return "Year must not be later than the current year."
	case "dive":
		return "Contains an invalid value."
	default:
		return "Invalid value."
	}
}
