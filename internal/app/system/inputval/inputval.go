// internal/app/system/inputval/inputval.go
//
// Package inputval validates form input structs with go-playground/validator
// and turns failures into messages fit for a flash or form error banner.
//
// Struct fields carry `validate:"..."` rules and an optional `label:"..."`
// used in messages:
//
//	type contactInput struct {
//		Email  string `validate:"required,email" label:"Email"`
//		Gender string `validate:"omitempty,gender" label:"Gender"`
//	}
package inputval

import (
	"fmt"
	"net/mail"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the field errors from one Validate call.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

var (
	once sync.Once
	v    *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		_ = v.RegisterValidation("email", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
			return models.IsValidGender(fl.Field().String())
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return models.IsValidRole(strings.ToLower(strings.TrimSpace(fl.Field().String())))
		})
	})
	return v
}

// Validate runs the struct's rules. A non-struct argument yields a single
// generic error.
func Validate(s any) *Result {
	res := &Result{}
	err := get().Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: "Invalid input."})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.StructField(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "email":
		return "A valid email address is required."
	case "gender":
		return label + " must be one of: " + strings.Join(models.AllGenders, ", ") + "."
	case "role":
		return label + " must be one of: " + strings.Join(models.AllRoles, ", ") + "."
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters.", label, fe.Param())
	default:
		return label + " is invalid."
	}
}

// IsValidEmail accepts a bare addr-spec (no display name) with a dot-atom
// local part and domain. Single-label domains are allowed.
func IsValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(domain, "@") {
		return false
	}
	return dotAtom(local) && dotAtom(domain)
}

func dotAtom(s string) bool {
	return s != "" &&
		!strings.HasPrefix(s, ".") &&
		!strings.HasSuffix(s, ".") &&
		!strings.Contains(s, "..")
}
