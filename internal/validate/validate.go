// Package validate holds the field rules for user submitted forms. Each form
// is checked as an ordered list of rules; the first failing rule wins.
package validate

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Error is a user-correctable input problem.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

	v = newValidator()
)

func newValidator() *validator.Validate {
	val := validator.New()
	must(val.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}))
	must(val.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}))
	must(val.RegisterValidation("bcrypt_len", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	}))
	must(val.RegisterValidation("has_upper", containsRune(unicode.IsUpper)))
	must(val.RegisterValidation("has_lower", containsRune(unicode.IsLower)))
	must(val.RegisterValidation("has_digit", containsRune(unicode.IsDigit)))
	return val
}

func containsRune(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if pred(r) {
				return true
			}
		}
		return false
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

type rule struct {
	field   string
	value   any
	tag     string
	message string
}

func check(rules ...rule) error {
	for _, r := range rules {
		if err := v.Var(r.value, r.tag); err != nil {
			return &Error{Field: r.field, Message: r.message}
		}
	}
	return nil
}
