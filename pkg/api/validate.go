package api

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	lowercase = regexp.MustCompile(`[a-z]`)
	uppercase = regexp.MustCompile(`[A-Z]`)
	digit     = regexp.MustCompile(`[0-9]`)
	special   = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

const MinPasswordLength = 8

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return len(PasswordProblems(fl.Field().String())) == 0
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// PasswordProblems lists the password rules pw breaks.
func PasswordProblems(pw string) []string {
	var ret []string
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		ret = append(ret, fmt.Sprintf("at least %d characters", MinPasswordLength))
	}
	if !lowercase.MatchString(pw) {
		ret = append(ret, "a lowercase letter")
	}
	if !uppercase.MatchString(pw) {
		ret = append(ret, "an uppercase letter")
	}
	if !digit.MatchString(pw) {
		ret = append(ret, "a digit")
	}
	if !special.MatchString(pw) {
		ret = append(ret, "a special character")
	}
	return ret
}

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, rule := range e.Fields {
		parts = append(parts, f+": "+rule)
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

// Validate checks v against its validate tags and returns a *ValidationError
// keyed by field name.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ret := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		ret.Fields[fe.Field()] = rule
	}
	return ret
}

func (e *ValidationError) FieldErrors() map[string]string {
	return e.Fields
}
