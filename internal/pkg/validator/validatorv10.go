package validator

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	rePassword = regexp.MustCompile(`^.{8,72}$`)
	reLocale   = regexp.MustCompile(`^[a-zA-Z]{2,3}([_-][a-zA-Z]{2})?$`)
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("validator: translator not found")

// V10ValidationError is a field-to-message map returned when validation fails.
// Keys are snake_case field names.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(map[string]string(vs))
	if err != nil {
		return "validation error"
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewV10Validator builds a validator with English messages and the custom
// "password" and "locale" rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	trans, ok := ut.New(enLang, enLang).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	rules := []struct {
		tag  string
		re   *regexp.Regexp
		text string
	}{
		{tag: "password", re: rePassword, text: "{0} must be 8-72 characters"},
		{tag: "locale", re: reLocale, text: "{0} must be a locale code such as en or en_US"},
	}
	for _, rule := range rules {
		if err := registerRegexRule(validate, trans, rule.tag, rule.re, rule.text); err != nil {
			return nil, err
		}
	}

	return &V10Validator{validate: validate, translator: trans}, nil
}

func registerRegexRule(validate *validator.Validate, trans ut.Translator, tag string, re *regexp.Regexp, text string) error {
	if err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && re.MatchString(s)
	}); err != nil {
		return err
	}

	return validate.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, false)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[toSnake(fe.Field())] = fe.Translate(v.translator)
	}

	return out
}

// toSnake converts Go field names such as "LocaleCode" or "UserID" to
// snake_case ("locale_code", "user_id").
func toSnake(s string) string {
	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
