package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email      string `validate:"required,email"`
	LocaleCode string `validate:"omitempty,locale"`
	Password   string `validate:"omitempty,password"`
	UserID     int64  `validate:"gte=0"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	tests := []struct {
		name   string
		in     sample
		fields []string
	}{
		{name: "valid", in: sample{Email: "sylius@example.com", LocaleCode: "en_US", Password: "longenough"}},
		{name: "valid hyphen locale", in: sample{Email: "sylius@example.com", LocaleCode: "pt-BR"}},
		{name: "missing email", in: sample{}, fields: []string{"email"}},
		{name: "bad email", in: sample{Email: "not-an-email"}, fields: []string{"email"}},
		{name: "bad locale", in: sample{Email: "a@b.co", LocaleCode: "english!"}, fields: []string{"locale_code"}},
		{name: "short password", in: sample{Email: "a@b.co", Password: "short"}, fields: []string{"password"}},
		{name: "negative id", in: sample{Email: "a@b.co", UserID: -1}, fields: []string{"user_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr V10ValidationError
			require.True(t, errors.As(err, &verr))
			for _, f := range tt.fields {
				assert.Contains(t, verr.Values(), f)
				assert.NotEmpty(t, verr[f])
			}
			assert.Contains(t, verr.Error(), tt.fields[0])
		})
	}
}

func TestV10Validator_CustomMessages(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate(sample{Email: "a@b.co", Password: "x", LocaleCode: "??"})

	var verr V10ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Password must be 8-72 characters", verr["password"])
	assert.Equal(t, "LocaleCode must be a locale code such as en or en_US", verr["locale_code"])
}

func TestToSnake(t *testing.T) {
	cases := map[string]string{
		"Email":      "email",
		"LocaleCode": "locale_code",
		"UserID":     "user_id",
		"HTTPServer": "http_server",
		"Token2FA":   "token2_fa",
		"":           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, toSnake(in), in)
	}
	assert.Equal(t, "validation error", V10ValidationError{}.Error())
}
