package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name    string
		err     error
		typ     Type
		code    Code
		status  int
		message string
		text    string
	}{
		{"server", NewServer(cause), TypeServer, CodeInternal, http.StatusInternalServerError, "Internal server error", "boom"},
		{"business", NewBusiness("token expired", CodeUnauthorized), TypeBusiness, CodeUnauthorized, http.StatusUnauthorized, "token expired", "token expired"},
		{"business wrap", NewBusinessWrap(cause, "bad recipient", CodeInvalidInput), TypeBusiness, CodeInvalidInput, http.StatusUnprocessableEntity, "bad recipient", "boom"},
		{"invalid input", NewInvalidInput(cause), TypeValidation, CodeInvalidInput, http.StatusUnprocessableEntity, "Validation error", "boom"},
		{"invalid format default", NewInvalidFormat(), TypeValidation, CodeInvalidFormat, http.StatusBadRequest, "Invalid request body", "Invalid request body"},
		{"invalid format custom", NewInvalidFormat("bad json"), TypeValidation, CodeInvalidFormat, http.StatusBadRequest, "bad json", "bad json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gerr, ok := As(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.typ, gerr.Type())
			assert.Equal(t, tt.code, gerr.Code())
			assert.Equal(t, tt.status, gerr.StatusCode())
			assert.Equal(t, tt.message, gerr.Msg())
			assert.Equal(t, tt.text, gerr.Error())
		})
	}
}

func TestNewInvalidInput_Fields(t *testing.T) {
	gerr, ok := As(NewInvalidInput(nil, "email", "is required"))
	require.True(t, ok)
	assert.Equal(t, map[string]string{"email": "is required"}, gerr.Fields())

	gerr, ok = As(NewInvalidInput(nil, "dangling"))
	require.True(t, ok)
	assert.Equal(t, CodeInvalidFormat, gerr.Code())
}

func TestUnwrapChain(t *testing.T) {
	wrapped := fmt.Errorf("repo: %w", NewBusinessWrap(ErrNotFound, "missing", CodeNotFound))

	assert.ErrorIs(t, wrapped, ErrNotFound)
	gerr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "ERROR_CODE_NOT_FOUND", gerr.Code().String())
	assert.Contains(t, gerr.String(), "ERROR_TYPE_BUSINESS")

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, "ERROR_CODE_INTERNAL", Code(99).String())
}
