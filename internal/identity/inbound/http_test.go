package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/resetmail/internal/identity/usecase"
	"github.com/shandysiswandi/resetmail/internal/pkg/config"
	"github.com/shandysiswandi/resetmail/internal/pkg/goerror"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type fakeUC struct {
	forgot   []usecase.RequestPasswordResetInput
	reset    []usecase.ResetPasswordInput
	resetErr error
}

func (f *fakeUC) RequestPasswordReset(_ context.Context, in usecase.RequestPasswordResetInput) error {
	f.forgot = append(f.forgot, in)
	return nil
}

func (f *fakeUC) ResetPassword(_ context.Context, in usecase.ResetPasswordInput) error {
	f.reset = append(f.reset, in)
	return f.resetErr
}

func newTestRouter(t *testing.T, uc uc) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: test\n"))
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:          cfg,
		UUID:            fixedID("cid"),
		Instrument:      instrument.NewNoop(),
		PublicEndpoints: PublicEndpoints(),
	})
	RegisterHTTPEndpoint(r, uc)
	return r
}

func serve(r http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	return rec
}

func TestHTTPEndpoint_PasswordForgot(t *testing.T) {
	uc := &fakeUC{}
	r := newTestRouter(t, uc)

	rec := serve(r, pathPasswordForgot, `{"email":"admin@example.com","locale":"de"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, uc.forgot, 1)
	assert.Equal(t, usecase.RequestPasswordResetInput{Email: "admin@example.com", Locale: "de"}, uc.forgot[0])

	rec = serve(r, pathPasswordForgot, `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, uc.forgot, 1)
}

func TestHTTPEndpoint_PasswordReset(t *testing.T) {
	uc := &fakeUC{}
	r := newTestRouter(t, uc)

	rec := serve(r, pathPasswordReset, `{"token":"tok","new_password":"correct horse"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Password has been reset", body.Message)

	uc.resetErr = goerror.NewBusiness("invalid or expired reset token", goerror.CodeUnauthorized)
	rec = serve(r, pathPasswordReset, `{"token":"tok","new_password":"correct horse"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
