package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/resetmail/internal/pkg/clock"
	"github.com/shandysiswandi/resetmail/internal/pkg/config"
	"github.com/shandysiswandi/resetmail/internal/pkg/i18n"
	"github.com/shandysiswandi/resetmail/internal/pkg/idempotency"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/mail"
	"github.com/shandysiswandi/resetmail/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

const testConfig = `
app:
  admin_url: "https://shop.example.com/admin/"
modules:
  notification:
    default_locale: en_US
    reset_path: /forgotten-password/
mail:
  spool:
    message_limit: 0
    recover_timeout_seconds: 900
`

var testNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

type failingMail struct {
	err   error
	calls int
}

func (f *failingMail) Send(context.Context, mail.Message) error {
	f.calls++
	return f.err
}

func (f *failingMail) Close() error { return nil }

type fakeIdempotency struct {
	mu   sync.Mutex
	done map[string]bool
	keys []string
}

func (f *fakeIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	f.mu.Lock()
	f.keys = append(f.keys, key)
	if f.done[key] {
		f.mu.Unlock()
		return idempotency.ErrAlreadyCompleted
	}
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	f.done[key] = true
	f.mu.Unlock()
	return nil
}

type testDeps struct {
	cfg        config.Config
	translator *i18n.UniversalTranslator
	validator  validator.Validator
	clock      *clock.Fixed
}

func newTestDeps(t *testing.T) testDeps {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	require.NoError(t, err)

	tr, err := i18n.NewUniversalTranslator(i18n.Config{})
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	return testDeps{cfg: cfg, translator: tr, validator: v, clock: clock.NewFixed(testNow)}
}

func newTestManager(t *testing.T, transport repoMail) *ResetPasswordEmailManager {
	t.Helper()

	d := newTestDeps(t)
	m, err := NewResetPasswordEmailManager(d.translator, transport, ManagerOptions{
		Config:     d.cfg,
		Clock:      d.clock,
		Validator:  d.validator,
		Instrument: instrument.NewNoop(),
	})
	require.NoError(t, err)
	return m
}

func newTestUsecase(t *testing.T, dep Dependency) *Usecase {
	t.Helper()

	d := newTestDeps(t)
	dep.Config = d.cfg
	dep.Clock = d.clock
	dep.Validator = d.validator
	dep.Translator = d.translator
	dep.Instrument = instrument.NewNoop()

	uc, err := NewNotification(dep)
	require.NoError(t, err)
	return uc
}
