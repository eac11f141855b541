package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/resetmail/internal/identity/entity"
	"github.com/shandysiswandi/resetmail/internal/pkg/clock"
	"github.com/shandysiswandi/resetmail/internal/pkg/config"
	"github.com/shandysiswandi/resetmail/internal/pkg/goerror"
	"github.com/shandysiswandi/resetmail/internal/pkg/hash"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

// fakeRepo keeps admin users in memory, keyed by email.
type fakeRepo struct {
	users    map[string]*entity.AdminUser
	getErr   error
	saveErr  error
	resetErr error
	lost     bool

	saved  []entity.PasswordResetRequest
	resets []entity.PasswordReset
}

func (f *fakeRepo) GetAdminUserByEmail(_ context.Context, email string) (*entity.AdminUser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetAdminUserByResetTokenHash(_ context.Context, tokenHash string) (*entity.AdminUser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.PasswordResetTokenHash != "" && u.PasswordResetTokenHash == tokenHash {
			cp := *u
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) SavePasswordResetRequest(_ context.Context, req entity.PasswordResetRequest) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, req)
	for _, u := range f.users {
		if u.ID == req.UserID {
			at := req.RequestedAt
			u.PasswordResetTokenHash = req.TokenHash
			u.PasswordRequestedAt = &at
		}
	}
	return nil
}

func (f *fakeRepo) ResetAdminPassword(_ context.Context, in entity.PasswordReset) (bool, error) {
	if f.resetErr != nil {
		return false, f.resetErr
	}
	if f.lost {
		return false, nil
	}
	f.resets = append(f.resets, in)
	for _, u := range f.users {
		if u.ID == in.UserID && u.PasswordResetTokenHash == in.TokenHash {
			u.PasswordHash = in.PasswordHash
			u.PasswordResetTokenHash = ""
			u.PasswordRequestedAt = nil
			return true, nil
		}
	}
	return false, nil
}

type fakeNotifier struct {
	err    error
	events []AdminPasswordResetRequestedEvent
}

func (f *fakeNotifier) NotifyAdminPasswordResetRequested(_ context.Context, ev AdminPasswordResetRequestedEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

type testEnv struct {
	uc       *Usecase
	repo     *fakeRepo
	notifier *fakeNotifier
	hmac     hash.Hash
	bcrypt   hash.Hash
	clock    *clock.Fixed
}

func newTestEnv(t *testing.T, users ...entity.AdminUser) testEnv {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  identity:\n    password_reset_ttl_minutes: 60\n"))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	repo := &fakeRepo{users: map[string]*entity.AdminUser{}}
	for i := range users {
		u := users[i]
		repo.users[u.Email] = &u
	}

	env := testEnv{
		repo:     repo,
		notifier: &fakeNotifier{},
		hmac:     hash.NewHMACSHA256("test-secret"),
		bcrypt:   hash.NewBcrypt(4, ""),
		clock:    clock.NewFixed(testNow),
	}
	env.uc = New(Dependency{
		RepoDB:     repo,
		Notifier:   env.notifier,
		Validator:  v,
		Config:     cfg,
		HMAC:       env.hmac,
		Bcrypt:     env.bcrypt,
		Token:      fixedID("plain-token"),
		UUID:       fixedID("event-1"),
		Clock:      env.clock,
		Instrument: instrument.NewNoop(),
	})
	return env
}

var errBoom = errors.New("boom")
