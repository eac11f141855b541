package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/resetmail/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqID struct{ n int }

func (s *seqID) Generate() string {
	s.n++
	return "id-" + string(rune('0'+s.n))
}

func newTestJWT(t *testing.T, clk *clock.Fixed, secret string) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:    []byte(secret),
		Issuer:    "resetmail",
		Audiences: []string{"resetmail-ops"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      &seqID{},
	})
	require.NoError(t, err)
	return j
}

func TestNewHS512_ShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestSymmetric_GenerateVerify(t *testing.T) {
	secret := strings.Repeat("s", 64)
	clk := clock.NewFixed(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	j := newTestJWT(t, clk, secret)

	_, err := j.Generate("", "operator")
	assert.ErrorIs(t, err, ErrSubjectRequired)

	token, err := j.Generate("ops@example.com", "operator")
	require.NoError(t, err)

	claims, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, "operator", claims.Role)
	assert.Equal(t, "id-1", claims.ID)

	other := newTestJWT(t, clk, strings.Repeat("x", 64))
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = j.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	clk.Advance(2 * time.Hour)
	_, err = j.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetAuth(ctx))

	ctx = SetAuth(ctx, Claims{Role: "operator"})
	got := GetAuth(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "operator", got.Role)
}
