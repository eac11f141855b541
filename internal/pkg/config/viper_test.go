package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViperFromBytes(t *testing.T) {
	t.Run("requires type", func(t *testing.T) {
		_, err := NewViperFromBytes(" ", nil)
		assert.ErrorIs(t, err, ErrConfigTypeRequired)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := NewViperFromBytes("yaml", []byte("mail: [unclosed"))
		assert.Error(t, err)
	})
}

func TestViper_Getters(t *testing.T) {
	secret := base64.StdEncoding.EncodeToString([]byte("s3cr3t"))
	cfg, err := NewViperFromBytes("yaml", []byte(`
mail:
  driver: memory
  smtp:
    port: 2525
    insecure_skip_verify: true
  spool:
    recover_timeout_seconds: 30
    time_limit_seconds: 2
instrument:
  trace_sample_ratio: 0.25
  log_mask_fields: "password, token,,"
translation:
  fallback_locales: [en, fr]
jwt:
  secret: "`+secret+`"
  ttl_minutes: 5
modules:
  identity:
    password_reset_ttl_minutes: 3
  notification:
    headers: "X-App:resetmail, X-Env:test"
    labels:
      team: ops
extra:
  hours: 2
  broken_binary: "%%%"
`))
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.GetString("mail.driver"))
	assert.Equal(t, 2525, cfg.GetInt("mail.smtp.port"))
	assert.Equal(t, int32(2525), cfg.GetInt32("mail.smtp.port"))
	assert.True(t, cfg.GetBool("mail.smtp.insecure_skip_verify"))
	assert.InDelta(t, 0.25, cfg.GetFloat64("instrument.trace_sample_ratio"), 0.0001)
	assert.Equal(t, 30*time.Second, cfg.GetSecond("mail.spool.recover_timeout_seconds"))
	assert.Equal(t, 5*time.Minute, cfg.GetMinute("jwt.ttl_minutes"))
	assert.Equal(t, 2*time.Hour, cfg.GetHour("extra.hours"))
	assert.Equal(t, []byte("s3cr3t"), cfg.GetBinary("jwt.secret"))
	assert.Nil(t, cfg.GetBinary("extra.broken_binary"))
	assert.Equal(t, []string{"password", "token"}, cfg.GetArray("instrument.log_mask_fields"))
	assert.Equal(t, []string{"en", "fr"}, cfg.GetArray("translation.fallback_locales"))
	assert.Equal(t, map[string]string{"X-App": "resetmail", "X-Env": "test"}, cfg.GetMap("modules.notification.headers"))
	assert.Equal(t, map[string]string{"team": "ops"}, cfg.GetMap("modules.notification.labels"))
	assert.NoError(t, cfg.Close())
}

func TestViper_Defaults(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte("app:\n  name: custom\n"))
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.GetString("app.name"))
	assert.Equal(t, "spool", cfg.GetString("mail.driver"))
	assert.Equal(t, "en_US", cfg.GetString("modules.notification.default_locale"))
	assert.Equal(t, 900*time.Second, cfg.GetSecond("mail.spool.recover_timeout_seconds"))
	assert.Equal(t, []string{"memory"}, cfg.GetArray("messaging.driver"))
	assert.Empty(t, cfg.GetArray("translation.fallback_locales"))
}

func TestViper_EnvOverride(t *testing.T) {
	t.Setenv("RESETMAIL_MAIL_DRIVER", "smtp")

	cfg, err := NewViperFromBytes("yaml", []byte("mail:\n  driver: memory\n"))
	require.NoError(t, err)

	assert.Equal(t, "smtp", cfg.GetString("mail.driver"))
}

func TestNewViper(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("app:\n  admin_url: https://shop.test/admin\n"), 0o600))

	cfg, err := NewViper(file)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.test/admin", cfg.GetString("app.admin_url"))

	_, err = NewViper(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
