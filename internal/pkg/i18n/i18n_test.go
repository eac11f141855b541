package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenKey = "sylius.email.admin_password_reset.to_reset_your_password_token"

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"en_US":  "en_US",
		"en-us":  "en_US",
		"EN_us":  "en_US",
		" fr ":   "fr",
		"DE-de":  "de_DE",
		"":       "",
		"pl_pl ": "pl_PL",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestUniversalTranslator_Translate(t *testing.T) {
	tr, err := NewUniversalTranslator(Config{})
	require.NoError(t, err)

	tests := []struct {
		name    string
		locale  string
		want    string
		wantErr error
	}{
		{name: "en_US falls back to language catalog", locale: "en_US", want: "To reset your password - click the link below"},
		{name: "dash tag", locale: "en-GB", want: "To reset your password - click the link below"},
		{name: "french", locale: "fr_FR", want: "Pour réinitialiser votre mot de passe, cliquez sur le lien ci-dessous"},
		{name: "german language only", locale: "de", want: "Um Ihr Passwort zurückzusetzen, klicken Sie auf den folgenden Link"},
		{name: "unsupported", locale: "xx_YY", wantErr: ErrUnsupportedLocale},
		{name: "empty", locale: "", wantErr: ErrUnsupportedLocale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.Translate(tokenKey, tt.locale)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUniversalTranslator_TranslateMissing(t *testing.T) {
	tr, err := NewUniversalTranslator(Config{})
	require.NoError(t, err)

	_, err = tr.Translate("sylius.email.unknown", "en_US")
	assert.ErrorIs(t, err, ErrTranslationMissing)
}

func TestUniversalTranslator_TranslateParams(t *testing.T) {
	tr, err := NewUniversalTranslator(Config{})
	require.NoError(t, err)

	got, err := tr.TranslateParams("sylius.email.admin_password_reset.hello", "en_US", "sylius")
	require.NoError(t, err)
	assert.Equal(t, "Hello sylius", got)

	got, err = tr.TranslateParams("sylius.email.admin_password_reset.hello", "pl_PL")
	require.NoError(t, err)
	assert.Equal(t, "Witaj ", got)

	got, err = tr.TranslateParams("sylius.email.admin_password_reset.subject", "es", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "Restablecer contraseña", got)
}

func TestUniversalTranslator_OverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.en_GB.yaml"), []byte(`
sylius:
  email:
    admin_password_reset:
      to_reset_your_password_token: "To reset your password, follow the link below"
      extra: "Only in {0}"
`), 0o600))

	tr, err := NewUniversalTranslator(Config{Dir: dir})
	require.NoError(t, err)

	got, err := tr.Translate(tokenKey, "en_GB")
	require.NoError(t, err)
	assert.Equal(t, "To reset your password, follow the link below", got)

	got, err = tr.Translate(tokenKey, "en_US")
	require.NoError(t, err)
	assert.Equal(t, "To reset your password - click the link below", got)

	got, err = tr.TranslateParams("sylius.email.admin_password_reset.extra", "en_GB", "Britain")
	require.NoError(t, err)
	assert.Equal(t, "Only in Britain", got)
}

func TestUniversalTranslator_FallbackLocales(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.fr.yaml"), []byte(`app:
  only_french: "Seulement en français"
`), 0o600))

	tr, err := NewUniversalTranslator(Config{Dir: dir, FallbackLocales: []string{"fr", "fr"}})
	require.NoError(t, err)

	got, err := tr.Translate("app.only_french", "de_DE")
	require.NoError(t, err)
	assert.Equal(t, "Seulement en français", got)

	_, err = NewUniversalTranslator(Config{FallbackLocales: []string{"zz"}})
	assert.ErrorIs(t, err, ErrUnsupportedLocale)
}

func TestUniversalTranslator_InvalidCatalog(t *testing.T) {
	tests := map[string]struct {
		file    string
		content string
	}{
		"unsupported locale file": {file: "messages.xx.yaml", content: "a: b\n"},
		"bad yaml":                {file: "messages.en.yaml", content: "a: [\n"},
		"placeholder gap":         {file: "messages.en.yaml", content: "a: \"{1} only\"\n"},
		"repeated placeholder":    {file: "messages.en.yaml", content: "a: \"{0} and {0}\"\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0o600))

			_, err := NewUniversalTranslator(Config{Dir: dir})
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestUniversalTranslator_LiteralBraces(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.en.yaml"), []byte(`
notice: "Ignore this email {if you did not ask}"
mixed: "Hello {0}, keep {this} and {1}"
stray: "curly { brace"
`), 0o600))

	tr, err := NewUniversalTranslator(Config{Dir: dir})
	require.NoError(t, err)

	got, err := tr.Translate("notice", "en")
	require.NoError(t, err)
	assert.Equal(t, "Ignore this email {if you did not ask}", got)

	got, err = tr.TranslateParams("mixed", "en_US", "Ann", "that")
	require.NoError(t, err)
	assert.Equal(t, "Hello Ann, keep {this} and that", got)

	got, err = tr.Translate("stray", "en")
	require.NoError(t, err)
	assert.Equal(t, "curly { brace", got)
}

func TestUniversalTranslator_Locales(t *testing.T) {
	tr, err := NewUniversalTranslator(Config{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"de", "de_DE", "en", "en_GB", "en_US", "es", "es_ES", "fr", "fr_FR", "pl", "pl_PL",
	}, tr.Locales())
}
