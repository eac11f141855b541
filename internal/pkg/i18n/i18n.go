package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/de_DE"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/en_GB"
	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/es_ES"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/fr_FR"
	"github.com/go-playground/locales/pl"
	"github.com/go-playground/locales/pl_PL"
	ut "github.com/go-playground/universal-translator"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed translations/*.yaml
var embedded embed.FS

var (
	// ErrUnsupportedLocale is returned when the locale is empty or has no registered catalog.
	ErrUnsupportedLocale = errors.New("i18n: unsupported locale")
	// ErrTranslationMissing is returned when no catalog in the lookup chain holds the key.
	ErrTranslationMissing = errors.New("i18n: translation missing")
	// ErrInvalidCatalog is returned when a catalog file cannot be loaded.
	ErrInvalidCatalog = errors.New("i18n: invalid catalog")
)

// Translator resolves catalog keys into localized text.
type Translator interface {
	Translate(key, locale string) (string, error)
	TranslateParams(key, locale string, params ...string) (string, error)
}

// Config configures NewUniversalTranslator.
type Config struct {
	// Dir optionally points at a directory of messages.<locale>.yaml files.
	// Entries found there override the embedded catalogs.
	Dir string
	// FallbackLocales are tried, in order, after the exact locale and its language.
	FallbackLocales []string
}

// UniversalTranslator implements Translator on top of go-playground/universal-translator.
type UniversalTranslator struct {
	translators map[string]ut.Translator
	// arity records the placeholder count of every loaded entry, per locale.
	arity     map[string]map[string]int
	fallbacks []string
}

func supportedLocales() []locales.Translator {
	return []locales.Translator{
		en.New(), en_US.New(), en_GB.New(),
		fr.New(), fr_FR.New(),
		de.New(), de_DE.New(),
		es.New(), es_ES.New(),
		pl.New(), pl_PL.New(),
	}
}

// NewUniversalTranslator loads the embedded catalogs plus the optional override directory.
func NewUniversalTranslator(cfg Config) (*UniversalTranslator, error) {
	supported := supportedLocales()
	uni := ut.New(supported[0], supported...)

	t := &UniversalTranslator{
		translators: make(map[string]ut.Translator, len(supported)),
		arity:       make(map[string]map[string]int, len(supported)),
	}

	for _, l := range supported {
		trans, found := uni.GetTranslator(l.Locale())
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocale, l.Locale())
		}
		t.translators[l.Locale()] = trans
		t.arity[l.Locale()] = map[string]int{}
	}

	if err := t.loadFS(embedded, "translations", false); err != nil {
		return nil, err
	}

	if cfg.Dir != "" {
		if err := t.loadFS(os.DirFS(cfg.Dir), ".", true); err != nil {
			return nil, err
		}
	}

	for _, fb := range lo.Uniq(cfg.FallbackLocales) {
		loc, err := t.resolve(fb)
		if err != nil {
			return nil, fmt.Errorf("fallback locale %q: %w", fb, err)
		}
		t.fallbacks = append(t.fallbacks, loc)
	}

	return t, nil
}

// Locales returns the supported locale codes, sorted.
func (t *UniversalTranslator) Locales() []string {
	keys := lo.Keys(t.translators)
	sort.Strings(keys)
	return keys
}

// Translate resolves key for locale without parameters.
func (t *UniversalTranslator) Translate(key, locale string) (string, error) {
	return t.TranslateParams(key, locale)
}

// TranslateParams resolves key for locale and substitutes {0}, {1}, ... with params.
// Missing params render as empty strings; extra params are ignored.
func (t *UniversalTranslator) TranslateParams(key, locale string, params ...string) (string, error) {
	loc, err := t.resolve(locale)
	if err != nil {
		return "", err
	}

	for _, candidate := range t.chain(loc) {
		n, ok := t.arity[candidate][key]
		if !ok {
			continue
		}

		args := make([]string, n)
		copy(args, params)

		text, err := t.translators[candidate].T(key, args...)
		if err != nil {
			return "", err
		}
		return unshieldBraces.Replace(text), nil
	}

	return "", fmt.Errorf("%w: %s (%s)", ErrTranslationMissing, key, loc)
}

func (t *UniversalTranslator) chain(loc string) []string {
	out := []string{loc}
	if lang, _, ok := strings.Cut(loc, "_"); ok {
		out = append(out, lang)
	}
	return lo.Uniq(append(out, t.fallbacks...))
}

func (t *UniversalTranslator) resolve(locale string) (string, error) {
	loc := Normalize(locale)
	if _, ok := t.translators[loc]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}
	return loc, nil
}

// Normalize rewrites locale tags such as "en-us" or "EN_US" into "en_US".
func Normalize(locale string) string {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "-", "_")
	lang, region, ok := strings.Cut(locale, "_")
	if !ok {
		return strings.ToLower(lang)
	}
	return strings.ToLower(lang) + "_" + strings.ToUpper(region)
}

func (t *UniversalTranslator) loadFS(fsys fs.FS, dir string, override bool) error {
	files, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(dir, "messages.*.yaml")))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "messages."), ".yaml")
		loc, err := t.resolve(name)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, file, err)
		}

		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return err
		}

		entries, err := parseCatalog(raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, file, err)
		}

		for key, text := range entries {
			n, err := placeholders(text)
			if err != nil {
				return fmt.Errorf("%w: %s: %s: %w", ErrInvalidCatalog, file, key, err)
			}
			if err := t.translators[loc].Add(key, shieldBraces(text), override); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, file, err)
			}
			t.arity[loc][key] = n
		}
	}

	return nil
}

// parseCatalog flattens nested YAML maps into dotted keys.
func parseCatalog(raw []byte) (map[string]string, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}

	out := map[string]string{}
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

var placeholderPattern = regexp.MustCompile(`\{\d+\}`)

// Literal braces are stored as private-use runes; the underlying translator
// treats every brace as a parameter marker.
const (
	literalOpen  = "\uE000"
	literalClose = "\uE001"
)

var (
	shieldLiteral  = strings.NewReplacer("{", literalOpen, "}", literalClose)
	unshieldBraces = strings.NewReplacer(literalOpen, "{", literalClose, "}")
)

func shieldBraces(text string) string {
	var b strings.Builder
	prev := 0
	for _, m := range placeholderPattern.FindAllStringIndex(text, -1) {
		b.WriteString(shieldLiteral.Replace(text[prev:m[0]]))
		b.WriteString(text[m[0]:m[1]])
		prev = m[1]
	}
	b.WriteString(shieldLiteral.Replace(text[prev:]))
	return b.String()
}

// placeholders counts {N} markers and checks they appear once each, in order.
// Other braces are literal text.
func placeholders(text string) (int, error) {
	n := len(placeholderPattern.FindAllString(text, -1))
	last := -1
	for i := range n {
		marker := "{" + strconv.Itoa(i) + "}"
		idx := strings.Index(text, marker)
		if idx == -1 || idx < last || strings.Count(text, marker) > 1 {
			return 0, fmt.Errorf("placeholder %s missing or out of order", marker)
		}
		last = idx
	}
	return n, nil
}
