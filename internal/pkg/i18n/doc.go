// Package i18n resolves catalog keys into localized text.
//
// Catalogs are YAML files named messages.<locale>.yaml whose nested maps are
// flattened into dotted keys. The language catalogs (en, fr, de, es, pl) are
// embedded; a directory of additional files can override or extend them per
// locale. Lookups try the exact locale, then its language, then the
// configured fallback locales.
package i18n
