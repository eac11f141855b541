package config

import (
	"io"
	"time"
)

// Config exposes typed, read-only access to configuration values.
//
// Missing keys resolve to the zero value of the requested type; callers that
// need a value must rely on the defaults registered by the implementation.
type Config interface {
	io.Closer

	// GetBool returns the value for key as bool.
	GetBool(key string) bool
	// GetString returns the value for key as string.
	GetString(key string) string
	// GetInt returns the value for key as int.
	GetInt(key string) int
	// GetInt32 returns the value for key as int32.
	GetInt32(key string) int32
	// GetFloat64 returns the value for key as float64.
	GetFloat64(key string) float64

	// GetSecond interprets an integer value as seconds.
	GetSecond(key string) time.Duration
	// GetMinute interprets an integer value as minutes.
	GetMinute(key string) time.Duration
	// GetHour interprets an integer value as hours.
	GetHour(key string) time.Duration

	// GetBinary decodes a base64 encoded value.
	GetBinary(key string) []byte
	// GetArray returns a list value. Strings are split on commas with
	// surrounding whitespace and empty elements removed.
	GetArray(key string) []string
	// GetMap returns a map value. Strings use the format <k1>:<v1>,<k2>:<v2>.
	GetMap(key string) map[string]string
}
