package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving duration values stored as integers.
type TimeConfig interface {
	// GetSecond retrieves the value associated with key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value associated with key as a number of minutes.
	GetMinute(key string) time.Duration

	// GetHour retrieves the value associated with key as a number of hours.
	GetHour(key string) time.Duration
}

// NumberConfig defines helpers for retrieving numeric values.
//
// Missing keys or values that cannot be converted yield the zero value.
type NumberConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetFloat64(key string) float64
}

// Config defines a set of methods for retrieving configuration values of various types.
// Implementations handle the retrieval and type conversion of configuration data and
// fall back to the zero value (or a registered default) when a key is absent.
type Config interface {
	io.Closer
	TimeConfig
	NumberConfig

	// IsSet reports whether key has a value from any source (file, env or default).
	IsSet(key string) bool

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetArray retrieves the value associated with key as a slice of strings.
	// The value is stored with format <element1>,<element2>,... and blank elements are dropped.
	GetArray(key string) []string
}
