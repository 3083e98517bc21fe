package config

import (
	"bytes"
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override file values.
// "modules.recovery.otp_ttl_minutes" is overridden by RECOVERY_MODULES_RECOVERY_OTP_TTL_MINUTES.
const EnvPrefix = "RECOVERY"

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// Option customizes a Viper before the configuration is read.
type Option func(v *viper.Viper)

// WithDefaults registers fallback values for keys absent from every source.
func WithDefaults(defaults map[string]any) Option {
	return func(v *viper.Viper) {
		for k, val := range defaults {
			v.SetDefault(k, val)
		}
	}
}

// NewViper loads configuration from the given file path and returns a Viper-backed Config.
//
// The config file type is inferred by Viper from the filename extension. The file is
// watched and reloaded on change; environment variables prefixed with EnvPrefix win
// over file values.
func NewViper(pathFile string, opts ...Option) (*Viper, error) {
	v := newViper(opts...)

	filename := path.Base(pathFile)
	configName := filename[:len(filename)-len(path.Ext(filename))]

	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(configName)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			slog.Error("config reload failed", "path", pathFile, "error", err)
			return
		}
		slog.Info("config success reloaded", "path", pathFile)
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory and returns a Viper-backed Config.
// configType should be a format supported by Viper (e.g. "yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte, opts ...Option) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}

	v := newViper(opts...)
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func newViper(opts ...Option) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}

	return v
}

func (vc *Viper) IsSet(key string) bool {
	return vc.v.IsSet(key)
}

func (vc *Viper) GetInt(key string) int {
	return vc.v.GetInt(key)
}

func (vc *Viper) GetInt32(key string) int32 {
	return vc.v.GetInt32(key)
}

func (vc *Viper) GetInt64(key string) int64 {
	return vc.v.GetInt64(key)
}

func (vc *Viper) GetUint(key string) uint {
	return vc.v.GetUint(key)
}

func (vc *Viper) GetUint16(key string) uint16 {
	return vc.v.GetUint16(key)
}

func (vc *Viper) GetFloat64(key string) float64 {
	return vc.v.GetFloat64(key)
}

func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetSecond returns the value for key as seconds.
func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

// GetMinute returns the value for key as minutes.
func (vc *Viper) GetMinute(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Minute
}

// GetHour returns the value for key as hours.
func (vc *Viper) GetHour(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Hour
}

// GetArray returns the value for key as a list. YAML sequences are taken as
// they are; a string (as env vars always are) is split by commas. Items are
// trimmed and blanks dropped.
func (vc *Viper) GetArray(key string) []string {
	var items []string
	switch raw := vc.v.Get(key).(type) {
	case nil:
		return nil
	case string:
		items = strings.Split(raw, ",")
	default:
		items = vc.v.GetStringSlice(key)
	}

	items = lo.Map(items, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})

	return lo.Compact(items)
}

// Close implements io.Closer for interface compatibility.
func (vc *Viper) Close() error {
	return nil
}
