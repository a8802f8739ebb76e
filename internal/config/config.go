// Package config loads CLI and server settings from flags, environment and
// an optional YAML file.
package config

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aretw0/deepset"
	"github.com/aretw0/deepset/internal/logging"
	"github.com/aretw0/deepset/pkg/adapters/file"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment variable (DEEPSET_STORE, ...).
	EnvPrefix = "DEEPSET"

	configFileName = "config"
	configFileType = "yaml"
	configDir      = ".deepset"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreLoam   = "loam"
)

// Config holds every setting of the deepset command.
type Config struct {
	Store  string `mapstructure:"store"`
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`

	SQLitePath string `mapstructure:"sqlite_path"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	RedisPrefix   string        `mapstructure:"redis_prefix"`
	RedisTTL      time.Duration `mapstructure:"redis_ttl"`
	RedisLock     bool          `mapstructure:"redis_lock"`

	LockTTL time.Duration `mapstructure:"lock_ttl"`

	// Match overrides the key pattern used to split string paths.
	Match string `mapstructure:"match"`

	// MaxHoles caps the nil padding of a write past the end of a list.
	MaxHoles int `mapstructure:"max_holes"`

	LogLevel string `mapstructure:"log_level"`

	// EncryptionKey is a 32 byte key, hex or base64 encoded. Empty disables encryption.
	EncryptionKey  string   `mapstructure:"encryption_key"`
	FallbackKeys   []string `mapstructure:"fallback_keys"`
	MaskedPatterns []string `mapstructure:"mask"`

	Port    int  `mapstructure:"port"`
	Metrics bool `mapstructure:"metrics"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Store:       StoreFile,
		Dir:         filepath.Join(configDir, "documents"),
		Format:      string(file.FormatJSON),
		SQLitePath:  filepath.Join(configDir, "documents.db"),
		RedisAddr:   "localhost:6379",
		RedisPrefix: "deepset:doc:",
		LockTTL:     30 * time.Second,
		MaxHoles:    deepset.DefaultMaxHoles,
		LogLevel:    "info",
		Port:        8080,
		Metrics:     true,
	}
}

// Bind registers defaults and environment lookups on v.
func Bind(v *viper.Viper) {
	var defaults map[string]any
	_ = mapstructure.Decode(Default(), &defaults)
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// Load reads the config file, if any, and decodes every setting known to v.
// An explicit path must exist; otherwise .deepset/config.yaml is optional.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := Decode(v.AllSettings())
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Decode builds a Config from loosely typed settings, starting from Default.
// Durations accept "5s" style strings and lists accept comma separated strings.
func Decode(input map[string]any) (Config, error) {
	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(input); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks enumerations, patterns and keys.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreSQLite, StoreRedis, StoreLoam:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if _, err := file.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.MatchPattern(); err != nil {
		return err
	}
	if c.MaxHoles < 0 {
		return fmt.Errorf("max_holes must not be negative, got %d", c.MaxHoles)
	}
	if _, _, err := c.Keys(); err != nil {
		return err
	}
	return nil
}

// MatchPattern compiles Match. It returns nil when Match is empty.
func (c Config) MatchPattern() (*regexp.Regexp, error) {
	if c.Match == "" {
		return nil, nil
	}
	re, err := regexp.Compile(c.Match)
	if err != nil {
		return nil, fmt.Errorf("invalid match pattern: %w", err)
	}
	return re, nil
}

// Keys decodes the encryption keys. A nil active key means encryption is off.
func (c Config) Keys() (active []byte, fallback [][]byte, err error) {
	if c.EncryptionKey == "" {
		if len(c.FallbackKeys) > 0 {
			return nil, nil, fmt.Errorf("fallback keys require an encryption key")
		}
		return nil, nil, nil
	}
	if active, err = decodeKey(c.EncryptionKey); err != nil {
		return nil, nil, fmt.Errorf("encryption key: %w", err)
	}
	for i, k := range c.FallbackKeys {
		b, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("fallback key %d: %w", i, err)
		}
		fallback = append(fallback, b)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if b, err := hex.DecodeString(s); err == nil && len(b) == 32 {
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil && len(b) == 32 {
		return b, nil
	}
	return nil, fmt.Errorf("must be 32 bytes, hex or base64 encoded")
}
