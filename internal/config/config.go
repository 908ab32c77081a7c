// Package config loads gift.yaml, the project-level settings shared by every
// CLI command.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when --config is empty.
const DefaultFile = "gift.yaml"

// Backend names accepted by store.backend.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Config is the content of gift.yaml.
type Config struct {
	History HistoryConfig `yaml:"history"`
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

type HistoryConfig struct {
	MaxVersions int  `yaml:"max_versions" validate:"min=1,max=1000"`
	ArrayLCS    bool `yaml:"array_lcs"`
}

type StoreConfig struct {
	Backend string `yaml:"backend" validate:"oneof=file memory redis badger"`
	Path    string `yaml:"path"`
	// EncryptionKey is a base64 encoded 32 byte AES key. Empty disables encryption.
	EncryptionKey string      `yaml:"encryption_key" validate:"omitempty,base64"`
	Flatten       bool        `yaml:"flatten"`
	Redis         RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"min=0"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl" validate:"min=0"`
	// Lock enables the distributed session lock.
	Lock bool `yaml:"lock"`
}

type ServerConfig struct {
	Port        int `yaml:"port" validate:"min=1,max=65535"`
	MetricsPort int `yaml:"metrics_port" validate:"min=0,max=65535"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		History: HistoryConfig{MaxVersions: 20},
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    ".gift/sessions",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "gift:session:",
			},
		},
		Server: ServerConfig{Port: 8080, MetricsPort: 2112},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// path is the default one.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges and the encryption key length.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Store.EncryptionKey != "" {
		if _, err := c.EncryptionKeyBytes(); err != nil {
			return err
		}
	}
	return nil
}

// EncryptionKeyBytes decodes store.encryption_key.
func (c Config) EncryptionKeyBytes() ([]byte, error) {
	if c.Store.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.Store.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid encryption key: want 32 bytes, got %d", len(key))
	}
	return key, nil
}
