// Package config loads surf-terminal settings from an optional YAML file and SURF_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	// EnvPrefix is stripped from environment variables before they are mapped onto config keys.
	// SURF_API_URL becomes api.url.
	EnvPrefix = "SURF_"

	// FileName is looked up in the search paths when no explicit config file is given
	FileName = "surf-terminal.yaml"

	defaultAPIURL = "http://localhost:8000"
)

// Config holds all runtime settings
type Config struct {
	API struct {
		URL     string        `koanf:"url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"api"`

	Auth struct {
		// URL of the auth service (GoTrue-compatible). Empty disables sign in.
		URL string `koanf:"url"`
		// Key is the public anon key sent as the apikey header.
		Key string `koanf:"key"`
	} `koanf:"auth"`

	Database struct {
		Path string `koanf:"path"`
	} `koanf:"database"`

	Log struct {
		Level string `koanf:"level"`
		File  string `koanf:"file"`
		JSON  bool   `koanf:"json"`
	} `koanf:"log"`

	Identity struct {
		ProfileTTL time.Duration `koanf:"profilettl"`
	} `koanf:"identity"`

	Metrics struct {
		// Addr serves /metrics when set, e.g. "127.0.0.1:9090"
		Addr string `koanf:"addr"`
	} `koanf:"metrics"`

	UI struct {
		// ReviewLimit caps the reviews shown on a spot page (0 = all)
		ReviewLimit int `koanf:"reviewlimit"`
	} `koanf:"ui"`
}

// Default returns a config with every field set to its default
func Default() *Config {
	cfg := &Config{}
	cfg.API.URL = defaultAPIURL
	cfg.API.Timeout = 30 * time.Second
	cfg.Database.Path = filepath.Join("data", "surf-terminal.db")
	cfg.Log.Level = "info"
	cfg.Log.File = filepath.Join("data", "surf-terminal.log")
	cfg.Identity.ProfileTTL = 10 * time.Minute
	cfg.UI.ReviewLimit = 20
	return cfg
}

// Load builds the config from defaults, then the YAML file, then the environment.
// configPath may be empty, in which case FileName is searched for in "." and "data".
// A missing default file is not an error; a missing explicit file is.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	path, err := resolveFile(configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable fallback
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.URL) == "" {
		return errors.New("api.url must not be empty")
	}
	if c.API.Timeout <= 0 {
		return errors.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Database.Path == "" {
		return errors.New("database.path must not be empty")
	}
	return nil
}

// APIBaseURL returns the backend URL with the /api prefix applied exactly once
func (c *Config) APIBaseURL() string {
	base := strings.TrimRight(c.API.URL, "/")
	if strings.HasSuffix(base, "/api") {
		return base
	}
	return base + "/api"
}

// AuthEnabled reports whether an auth service is configured
func (c *Config) AuthEnabled() bool {
	return c.Auth.URL != ""
}

// transformEnv maps SURF_LOG_LEVEL to log.level
func transformEnv(k, v string) (string, any) {
	key := strings.TrimPrefix(k, EnvPrefix)
	key = strings.ToLower(strings.ReplaceAll(key, "_", "."))
	return key, v
}

func resolveFile(configPath string) (string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return "", errors.Wrapf(err, "config file %s", configPath)
		}
		return configPath, nil
	}

	for _, dir := range []string{".", "data"} {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}
