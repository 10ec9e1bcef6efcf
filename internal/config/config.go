package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmorgan81/imagedesk/internal/log"
	"github.com/dmorgan81/imagedesk/internal/param"
	"github.com/samber/lo"
)

const (
	DefaultAddr       = "127.0.0.1:8080"
	DefaultOutputPath = "generated_image.png"
)

// ConfigurationError reports a missing or unknown configuration value.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}

type Config struct {
	APIURL       string
	APIKey       string
	Addr         string
	OutputPath   string
	Bucket       string
	Distribution string
}

// Loader resolves each key from the environment, or from the secure store
// when KEY_PARAM names a parameter path.
type Loader struct {
	Env    param.Fetcher
	Secure func() (param.Fetcher, error)
}

func (l *Loader) Load(ctx context.Context) (Config, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("config")

	var cfg Config
	fields := []struct {
		key      string
		dst      *string
		def      string
		required bool
	}{
		{"STABILITY_API_URL", &cfg.APIURL, "", true},
		{"STABILITY_API_KEY", &cfg.APIKey, "", true},
		{"ADDR", &cfg.Addr, DefaultAddr, false},
		{"OUTPUT_PATH", &cfg.OutputPath, DefaultOutputPath, false},
		{"BUCKET", &cfg.Bucket, "", false},
		{"DISTRIBUTION", &cfg.Distribution, "", false},
	}
	for _, f := range fields {
		v, err := l.lookup(ctx, f.key)
		if err != nil {
			return Config{}, fmt.Errorf("resolve %s: %w", f.key, err)
		}
		v = strings.TrimSpace(v)
		if v == "" && f.required {
			return Config{}, &ConfigurationError{Key: f.key, Reason: "required value is not set"}
		}
		*f.dst = lo.Ternary(v != "", v, f.def)
	}

	log.Info("configuration loaded",
		"addr", cfg.Addr,
		"output", cfg.OutputPath,
		"bucket", cfg.Bucket,
		"distribution", cfg.Distribution,
	)
	return cfg, nil
}

func (l *Loader) lookup(ctx context.Context, key string) (string, error) {
	path, err := l.Env.Fetch(ctx, key+"_PARAM")
	if err != nil {
		return "", err
	}
	if path == "" || l.Secure == nil {
		return l.Env.Fetch(ctx, key)
	}
	secure, err := l.Secure()
	if err != nil {
		return "", err
	}
	return secure.Fetch(ctx, path)
}
