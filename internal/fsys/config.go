package fsys

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/koustreak/bucketfs/internal/errs"
)

const (
	// DefaultPageSize is the listing page size used when Config.PageSize
	// is zero. 1000 is the protocol maximum for a single page.
	DefaultPageSize = 1000

	// DefaultTimeoutSeconds is the per-client HTTP timeout used when
	// Config.TimeoutSeconds is zero.
	DefaultTimeoutSeconds = 30
)

// Config holds all settings needed to connect a driver to a storage backend.
type Config struct {
	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO. When empty, it is derived
	// from Region ("s3.<region>.amazonaws.com").
	Endpoint string `yaml:"endpoint"`

	// AccessKey is the access key ID (MinIO / S3 style). Required.
	AccessKey string `yaml:"access_key"`

	// SecretKey is the secret access key. Required.
	SecretKey string `yaml:"secret_key"`

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool `yaml:"use_ssl"`

	// Region is used by region-aware backends (e.g. AWS S3).
	// Leave empty for MinIO.
	Region string `yaml:"region"`

	// Bucket is the bucket all filesystem operations act on. Required.
	Bucket string `yaml:"bucket"`

	// PageSize caps how many keys a single listing page requests.
	// 0 means DefaultPageSize; values above 1000 are clamped.
	PageSize int `yaml:"page_size"`

	// TimeoutSeconds is the per-client HTTP timeout applied to connection
	// setup, TLS handshake and response headers. 0 means
	// DefaultTimeoutSeconds.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// HTTPTimeout returns TimeoutSeconds as a duration.
func (cfg *Config) HTTPTimeout() time.Duration {
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

// DefaultConfig returns a sensible local-dev config for MinIO.
func DefaultConfig(endpoint, accessKey, secretKey, bucket string) *Config {
	return &Config{
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    bucket,
		UseSSL:    false,
	}
}

// LoadConfig reads a YAML config file from path.
// The result is not validated; drivers call Validate on construction.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to read config file", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to parse config file", err)
	}
	return cfg, nil
}

// Validate checks required fields and fills in defaults. It mutates cfg:
// after a nil return, Endpoint, PageSize and Timeout are all set.
func (cfg *Config) Validate() error {
	if cfg.AccessKey == "" {
		return errs.New(errs.ErrKindInvalidInput, "access key is required")
	}
	if cfg.SecretKey == "" {
		return errs.New(errs.ErrKindInvalidInput, "secret key is required")
	}
	if cfg.Bucket == "" {
		return errs.New(errs.ErrKindInvalidInput, "bucket is required")
	}

	if cfg.Endpoint == "" {
		if cfg.Region == "" {
			return errs.New(errs.ErrKindInvalidInput, "either endpoint or region is required")
		}
		cfg.Endpoint = fmt.Sprintf("s3.%s.amazonaws.com", cfg.Region)
		cfg.UseSSL = true
	}

	if cfg.PageSize <= 0 || cfg.PageSize > DefaultPageSize {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return nil
}
