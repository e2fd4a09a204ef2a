package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

var ErrMissingBucket = errors.New("bucket name is required: set BUCKET or BUCKET_PARAM")

type Backend string

const (
	BackendS3    Backend = "s3"
	BackendMinio Backend = "minio"
	BackendFile  Backend = "file"
)

func (b *Backend) UnmarshalText(text []byte) error {
	switch v := Backend(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case BackendS3, BackendMinio, BackendFile:
		*b = v
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q", text)
	}
}

type S3Config struct {
	// Endpoint overrides the AWS endpoint for S3-compatible services.
	Endpoint     string `env:"ENDPOINT"`
	UsePathStyle bool   `env:"USE_PATH_STYLE"`
}

type MinioConfig struct {
	Endpoint  string `env:"ENDPOINT"   envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	UseSSL    bool   `env:"USE_SSL"`
	Region    string `env:"REGION"     envDefault:"us-east-1"`
}

type Config struct {
	Bucket string `env:"BUCKET"`
	// BucketParam names an SSM parameter holding the bucket. Only consulted
	// when Bucket is empty.
	BucketParam string `env:"BUCKET_PARAM"`

	Port    int     `env:"PORT"            envDefault:"8787"`
	Backend Backend `env:"STORAGE_BACKEND" envDefault:"s3"`

	S3       S3Config    `envPrefix:"S3_"`
	Minio    MinioConfig `envPrefix:"MINIO_"`
	FileRoot string      `env:"FILE_ROOT" envDefault:"./objects"`

	Distribution   string     `env:"DISTRIBUTION"`
	AllowedOrigins []string   `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	MaxBodyBytes   int64      `env:"MAX_BODY_BYTES"  envDefault:"10485760"`
	LogLevel       slog.Level `env:"LOG_LEVEL"       envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Bucket) == "" && strings.TrimSpace(c.BucketParam) == "" {
		return ErrMissingBucket
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive, got %d", c.MaxBodyBytes)
	}
	for _, origin := range c.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("allowed origin %q must be * or start with http:// or https://", origin)
		}
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
