package config

import (
	"errors"
	"log/slog"
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BUCKET", "my-bucket")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bucket != "my-bucket" {
		t.Errorf("Bucket = %q", cfg.Bucket)
	}
	if cfg.Port != 8787 {
		t.Errorf("Port = %d, want 8787", cfg.Port)
	}
	if cfg.Addr() != ":8787" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if cfg.Backend != BackendS3 {
		t.Errorf("Backend = %q, want s3", cfg.Backend)
	}
	if cfg.Minio.Endpoint != "localhost:9000" || cfg.Minio.Region != "us-east-1" {
		t.Errorf("unexpected minio defaults %+v", cfg.Minio)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.MaxBodyBytes != 10<<20 {
		t.Errorf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BUCKET", "photos")
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_BACKEND", "MINIO")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("MINIO_ACCESS_KEY", "key")
	t.Setenv("MINIO_SECRET_KEY", "secret")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("S3_ENDPOINT", "http://localstack:4566")
	t.Setenv("S3_USE_PATH_STYLE", "true")
	t.Setenv("DISTRIBUTION", "E123")
	t.Setenv("ALLOWED_ORIGINS", "https://gabu.app,http://localhost:5173")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 || cfg.Backend != BackendMinio {
		t.Errorf("unexpected port/backend %d/%q", cfg.Port, cfg.Backend)
	}
	want := MinioConfig{Endpoint: "minio:9000", AccessKey: "key", SecretKey: "secret", UseSSL: true, Region: "us-east-1"}
	if cfg.Minio != want {
		t.Errorf("Minio = %+v, want %+v", cfg.Minio, want)
	}
	if cfg.S3 != (S3Config{Endpoint: "http://localstack:4566", UsePathStyle: true}) {
		t.Errorf("S3 = %+v", cfg.S3)
	}
	if cfg.Distribution != "E123" {
		t.Errorf("Distribution = %q", cfg.Distribution)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"https://gabu.app", "http://localhost:5173"}) {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoadRequiresBucket(t *testing.T) {
	t.Setenv("BUCKET", "")
	t.Setenv("BUCKET_PARAM", "")

	if _, err := Load(); !errors.Is(err, ErrMissingBucket) {
		t.Fatalf("expected ErrMissingBucket, got %v", err)
	}
}

func TestLoadAcceptsBucketParam(t *testing.T) {
	t.Setenv("BUCKET", "")
	t.Setenv("BUCKET_PARAM", "/gabu/bucket")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BucketParam != "/gabu/bucket" {
		t.Fatalf("BucketParam = %q", cfg.BucketParam)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("BUCKET", "b")
	t.Setenv("STORAGE_BACKEND", "gcs")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestValidate(t *testing.T) {
	base := Config{Bucket: "b", Port: 8787, MaxBodyBytes: 1}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"blank bucket", func(c *Config) { c.Bucket = "  " }, true},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"no body", func(c *Config) { c.MaxBodyBytes = 0 }, true},
		{"wildcard origin", func(c *Config) { c.AllowedOrigins = []string{"*"} }, false},
		{"explicit origins", func(c *Config) { c.AllowedOrigins = []string{"https://gabu.app", "http://localhost:5173"} }, false},
		{"origin without scheme", func(c *Config) { c.AllowedOrigins = []string{"https://gabu.app", "gabu.app"} }, true},
		{"empty origin", func(c *Config) { c.AllowedOrigins = []string{""} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRejectsSchemelessOrigin(t *testing.T) {
	t.Setenv("BUCKET", "my-bucket")
	t.Setenv("ALLOWED_ORIGINS", "gabu.app")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for origin without scheme")
	}
}
