package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort        = 3000
	defaultEnv         = "development"
	defaultDBHost      = "127.0.0.1"
	defaultDBPort      = 3306
	defaultDBUser      = "root"
	defaultDBName      = "campusnotes"
	defaultDBCharset   = "utf8mb4"
	defaultDBLoc       = "Local"
	defaultRedisURL    = "redis://localhost:6379/0"
	defaultUploadMaxMB = 10
	defaultS3Region    = "us-east-1"
)

// AppConfig holds runtime startup configuration loaded from YAML.
// It is built once at process start and never mutated afterwards.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	Database       DatabaseConfig `yaml:"database"`
	RedisURL       string         `yaml:"redis_url"`
	JWTSecret      string         `yaml:"jwt_secret"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	S3             S3Config       `yaml:"s3"`
	Upload         UploadConfig   `yaml:"upload"`
}

// DatabaseConfig describes the MySQL connection. Either a full DSN or the
// individual parts may be given; the parts are assembled into a DSN at load.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

// S3Config describes the blob store the Blob Store Gateway talks to.
// Any S3-compatible endpoint works; CustomDomain, when set, is used to build
// the public URLs written onto note records.
type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       *bool  `yaml:"path_style"`
	CustomDomain    string `yaml:"custom_domain"`
	PutTimeoutSec   int    `yaml:"put_timeout_seconds"`
}

// UsePathStyle reports whether object URLs and API calls should address the
// bucket in the path. When path_style is absent from the config it defaults
// to true for custom endpoints, which rarely support virtual-host buckets,
// and false otherwise. An explicit value always wins.
func (s S3Config) UsePathStyle() bool {
	return s.PathStyle != nil && *s.PathStyle
}

// UploadConfig bounds incoming file payloads.
type UploadConfig struct {
	MaxSizeMB int `yaml:"max_size_mb"`
}

// Load reads, parses, and normalizes the YAML config file.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	normalize(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// MaxUploadBytes returns the request payload ceiling.
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) * 1024 * 1024
}

func validate(cfg *AppConfig) error {
	if cfg.S3.Bucket == "" {
		return fmt.Errorf("config: s3.bucket is required")
	}
	if cfg.S3.AccessKeyID == "" || cfg.S3.SecretAccessKey == "" {
		return fmt.Errorf("config: s3 credentials are required")
	}
	return nil
}
