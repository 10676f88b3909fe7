package config

import (
	"fmt"
	neturl "net/url"
	"strings"
)

func normalize(cfg *AppConfig) {
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	cfg.Database = normalizeDatabase(cfg.Database)

	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}

	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)

	origins := cfg.AllowedOrigins[:0]
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.AllowedOrigins = origins

	cfg.S3 = normalizeS3(cfg.S3)

	if cfg.Upload.MaxSizeMB <= 0 {
		cfg.Upload.MaxSizeMB = defaultUploadMaxMB
	}
}

func normalizeDatabase(db DatabaseConfig) DatabaseConfig {
	db.DSN = strings.TrimSpace(db.DSN)
	db.Host = strings.TrimSpace(db.Host)
	db.User = strings.TrimSpace(db.User)
	db.Password = strings.TrimSpace(db.Password)
	db.Name = strings.TrimSpace(db.Name)
	db.Charset = strings.TrimSpace(db.Charset)
	db.Loc = strings.TrimSpace(db.Loc)

	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Name == "" {
		db.Name = defaultDBName
	}
	if db.Charset == "" {
		db.Charset = defaultDBCharset
	}
	if db.Loc == "" {
		db.Loc = defaultDBLoc
	}
	return db
}

func normalizeS3(s3 S3Config) S3Config {
	s3.Endpoint = strings.TrimSuffix(strings.TrimSpace(s3.Endpoint), "/")
	if s3.Endpoint != "" && !strings.HasPrefix(s3.Endpoint, "http://") && !strings.HasPrefix(s3.Endpoint, "https://") {
		s3.Endpoint = "https://" + s3.Endpoint
	}
	s3.Region = strings.TrimSpace(s3.Region)
	if s3.Region == "" {
		s3.Region = defaultS3Region
	}
	s3.Bucket = strings.TrimSpace(s3.Bucket)
	s3.AccessKeyID = strings.TrimSpace(s3.AccessKeyID)
	s3.SecretAccessKey = strings.TrimSpace(s3.SecretAccessKey)
	s3.CustomDomain = strings.TrimRight(strings.TrimSpace(s3.CustomDomain), "/")
	// Custom endpoints almost always need path-style addressing, so that is
	// the default when path_style is not set. An explicit false is kept for
	// providers that do support virtual-host buckets.
	if s3.PathStyle == nil {
		v := s3.Endpoint != ""
		s3.PathStyle = &v
	}
	if s3.PutTimeoutSec <= 0 {
		s3.PutTimeoutSec = 45
	}
	return s3
}

// DSNValue assembles the MySQL DSN from the configured parts unless a full
// DSN was given directly.
func (c DatabaseConfig) DSNValue() string {
	if c.DSN != "" {
		return c.DSN
	}

	params := neturl.Values{}
	params.Set("charset", c.Charset)
	params.Set("parseTime", "True")
	params.Set("loc", c.Loc)

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.User, c.Password, c.Host, c.Port, c.Name, params.Encode())
}
