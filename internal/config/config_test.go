package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
s3:
  bucket: campus-notes
  access_key_id: key
  secret_access_key: secret
`))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, 45, cfg.S3.PutTimeoutSec)
}

func TestLoadRequiresS3Settings(t *testing.T) {
	_, err := Load(writeConfig(t, "port: 8080\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3.bucket")

	_, err = Load(writeConfig(t, `
s3:
  bucket: campus-notes
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}

func TestCustomEndpointDefaultsToPathStyle(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
s3:
  bucket: campus-notes
  access_key_id: key
  secret_access_key: secret
  endpoint: minio.local:9000/
`))
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local:9000", cfg.S3.Endpoint)
	assert.True(t, cfg.S3.UsePathStyle())
}

// An explicit path_style value survives normalization in both directions.
func TestExplicitPathStyleWins(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
s3:
  bucket: campus-notes
  access_key_id: key
  secret_access_key: secret
  endpoint: storage.example.com
  path_style: false
`))
	require.NoError(t, err)
	assert.False(t, cfg.S3.UsePathStyle())

	cfg, err = Load(writeConfig(t, `
s3:
  bucket: campus-notes
  access_key_id: key
  secret_access_key: secret
  path_style: true
`))
	require.NoError(t, err)
	assert.True(t, cfg.S3.UsePathStyle())
}

func TestPathStyleDefaultsOffWithoutEndpoint(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
s3:
  bucket: campus-notes
  access_key_id: key
  secret_access_key: secret
`))
	require.NoError(t, err)
	assert.False(t, cfg.S3.UsePathStyle())
}

func TestDSNAssembly(t *testing.T) {
	db := normalizeDatabase(DatabaseConfig{
		User:     "notes",
		Password: "pw",
		Host:     "db.internal",
		Name:     "campusnotes",
	})
	dsn := db.DSNValue()
	assert.Contains(t, dsn, "notes:pw@tcp(db.internal:3306)/campusnotes?")
	assert.Contains(t, dsn, "parseTime=True")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestExplicitDSNWins(t *testing.T) {
	db := DatabaseConfig{DSN: "user:pw@tcp(1.2.3.4:3306)/x"}
	assert.Equal(t, "user:pw@tcp(1.2.3.4:3306)/x", db.DSNValue())
}
