package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.API.Timeout)
	assert.Equal(t, "UGX", cfg.Client.LocalCurrency)
	assert.Equal(t, 6, cfg.Client.FanOutLimit)
	assert.Equal(t, "sqlite", cfg.Sandbox.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Sandbox.ReviewAfter)
	assert.Equal(t, ":8080", cfg.Sandbox.Addr())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
api:
  base_url: https://file.example/api
  timeout: 5s
client:
  fan_out_limit: 3
`), 0o644))

	t.Setenv("MARKET_API_BASE_URL", "https://env.example/api")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.Client.FanOutLimit)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("MARKET_SANDBOX_DRIVER", "mysql")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("MARKET_SANDBOX_STORAGE_PROVIDER", "s3")
	_, err := Load("")
	assert.ErrorContains(t, err, "bucket")

	t.Setenv("MARKET_SANDBOX_STORAGE_BUCKET", "listing-images")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "listing-images", cfg.Sandbox.Storage.Bucket)
	assert.Equal(t, "us-east-1", cfg.Sandbox.Storage.Region)
	assert.Equal(t, "listings", cfg.Sandbox.Storage.Prefix)
}
