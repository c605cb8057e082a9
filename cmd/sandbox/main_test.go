package main

import (
	"testing"

	"classifieds_app_v1_202610/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestStorageConfig(t *testing.T) {
	cfg := &config.Config{Sandbox: config.SandboxConfig{
		StorageDir:    "./storage",
		PublicBaseURL: "http://localhost:8080",
		Storage: config.StorageConfig{
			Provider: "local",
			Prefix:   "listings",
			Bucket:   "pictures",
			Region:   "us-east-1",
		},
	}}

	local := storageConfig(cfg)
	assert.Equal(t, "./storage", local.BasePath)
	assert.Equal(t, "http://localhost:8080", local.PublicBaseURL)
	assert.Empty(t, local.KeyPrefix)

	cfg.Sandbox.Storage.Provider = "s3"
	s3 := storageConfig(cfg)
	assert.Equal(t, "listings", s3.KeyPrefix)
	assert.Empty(t, s3.BasePath, "本地目录不能出现在 S3 key 中")
	assert.Equal(t, "pictures", s3.Bucket)
	assert.Equal(t, "us-east-1", s3.Region)
}
