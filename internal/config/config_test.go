package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "5002", cfg.Server.Port)
	assert.Equal(t, ":5002", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Server.SwaggerEnabled)
	assert.Equal(t, "models/database.json", cfg.Storage.DataFile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}, cfg.CORS.AllowedMethods)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATA_FILE", "/var/lib/profiles/db.json")
	t.Setenv("LOG_DEVELOPMENT", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/var/lib/profiles/db.json", cfg.Storage.DataFile)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestParseRejectsBadDuration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "soon")

	_, err := Parse()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{Server: ServerConfig{Port: "5002"}, Storage: StorageConfig{DataFile: "db.json"}}
	assert.NoError(t, cfg.Validate())

	cfg.Storage.DataFile = ""
	assert.EqualError(t, cfg.Validate(), "DATA_FILE is required")

	cfg.Server.Port = ""
	assert.EqualError(t, cfg.Validate(), "SERVER_PORT is required")
}
