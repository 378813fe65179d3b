package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, defaultDatabaseURL, cfg.DatabaseURL)
	assert.False(t, cfg.UsesPostgres())
	assert.Equal(t, "/static/uploads", cfg.UploadURLBase)
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_TTL", "forever")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_TTL")
}

func TestFromEnv_ProdRejectsDefaultSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/hotels")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromEnv_ProdRequiresPostgres(t *testing.T) {
	t.Setenv("APP_ENV", "release")
	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("DATABASE_URL", "local.db")

	_, err := FromEnv()
	require.Error(t, err)

	t.Setenv("DATABASE_URL", "postgresql://u:p@db/hotels")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
}

func TestFromEnv_CORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}
