package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DEVAPI_ADDR", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.ListenAddr)
	assert.Equal(t, "devapi.db", cfg.DatabaseURL)
	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.KafkaBroker)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DEVAPI_ADDR", ":9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/inv")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "postgres://u:p@db:5432/inv", cfg.DatabaseURL)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBroker)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_BadTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("JWT_TTL", "soon")
	_, err := Load()
	require.Error(t, err)
}
