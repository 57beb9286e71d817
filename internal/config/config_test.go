package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_PoolSizingDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("DB_MIN_CONNS", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.EqualValues(t, 25, cfg.Database.MaxConns)
	assert.EqualValues(t, 5, cfg.Database.MinConns)
}

func TestLoad_PoolSizingFromEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
	t.Setenv("DB_MAX_CONNS", "50")
	t.Setenv("DB_MIN_CONNS", "10")

	cfg, err := Load()

	require.NoError(t, err)
	assert.EqualValues(t, 50, cfg.Database.MaxConns)
	assert.EqualValues(t, 10, cfg.Database.MinConns)
}

func TestLoad_InvalidPoolSizingRejected(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
	t.Setenv("DB_MAX_CONNS", "plenty")

	_, err := Load()

	assert.ErrorContains(t, err, "DB_MAX_CONNS")
}

func TestLoad_MissingSecretsRejected(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")

	_, err := Load()

	assert.ErrorContains(t, err, "DB_PASSWORD")
}
