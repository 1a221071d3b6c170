package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris-backend/internal/platform/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func Test_Load_AppliesDefaultsAndFile(t *testing.T) {
	p := writeConfig(t, `
mode: release
auth:
  jwt_secret: from-file
  session_timeout: 30m
library:
  max_active_loans: 3
`)

	cfg, err := config.Load(p)

	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTimeout)
	assert.Equal(t, 3, cfg.Library.MaxActiveLoans)
	assert.Equal(t, 14, cfg.Library.LoanDays)

	rules := cfg.Library.Rules()
	assert.Equal(t, "10.00", rules.FineBlockThreshold.StringFixed(2))
	assert.Equal(t, "0.50", rules.FinePerDay.StringFixed(2))
}

func Test_Load_EnvOverridesFile(t *testing.T) {
	p := writeConfig(t, "auth:\n  jwt_secret: from-file\n")
	t.Setenv("LIBRIS_JWT_SECRET", "from-env")
	t.Setenv("LIBRIS_DB_PORT", "3307")

	cfg, err := config.Load(p)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 3307, cfg.DB.Port)
}

func Test_Load_RejectsMissingSecret(t *testing.T) {
	p := writeConfig(t, "mode: dev\n")

	_, err := config.Load(p)

	assert.ErrorContains(t, err, "jwt_secret")
}

func Test_Load_RejectsUnknownMode(t *testing.T) {
	p := writeConfig(t, "mode: staging\nauth:\n  jwt_secret: x\n")

	_, err := config.Load(p)

	assert.ErrorContains(t, err, "mode")
}

func Test_TLSFiles(t *testing.T) {
	cfg := config.Default()
	_, _, ok := cfg.TLSFiles()
	assert.False(t, ok)

	cfg.Mode = "release"
	cfg.Server.Certificate = config.Certs{Cert: "server.crt", Key: "server.key"}
	cert, key, ok := cfg.TLSFiles()
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("config", "tls", "release", "server.crt"), cert)
	assert.Equal(t, filepath.Join("config", "tls", "release", "server.key"), key)
}
