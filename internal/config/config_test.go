package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.RateLimit)
	assert.Equal(t, 200, cfg.Server.RateBurst)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 24, cfg.JWT.ExpiryHours)
	assert.True(t, cfg.Policy.StrictFields)
	assert.True(t, cfg.Policy.RequirePaymentForReport)
	assert.False(t, cfg.Policy.DoctorEditsPatientFields)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	dir := chdirTemp(t)
	writeConfig(t, dir, `
server:
  port: 9090
  rate_limit: 10
policy:
  require_payment_for_report: false
  doctor_edits_patient_fields: true
database:
  host: db.internal
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// File values survive loading; nothing snaps back to a default.
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.RateLimit)
	assert.False(t, cfg.Policy.RequirePaymentForReport)
	assert.True(t, cfg.Policy.DoctorEditsPatientFields)
	assert.Equal(t, "db.internal", cfg.Database.Host)

	// Untouched keys still resolve to their defaults.
	assert.Equal(t, 200, cfg.Server.RateBurst)
	assert.True(t, cfg.Policy.StrictFields)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	writeConfig(t, dir, `
database:
  host: db.internal
`)
	t.Setenv("CONSULT_DB_HOST", "db.override")
	t.Setenv("CONSULT_POLICY_STRICT_FIELDS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.False(t, cfg.Policy.StrictFields)
}
