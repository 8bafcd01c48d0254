package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MemoryDefaults(t *testing.T) {
	t.Setenv(envStorageDriver, "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, defaultSessionCookieName, cfg.Session.CookieName)
	assert.False(t, cfg.Session.SecureCookie)
	assert.False(t, cfg.Archive.Enabled())
	assert.True(t, cfg.App.SeedOnStartup)
	assert.Equal(t, defaultMaxSignatureBytes, cfg.App.MaxSignatureBytes)
}

func TestLoad_PostgresRequiresPassword(t *testing.T) {
	t.Setenv(envStorageDriver, "postgres")
	t.Setenv(envDBPassword, "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")
}

func TestLoad_ProductionUsesSecureCookie(t *testing.T) {
	t.Setenv(envStorageDriver, "memory")
	t.Setenv(envAppEnv, "production")
	t.Setenv(envSessionTTL, "48h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Session.SecureCookie)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 48*time.Hour, cfg.Session.TTL)
}

func TestValidate_ArchiveNeedsCredentials(t *testing.T) {
	t.Setenv(envStorageDriver, "memory")
	t.Setenv(envArchiveBucket, "signed-agreements")
	t.Setenv(envAWSAccessKeyID, "")

	_, err := Load()
	assert.ErrorContains(t, err, "ARCHIVE_BUCKET")
}

func TestValidate_UnknownDriver(t *testing.T) {
	t.Setenv(envStorageDriver, "sqlite")

	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_DRIVER")
}

func TestEnvReader_DurationAcceptsMinutes(t *testing.T) {
	t.Setenv(envServerShutdownTimeout, "3")

	r := &envReader{}
	assert.Equal(t, 3*time.Minute, r.duration(envServerShutdownTimeout, time.Second))
	assert.Empty(t, r.errs)
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	t.Setenv(envStorageDriver, "memory")
	t.Setenv(envDBPort, "five")
	t.Setenv(envSeedOnStartup, "maybe")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "DB_PORT")
	assert.ErrorContains(t, err, "SEED_ON_STARTUP")
}
