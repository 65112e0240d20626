package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_PORT", "SUPABASE_URL", "SUPABASE_KEY", "EQUIPMENT_TABLE", "LOGS_TABLE", "REMOTE_TIMEOUT",
	"CACHE_DIR", "CACHE_KEY", "ADMIN_PASSWORD", "ADMIN_TOKEN_SECRET", "ADMIN_TOKEN_TTL", "REFRESH_CRON",
	"MONGODB_URI", "MONGODB_DB_NAME", "GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID",
	"GOOGLE_SHEET_RANGE", "DOCUMENTS_S3_BUCKET", "DOCUMENTS_S3_REGION", "DOCUMENTS_S3_ENDPOINT",
	"DOCUMENTS_S3_ACCESS_KEY", "DOCUMENTS_S3_SECRET_KEY", "LOG_LEVEL",
}

// clearEnv unsets every key Load reads and restores it after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeEnv(t, "ADMIN_PASSWORD=secret\nADMIN_TOKEN_SECRET=signing\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Remote.Enabled())
	assert.Equal(t, "equipment", cfg.Remote.EquipmentTable)
	assert.Equal(t, "logs", cfg.Remote.LogsTable)
	assert.Equal(t, 15*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "./data", cfg.Cache.Dir)
	assert.Equal(t, "equipment-checklist", cfg.Cache.Key)
	assert.Equal(t, 30*time.Minute, cfg.Admin.TokenTTL)
	assert.Equal(t, "*/15 * * * *", cfg.Refresh.CronSchedule)
	assert.Equal(t, "gearlist", cfg.MongoDB.DBName)
	assert.Equal(t, "Logs!A:F", cfg.Sheets.Range)
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.Documents.Enabled())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("ADMIN_TOKEN_SECRET", "signing")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_KEY", "anon")
	t.Setenv("REMOTE_TIMEOUT", "5s")
	t.Setenv("REFRESH_CRON", "")
	t.Setenv("CACHE_DIR", ":memory:")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.True(t, cfg.Remote.Enabled())
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
	assert.Empty(t, cfg.Refresh.CronSchedule, "explicitly empty disables the refresh job")
	assert.Equal(t, ":memory:", cfg.Cache.Dir)
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_TOKEN_TTL", "soon")

	_, err := Load(writeEnv(t, "ADMIN_PASSWORD=a\nADMIN_TOKEN_SECRET=b\n"))
	assert.ErrorContains(t, err, "ADMIN_TOKEN_TTL")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080"},
			Cache:  CacheConfig{Dir: "./data"},
			Admin:  AdminConfig{Password: "p", TokenSecret: "s"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"no port", func(c *Config) { c.Server.Port = "" }, "APP_PORT"},
		{"remote without key", func(c *Config) { c.Remote.URL = "https://x" }, "SUPABASE_KEY"},
		{"no password", func(c *Config) { c.Admin.Password = "" }, "ADMIN_PASSWORD"},
		{"no secret", func(c *Config) { c.Admin.TokenSecret = "" }, "ADMIN_TOKEN_SECRET"},
		{"sheet without credentials", func(c *Config) { c.Sheets.SpreadsheetID = "id" }, "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{"half s3 credentials", func(c *Config) {
			c.Documents.Bucket = "b"
			c.Documents.AccessKey = "k"
		}, "DOCUMENTS_S3_SECRET_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}
