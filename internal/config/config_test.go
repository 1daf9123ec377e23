package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, AssetsLocal, cfg.Assets.Provider)
	assert.Equal(t, 9, cfg.Client.FormationPageSize)
	assert.Equal(t, 400*time.Millisecond, cfg.Client.SearchDebounce)
}

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  read_timeout: 5s
database:
  driver: memory
client:
  gallery_page_size: 24
  search_debounce: 300ms
`)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CATALOG_TIMEOUT", "3s")
	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("MAIL_FROM_EMAIL", "noreply@example.com")
	t.Setenv("MAIL_USE_TLS", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port, "env wins over yaml")
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 24, cfg.Client.GalleryPageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.Client.SearchDebounce)
	assert.InDelta(t, 2.5, cfg.RateLimit.RPS, 0.0001)
	assert.Equal(t, 3*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.True(t, cfg.Mail.UseTLS)
}

func TestLoadConfig_InvalidEnvValue(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_OPEN_CONNS")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "sqlite" },
			wantErr: "unsupported database driver",
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *Config) { c.Assets.Provider = AssetsS3 },
			wantErr: "s3_bucket",
		},
		{
			name:    "cloudinary without endpoint",
			mutate:  func(c *Config) { c.Assets.Provider = AssetsCloudinary },
			wantErr: "endpoint",
		},
		{
			name:    "mail host without sender",
			mutate:  func(c *Config) { c.Mail.Host = "smtp.example.com" },
			wantErr: "from_email",
		},
		{
			name: "mail port out of range",
			mutate: func(c *Config) {
				c.Mail.Host = "smtp.example.com"
				c.Mail.FromEmail = "noreply@example.com"
				c.Mail.Port = 70000
			},
			wantErr: "mail port",
		},
		{
			name:    "debounce too short",
			mutate:  func(c *Config) { c.Client.SearchDebounce = 100 * time.Millisecond },
			wantErr: "search_debounce",
		},
		{
			name:    "page size out of range",
			mutate:  func(c *Config) { c.Client.AdminPageSize = 500 },
			wantErr: "admin_page_size",
		},
		{
			name: "memory driver ignores database host",
			mutate: func(c *Config) {
				c.Database.Driver = DriverMemory
				c.Database.Host = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPublicBaseURL(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL())

	cfg.Server.PublicURL = "https://institut.example/"
	assert.Equal(t, "https://institut.example", cfg.PublicBaseURL())
}
