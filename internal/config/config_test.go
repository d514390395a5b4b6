package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.Console.APIBaseURL)
	assert.Equal(t, 6*time.Second, cfg.Console.NoticeTTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.RabbitMQ.Enabled())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := writeFile(t, `
console:
  port: 4000
  api_base_url: http://127.0.0.1:21229
  notice_ttl: 3s
database:
  driver: postgres
  host: db
  user: restaurant
  password: secret
  database: restaurant
rabbitmq:
  host: mq
  user: guest
  password: guest
  use_tls: true
`)
	t.Setenv("API_PORT", "9090")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("API_ALLOWED_ORIGINS", "http://a, http://b")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Console.Port)
	assert.Equal(t, "http://127.0.0.1:21229", cfg.Console.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.Console.NoticeTTL)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.API.AllowedOrigins)
	assert.True(t, cfg.RabbitMQ.Enabled())
	assert.Equal(t, "/", cfg.RabbitMQ.VHost)
	assert.True(t, cfg.RabbitMQ.UseTLS)
}

func TestRabbitTLSFromEnv(t *testing.T) {
	t.Setenv("RABBITMQ_USE_TLS", "true")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.RabbitMQ.UseTLS)

	t.Setenv("RABBITMQ_USE_TLS", "talvez")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{"unknown driver", "database:\n  driver: oracle\n", nil},
		{"incomplete postgres", "database:\n  driver: postgres\n  host: db\n", nil},
		{"bad port", "", map[string]string{"CONSOLE_PORT": "http"}},
		{"bad ttl", "", map[string]string{"CONSOLE_NOTICE_TTL": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.body != "" {
				path = writeFile(t, tt.body)
			}
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
