package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func process(t *testing.T, env map[string]string) *Config {
	t.Helper()
	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(env),
	})
	require.NoError(t, err)
	return &cfg
}

func TestDefaults(t *testing.T) {
	cfg := process(t, map[string]string{})

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "campaign_wizard", cfg.Database.Database)
	assert.Equal(t, 4, cfg.Index.Workers)
	assert.Equal(t, uint(5), cfg.Index.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.Index.InitialInterval)
	assert.Empty(t, cfg.Index.NATSURL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestPrefixedOverrides(t *testing.T) {
	cfg := process(t, map[string]string{
		"SERVER_PORT":           "9090",
		"DB_NAME":               "wizard_test",
		"INDEX_NATS_URL":        "nats://localhost:4222",
		"INDEX_MAX_INTERVAL":    "3s",
		"LOG_FORMAT":            "json",
		"CORS_ALLOWED_ORIGINS":  "https://a.example,https://b.example",
		"RATE_LIMIT_BURST":      "5",
		"STORAGE_MAX_UPLOAD_MB": "50",
	})

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "wizard_test", cfg.Database.Database)
	assert.Equal(t, "nats://localhost:4222", cfg.Index.NATSURL)
	assert.Equal(t, 3*time.Second, cfg.Index.MaxInterval)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.EqualValues(t, 50, cfg.Storage.MaxUploadMB)
}

func TestValidateProduction(t *testing.T) {
	cfg := process(t, map[string]string{"ENVIRONMENT": "production"})
	assert.Error(t, cfg.Validate())

	cfg = process(t, map[string]string{
		"ENVIRONMENT": "production",
		"JWT_SECRET":  "real-secret",
		"DB_PASSWORD": "pw",
	})
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Database: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}
