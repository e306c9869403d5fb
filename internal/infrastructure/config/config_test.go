package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "test",
			Password: "test",
			Database: "test_db",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Webhook: WebhookConfig{
			DedupTTL:     24 * time.Hour,
			MaxBodyBytes: 1 << 20,
		},
		Worker: WorkerConfig{BatchSize: 10},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	cfg := validConfig()

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"port too low", 0},
		{"port negative", -1},
		{"port too high", 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "server.port")
		})
	}
}

func TestConfig_Validate_InvalidReadTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Server.ReadTimeout = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "read_timeout")
}

func TestConfig_Validate_InvalidWriteTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Server.WriteTimeout = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "write_timeout")
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")
}

func TestConfig_Validate_InvalidDatabasePort(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Port = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database.port")
}

func TestConfig_Validate_InvalidRedisPort(t *testing.T) {
	cfg := validConfig()
	cfg.Redis.Port = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis.port")
}

func TestConfig_Validate_InvalidDedupTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Webhook.DedupTTL = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "webhook.dedup_ttl")
}

func TestConfig_Validate_InvalidMaxBodyBytes(t *testing.T) {
	cfg := validConfig()
	cfg.Webhook.MaxBodyBytes = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "webhook.max_body_bytes")
}

func TestConfig_Validate_InvalidWorkerBatchSize(t *testing.T) {
	cfg := validConfig()
	cfg.Worker.BatchSize = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "worker.batch_size")
}

func TestConfig_Validate_ShortJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "too-short"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()
	require.Error(t, err)

	// Should contain multiple error messages
	errStr := err.Error()
	assert.Contains(t, errStr, "server.port")
	assert.Contains(t, errStr, "read_timeout")
	assert.Contains(t, errStr, "write_timeout")
	assert.Contains(t, errStr, "database.host")
	assert.Contains(t, errStr, "database.port")
	assert.Contains(t, errStr, "redis.port")
	assert.Contains(t, errStr, "webhook.dedup_ttl")
	assert.Contains(t, errStr, "worker.batch_size")
}

func TestServerConfig_ValidPorts(t *testing.T) {
	validPorts := []int{80, 443, 8080, 8443, 3000, 5000, 9000, 65535}

	for _, port := range validPorts {
		t.Run("port_valid", func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = port

			err := cfg.Validate()
			assert.NoError(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.example.com",
		Port:     5432,
		User:     "app_user",
		Password: "secret",
		Database: "gateways_db",
		SSLMode:  "require",
	}

	dsn := cfg.DatabaseDSN()
	assert.Contains(t, dsn, "host=db.example.com")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "dbname=gateways_db")
	assert.Contains(t, dsn, "sslmode=require")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{
		Host: "redis.example.com",
		Port: 6379,
	}

	assert.Equal(t, "redis.example.com:6379", cfg.RedisAddr())
}

func TestWorkerConfig_Fields(t *testing.T) {
	cfg := WorkerConfig{
		BatchSize:       20,
		BlockDuration:   5 * time.Second,
		ConsumerGroup:   "my-workers",
		SinkURL:         "http://sink.internal/events",
		DeliveryTimeout: 10 * time.Second,
		MaxRetries:      4,
		RetryDelay:      2 * time.Second,
	}

	assert.Equal(t, int64(20), cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.BlockDuration)
	assert.Equal(t, "my-workers", cfg.ConsumerGroup)
	assert.Equal(t, "http://sink.internal/events", cfg.SinkURL)
	assert.Equal(t, 10*time.Second, cfg.DeliveryTimeout)
	assert.Equal(t, 4, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
}

func TestCORSConfig_Fields(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins:   []string{"https://example.com", "https://app.example.com"},
		AllowCredentials: true,
	}

	assert.Equal(t, []string{"https://example.com", "https://app.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.AllowCredentials)
}
