package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/storedesk?sslmode=disable")
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "localhost:8080", cfg.ServerAddr())
		assert.Equal(t, "localhost:8081", cfg.CompanionAddr())
		assert.Equal(t, 10*time.Second, cfg.AuditWriteTimeout)
		assert.Equal(t, 30*time.Second, cfg.RevertTimeout)
		assert.Equal(t, 5, cfg.BulkMaxConcurrency)
		assert.Empty(t, cfg.KafkaBrokers)
		assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://db/storedesk")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092 ,")
		t.Setenv("REVERT_TIMEOUT", "45s")
		t.Setenv("AUDIT_WRITE_TIMEOUT", "3")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.store.test")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, 45*time.Second, cfg.RevertTimeout)
		assert.Equal(t, 3*time.Second, cfg.AuditWriteTimeout)
		assert.Equal(t, []string{"https://admin.store.test"}, cfg.CORSAllowedOrigins)
	})

	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{"missing database url", map[string]string{"JWT_SECRET": "s"}, ErrMissingDatabaseURL},
		{"missing jwt secret", map[string]string{"DATABASE_URL": "postgres://db"}, ErrMissingJWTSecret},
		{"unsupported algorithm", map[string]string{"DATABASE_URL": "postgres://db", "JWT_SECRET": "s", "JWT_ALG": "RS256"}, ErrInvalidJWTAlgorithm},
		{"bad ttl", map[string]string{"DATABASE_URL": "postgres://db", "JWT_SECRET": "s", "JWT_ACCESS_TOKEN_TTL": "soon"}, ErrInvalidTokenTTL},
		{"zero concurrency", map[string]string{"DATABASE_URL": "postgres://db", "JWT_SECRET": "s", "BULK_MAX_CONCURRENCY": "0"}, ErrInvalidConcurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
