package config

import (
	"os"
	"testing"

	"github.com/globetrek/booking-backend/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	os.Exit(m.Run())
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:    "defaults only",
			envVars: map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
				assert.Equal(t, "8080", cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, 30, cfg.RateLimit.RegistrationsPerMinute)
				assert.Equal(t, 60, cfg.RateLimit.WindowSeconds)
			},
		},
		{
			name: "env vars override defaults",
			envVars: map[string]string{
				"PORT":          "9090",
				"DB_HOST":       "db.internal",
				"DB_NAME":       "bookings",
				"REDIS_ADDRESS": "redis.internal:6379",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "9090", cfg.Server.Port)
				assert.Equal(t, "db.internal", cfg.Database.Host)
				assert.Equal(t, "bookings", cfg.Database.Name)
				assert.Equal(t, "redis.internal:6379", cfg.Redis.Address)
			},
		},
		{
			name: "production requires db password",
			envVars: map[string]string{
				"SERVER_ENVIRONMENT": "production",
			},
			expectError: true,
		},
		{
			name: "production with password is valid",
			envVars: map[string]string{
				"SERVER_ENVIRONMENT": "production",
				"DB_PASSWORD":        "s3cret",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsProduction())
			},
		},
		{
			name: "unknown environment rejected",
			envVars: map[string]string{
				"SERVER_ENVIRONMENT": "staging",
			},
			expectError: true,
		},
		{
			name: "rate limit must be positive",
			envVars: map[string]string{
				"RATE_LIMIT_REGISTRATIONS_PER_MINUTE": "0",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			cfg, err := LoadConfig()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "pw",
		Name:     "bookings",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=pw dbname=bookings sslmode=disable",
		cfg.ConnectionString())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.ConnectionString(), "sslmode=require")
}
