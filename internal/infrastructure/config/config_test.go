package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"AZPROXY_APP_NAME":                  os.Getenv("AZPROXY_APP_NAME"),
		"AZPROXY_APP_ENV":                   os.Getenv("AZPROXY_APP_ENV"),
		"AZPROXY_APP_PORT":                  os.Getenv("AZPROXY_APP_PORT"),
		"AZPROXY_AZURE_ORGANIZATION":        os.Getenv("AZPROXY_AZURE_ORGANIZATION"),
		"AZPROXY_AZURE_PAT":                 os.Getenv("AZPROXY_AZURE_PAT"),
		"AZPROXY_AZURE_BASE_URL":            os.Getenv("AZPROXY_AZURE_BASE_URL"),
		"AZPROXY_AZURE_TESTER_DISPLAY_NAME": os.Getenv("AZPROXY_AZURE_TESTER_DISPLAY_NAME"),
		"AZPROXY_AZURE_TIMEOUT":             os.Getenv("AZPROXY_AZURE_TIMEOUT"),
		"AZPROXY_HTTP_CORS_ALLOW_ORIGINS":   os.Getenv("AZPROXY_HTTP_CORS_ALLOW_ORIGINS"),
		"AZPROXY_LOG_LEVEL":                 os.Getenv("AZPROXY_LOG_LEVEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("fails without required azure settings", func(t *testing.T) {
		clearEnv()

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "azure.organization")

		os.Setenv("AZPROXY_AZURE_ORGANIZATION", "contoso")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "azure.pat")
	})

	t.Run("loads default values once required settings are present", func(t *testing.T) {
		clearEnv()
		os.Setenv("AZPROXY_AZURE_ORGANIZATION", "contoso")
		os.Setenv("AZPROXY_AZURE_PAT", "secret-pat")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "azdo-proxy", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "contoso", cfg.Azure.Organization)
		assert.Equal(t, "secret-pat", cfg.Azure.PAT)
		assert.Equal(t, "https://dev.azure.com", cfg.Azure.BaseURL)
		assert.Equal(t, "https://vsaex.dev.azure.com", cfg.Azure.EntitlementsBaseURL)
		assert.Equal(t, "7.1-preview", cfg.Azure.APIVersion)
		assert.Equal(t, "6.0-preview.3", cfg.Azure.EntitlementsAPIVersion)
		assert.Equal(t, DefaultTesterDisplayName, cfg.Azure.TesterDisplayName)
		assert.Equal(t, 30*time.Second, cfg.Azure.Timeout)
		assert.Equal(t, []string{"*"}, cfg.HTTP.CORSAllowOrigins)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("loads values from environment variables with AZPROXY prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("AZPROXY_APP_NAME", "test-proxy")
		os.Setenv("AZPROXY_APP_PORT", "9000")
		os.Setenv("AZPROXY_AZURE_ORGANIZATION", "fabrikam")
		os.Setenv("AZPROXY_AZURE_PAT", "pat-123")
		os.Setenv("AZPROXY_AZURE_BASE_URL", "https://devops.example.com")
		os.Setenv("AZPROXY_AZURE_TESTER_DISPLAY_NAME", "Jane Tester")
		os.Setenv("AZPROXY_AZURE_TIMEOUT", "10s")
		os.Setenv("AZPROXY_LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-proxy", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "fabrikam", cfg.Azure.Organization)
		assert.Equal(t, "pat-123", cfg.Azure.PAT)
		assert.Equal(t, "https://devops.example.com", cfg.Azure.BaseURL)
		assert.Equal(t, "Jane Tester", cfg.Azure.TesterDisplayName)
		assert.Equal(t, 10*time.Second, cfg.Azure.Timeout)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("rejects wildcard CORS origin in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("AZPROXY_AZURE_ORGANIZATION", "contoso")
		os.Setenv("AZPROXY_AZURE_PAT", "secret-pat")
		os.Setenv("AZPROXY_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})
}

func TestValidate_SamplingRatio(t *testing.T) {
	cfg := &Config{
		Azure: AzureConfig{Organization: "org", PAT: "pat"},
		Telemetry: TelemetryConfig{
			SamplingRatio: 1.5,
		},
	}
	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sampling_ratio")
}
