package initializers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	prev := Config
	t.Cleanup(func() { Config = prev })
	t.Chdir(t.TempDir())

	t.Setenv("DATABASE_URL", "user:pass@tcp(localhost:3306)/grocery?parseTime=true")
	t.Setenv("SECRET_KEY_ACCESS_TOKEN", "a")
	t.Setenv("SECRET_KEY_REFRESH_TOKEN", "r")
	t.Setenv("CURRENCY", "usd")
	t.Setenv("APP_ENV", "Development")

	require.NoError(t, LoadConfig())
	assert.Equal(t, "8080", Config.Port)
	assert.Equal(t, "usd", Config.Currency)
	assert.Equal(t, 5*time.Hour, Config.AccessTokenTTL)
	assert.Equal(t, 30*time.Second, Config.StripeTimeout)
	assert.Equal(t, "https://api.stripe.com", Config.StripeAPIURL)
	assert.True(t, Config.IsDevelopment())
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	prev := Config
	t.Cleanup(func() { Config = prev })
	t.Chdir(t.TempDir())

	t.Setenv("DATABASE_URL", "dsn")
	t.Setenv("SECRET_KEY_ACCESS_TOKEN", "")
	t.Setenv("SECRET_KEY_REFRESH_TOKEN", "")

	err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token secrets")
	assert.Same(t, prev, Config)
}
