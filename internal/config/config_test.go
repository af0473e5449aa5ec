package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "ziio_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("MODEL_CHAT", "custom/chat")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "mongodb://localhost:27017/testdb", cfg.MongoDB.URI)
	require.Equal(t, "ziio_test", cfg.MongoDB.Database)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.Equal(t, "custom/chat", cfg.LLM.Chat)
	require.Equal(t, "mistralai/mistral-7b-instruct:free", cfg.LLM.ChatBackup)
	require.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.BaseURL)
	require.Equal(t, 120*time.Second, cfg.LLM.Timeout)
	require.Equal(t, 2, cfg.LLM.PageConcurrency)
	require.Nil(t, cfg.Server.TrustedProxies)
}

func TestLoadConfig_TrustedProxies(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.1.0.0/16,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.1", "10.1.0.0/16"}, cfg.Server.TrustedProxies)
}

func TestLoadConfig_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "OPENROUTER_API_KEY")
}

func TestRedisAddrEmptyWhenUnset(t *testing.T) {
	require.Equal(t, "", RedisConfig{Port: "6379"}.Addr())
}
