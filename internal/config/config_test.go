package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Defaults()

	assert.Equal(t, "0.0.0.0", c.HTTPHost)
	assert.Equal(t, "57305", c.HTTPPort)
	assert.Equal(t, "0.0.0.0:57305", c.Addr())
	assert.False(t, c.Debug)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 300, c.CacheTTL)
	assert.Equal(t, "todo-events", c.KafkaTopic)
	assert.False(t, c.CacheEnabled())
	assert.False(t, c.EventsEnabled())
	assert.NoError(t, c.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_HOST", "127.0.0.1")
	t.Setenv("HTTP_PORT", "8088")
	t.Setenv("DEBUG", "true")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8088", c.Addr())
	assert.True(t, c.Debug)
	assert.True(t, c.CacheEnabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.KafkaBrokers)
	assert.True(t, c.EventsEnabled())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric pool size", key: "REDIS_POOL_SIZE", value: "many"},
		{name: "zero pool", key: "REDIS_POOL_SIZE", value: "0"},
		{name: "negative ttl", key: "CACHE_TTL_SEC", value: "-1"},
		{name: "zero partitions", key: "KAFKA_PARTITIONS", value: "0"},
		{name: "bad debug flag", key: "DEBUG", value: "sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := `# comment
TODO_WEB_TEST_PLAIN=plain
TODO_WEB_TEST_QUOTED="quoted value"
TODO_WEB_TEST_SINGLE='single'
TODO_WEB_TEST_KEEP=from-file
=ignored
no-equals-sign
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("TODO_WEB_TEST_KEEP", "from-env")
	for _, k := range []string{"TODO_WEB_TEST_PLAIN", "TODO_WEB_TEST_QUOTED", "TODO_WEB_TEST_SINGLE"} {
		t.Setenv(k, "")
	}

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "plain", os.Getenv("TODO_WEB_TEST_PLAIN"))
	assert.Equal(t, "quoted value", os.Getenv("TODO_WEB_TEST_QUOTED"))
	assert.Equal(t, "single", os.Getenv("TODO_WEB_TEST_SINGLE"))
	assert.Equal(t, "from-env", os.Getenv("TODO_WEB_TEST_KEEP"))
}

func TestLoadEnvFileMissing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}
