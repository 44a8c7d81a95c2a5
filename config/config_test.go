package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearAgentEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PROVIDER", "MODEL", "API_KEY", "BASE_URL", "COLLECTION",
		"STORAGE", "STORAGE_DIR", "REDIS_ADDR", "POSTGRES_URL",
		"TOP_K", "LOG_LEVEL",
	} {
		t.Setenv(EnvPrefix+key, "")
		os.Unsetenv(EnvPrefix + key)
	}
	t.Setenv("OPENAI_API_KEY", "")
	os.Unsetenv("OPENAI_API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	clearAgentEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "documents", cfg.Collection)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, 5, cfg.TopK)
	require.NoError(t, cfg.Validate())
}

func TestLoadYAMLFile(t *testing.T) {
	clearAgentEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "provider: langchain\ncollection: papers\nstorage: redis\ntop_k: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "langchain", cfg.Provider)
	assert.Equal(t, "papers", cfg.Collection)
	assert.Equal(t, StorageRedis, cfg.Storage)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, "./chroma_db", cfg.StorageDir, "file keeps defaults it does not mention")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearAgentEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collection: from_file\n"), 0o644))

	t.Setenv(EnvPrefix+"COLLECTION", "from_env")
	t.Setenv(EnvPrefix+"TOP_K", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Collection)
	assert.Equal(t, 7, cfg.TopK)
}

func TestLoadInvalidTopK(t *testing.T) {
	clearAgentEnv(t)
	t.Setenv(EnvPrefix+"TOP_K", "not-a-number")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadFallsBackToOpenAIKey(t *testing.T) {
	clearAgentEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage = "cassandra"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Storage = StoragePostgres
	assert.Error(t, cfg.Validate(), "postgres needs a connection string")
	cfg.PostgresURL = "postgres://localhost/agent"
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.TopK = 0
	assert.Error(t, cfg.Validate())
}
