package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 384, cfg.VectorDim)
	assert.Equal(t, "milvus", cfg.VectorStore.Type)
	assert.Equal(t, "IP", cfg.VectorStore.Milvus.Metric)
	assert.Equal(t, 60, cfg.Cache.TTLSecs)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  addr: ":9090"
vector_dim: 768
vector_store:
  type: qdrant
  qdrant:
    url: http://localhost:6333
cache:
  type: memory
  ttl_secs: 5
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 768, cfg.VectorDim)
	assert.Equal(t, "qdrant", cfg.VectorStore.Type)
	require.NotNil(t, cfg.VectorStore.Qdrant)
	assert.Equal(t, "message_embeddings", cfg.VectorStore.Qdrant.Collection)
	assert.Equal(t, 5, cfg.Cache.TTLSecs)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("MILVUS_HOST", "milvus.internal")
	t.Setenv("REDIS_TTL_SECONDS", "120")
	t.Setenv("VECTOR_DIM", "512")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "milvus.internal", cfg.VectorStore.Milvus.Host)
	assert.Equal(t, 120, cfg.Cache.TTLSecs)
	assert.Equal(t, 512, cfg.VectorDim)
}

func TestLoadRejectsNonPositiveDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vector_dim: -1\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
