package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		LLM:        LLMConfig{Provider: "openai", Model: "gpt-4o-mini"},
		Embedding:  EmbeddingConfig{Provider: "openai", Model: "text-embedding-3-small", Dimensions: 1536},
		VectorDB:   VectorDBConfig{Provider: "milvus", Address: "localhost:19530", Collection: "lecture_chunks"},
		TextSearch: TextSearchConfig{Endpoint: "http://localhost:9200", Index: "lecture_chunks"},
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	require.Equal(t, 20, cfg.Retrieval.TopK)
	require.Equal(t, 100, cfg.Retrieval.PoolSize)
	require.Equal(t, 5, cfg.Retrieval.PerVariantTopN)
	require.Equal(t, 1.0, cfg.Retrieval.DenseWeight)
	require.Equal(t, 0.2, cfg.Retrieval.SparseWeight)
	require.Equal(t, 60, cfg.Retrieval.RRFC)
	require.Equal(t, 3000, cfg.Retrieval.ContextTokenBudget)
	require.Equal(t, "COSINE", cfg.VectorDB.MetricType)
	require.False(t, cfg.Retrieval.CrossVariantFusion)
}

func TestValidate(t *testing.T) {
	t.Run("Should accept a complete config", func(t *testing.T) {
		cfg := validConfig()
		cfg.ApplyDefaults()
		require.NoError(t, cfg.Validate())
	})

	t.Run("Should collect every missing field", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Validate()
		require.Error(t, err)
		errs, ok := err.(ValidationErrors)
		require.True(t, ok)
		require.GreaterOrEqual(t, len(errs), 5)
	})

	t.Run("Should reject a pool size below top k", func(t *testing.T) {
		cfg := validConfig()
		cfg.Retrieval.TopK = 50
		cfg.Retrieval.PoolSize = 10
		require.Error(t, cfg.Validate())
	})

	t.Run("Should reject negative fusion weights", func(t *testing.T) {
		cfg := validConfig()
		cfg.Retrieval.DenseWeight = -1
		require.Error(t, cfg.Validate())
	})

	t.Run("Should reject an unknown vectordb provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.VectorDB.Provider = "chroma"
		require.Error(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	t.Run("Should load and expand environment references", func(t *testing.T) {
		t.Setenv("TEST_OPENAI_KEY", "sk-test")
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: ${TEST_OPENAI_KEY}
embedding:
  provider: openai
  model: text-embedding-3-small
  dimensions: 1536
vectordb:
  provider: milvus
  address: localhost:19530
  collection: lecture_chunks
textsearch:
  endpoint: http://localhost:9200
  index: lecture_chunks
`), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "sk-test", cfg.LLM.APIKey)
		require.Equal(t, 20, cfg.Retrieval.TopK)
	})

	t.Run("Should fail on a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("Should fail on invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("llm: ["), 0o600))
		_, err := Load(path)
		require.Error(t, err)
	})
}
