package config

// Config is the full configuration for the lecture-video retrieval core.
type Config struct {
	LLM        LLMConfig         `json:"llm" yaml:"llm"`
	Embedding  EmbeddingConfig   `json:"embedding" yaml:"embedding"`
	VectorDB   VectorDBConfig    `json:"vectordb" yaml:"vectordb"`
	TextSearch TextSearchConfig  `json:"textsearch" yaml:"textsearch"`
	Retrieval  RetrievalConfig   `json:"retrieval" yaml:"retrieval"`
	HTTP       *HTTPClientConfig `json:"http,omitempty" yaml:"http,omitempty"`
}

// LLMConfig defines configuration for the completion model used by the
// query router, the temporal classifier, and answer synthesis.
type LLMConfig struct {
	Provider    string  `json:"provider" yaml:"provider"` // Available options: openai
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// EmbeddingConfig defines configuration for query embeddings.
type EmbeddingConfig struct {
	Provider        string `json:"provider" yaml:"provider"` // Available options: openai
	APIKey          string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL         string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model           string `json:"model,omitempty" yaml:"model,omitempty"`
	Dimensions      int    `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	CacheSize       int    `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds,omitempty" yaml:"cache_ttl_seconds,omitempty"`
}

// VectorDBConfig defines configuration for the dense store holding
// transcript chunks and their embeddings.
type VectorDBConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: milvus
	Address    string `json:"address,omitempty" yaml:"address,omitempty"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
	Database   string `json:"database,omitempty" yaml:"database,omitempty"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	// MetricType, e.g. COSINE, IP, L2.
	MetricType string `json:"metric_type,omitempty" yaml:"metric_type,omitempty"`
}

// TextSearchConfig points at the Elasticsearch-compatible endpoint used
// for sparse keyword retrieval over transcript chunks.
type TextSearchConfig struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Index    string `json:"index" yaml:"index"`
}

// RetrievalConfig tunes the hybrid retrieval and fusion pipeline.
type RetrievalConfig struct {
	// TopK is the per-search result limit for both dense and sparse paths.
	TopK int `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	// PoolSize bounds the dense candidate pool; independent of TopK and
	// expected to be larger.
	PoolSize int `json:"pool_size,omitempty" yaml:"pool_size,omitempty"`
	// PerVariantTopN truncates each variant's fused list.
	PerVariantTopN int `json:"per_variant_top_n,omitempty" yaml:"per_variant_top_n,omitempty"`
	// DenseWeight and SparseWeight are the fusion weights for the two lists.
	DenseWeight  float64 `json:"dense_weight,omitempty" yaml:"dense_weight,omitempty"`
	SparseWeight float64 `json:"sparse_weight,omitempty" yaml:"sparse_weight,omitempty"`
	// RRFC is the reciprocal-rank constant.
	RRFC int `json:"rrf_c,omitempty" yaml:"rrf_c,omitempty"`
	// CrossVariantFusion applies a second fusion pass across variants'
	// combined lists instead of plain concatenation. Off by default.
	CrossVariantFusion bool `json:"cross_variant_fusion,omitempty" yaml:"cross_variant_fusion,omitempty"`
	// ContextTokenBudget caps the merged passage set handed to answer
	// synthesis. TokenizerModel selects the tiktoken encoding.
	ContextTokenBudget int    `json:"context_token_budget,omitempty" yaml:"context_token_budget,omitempty"`
	TokenizerModel     string `json:"tokenizer_model,omitempty" yaml:"tokenizer_model,omitempty"`
}

// HTTPClientConfig defines common options for outbound HTTP calls.
type HTTPClientConfig struct {
	TimeoutMs              int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry                  int      `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs           int      `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs           int      `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	HostAllowlist          []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty"`
	MaxConsecutiveFailures int      `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty"`
	CircuitOpenSeconds     int      `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty"`
}

// ApplyDefaults fills unset retrieval knobs with their defaults.
func (c *Config) ApplyDefaults() {
	r := &c.Retrieval
	if r.TopK <= 0 {
		r.TopK = 20
	}
	if r.PoolSize <= 0 || r.PoolSize <= r.TopK {
		r.PoolSize = 100
	}
	if r.PerVariantTopN <= 0 {
		r.PerVariantTopN = 5
	}
	if r.DenseWeight == 0 && r.SparseWeight == 0 {
		r.DenseWeight = 1.0
		r.SparseWeight = 0.2
	}
	if r.RRFC <= 0 {
		r.RRFC = 60
	}
	if r.ContextTokenBudget <= 0 {
		r.ContextTokenBudget = 3000
	}
	if r.TokenizerModel == "" {
		r.TokenizerModel = "gpt-4o-mini"
	}
	if c.VectorDB.MetricType == "" {
		c.VectorDB.MetricType = "COSINE"
	}
}
