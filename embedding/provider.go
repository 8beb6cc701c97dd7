package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NicoleKaira/video-chatbot-v2/cache"
	"github.com/NicoleKaira/video-chatbot-v2/config"
)

// Provider converts query text into an embedding vector.
type Provider interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

// NewProvider creates an embedding provider from config. When a cache
// size is configured the provider is wrapped with an LRU that memoizes
// query vectors.
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	var p Provider
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		p = newOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}

	if cfg.CacheSize > 0 {
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		p = withCache(p, cache.NewLRU(cfg.CacheSize, ttl), cfg.Model)
	}
	return p, nil
}
