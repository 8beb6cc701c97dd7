package embedding

import (
	"context"
	"crypto/sha1"
	"encoding/hex"

	"github.com/NicoleKaira/video-chatbot-v2/cache"
)

// cachedProvider wraps a Provider with an LRU of query vectors keyed by
// a hash of model and text.
type cachedProvider struct {
	inner Provider
	vc    cache.VectorCache
	model string
}

func withCache(inner Provider, vc cache.VectorCache, model string) Provider {
	return &cachedProvider{inner: inner, vc: vc, model: model}
}

func (p *cachedProvider) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	key := p.key(text)
	if vec, ok := p.vc.Get(key); ok {
		return vec, nil
	}
	vec, err := p.inner.GetEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	p.vc.Set(key, vec, 0)
	return vec, nil
}

func (p *cachedProvider) key(text string) string {
	h := sha1.Sum([]byte(p.model + "\x00" + text))
	return hex.EncodeToString(h[:])
}
