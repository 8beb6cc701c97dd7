package retriever

import (
	"context"

	"github.com/NicoleKaira/video-chatbot-v2/embedding"
	"github.com/NicoleKaira/video-chatbot-v2/schema"
	"github.com/NicoleKaira/video-chatbot-v2/vectordb"
)

// VectorRetriever embeds the query and runs a dense similarity search
// against the vector store.
type VectorRetriever struct {
	Embed embedding.Provider
	Store vectordb.VectorStore
	// PoolSize bounds the candidate pool examined by the index,
	// independent of topK.
	PoolSize int
}

func (r *VectorRetriever) Type() string { return "vector" }

func (r *VectorRetriever) Search(ctx context.Context, query string, videoIDs []string, topK int) ([]schema.SearchHit, error) {
	if topK <= 0 {
		topK = 20
	}
	v, err := r.Embed.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}
	opts := &schema.SearchOptions{
		VideoIDs: videoIDs,
		Limit:    topK,
		PoolSize: r.PoolSize,
	}
	return r.Store.SearchDocs(ctx, v, opts)
}
