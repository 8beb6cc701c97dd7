package vectordb

import (
	"context"
	"fmt"
	"strings"

	"github.com/NicoleKaira/video-chatbot-v2/config"
	"github.com/NicoleKaira/video-chatbot-v2/schema"
)

// VectorStore is the document-store collaborator. It exposes the scoped
// dense search and the scoped chunk scan used for temporal matching.
// Implementations must be safe for concurrent read-only use.
type VectorStore interface {
	// SearchDocs runs a vector-similarity query restricted to
	// opts.VideoIDs, examining up to opts.PoolSize candidates and
	// returning at most opts.Limit hits ordered by similarity descending.
	SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchHit, error)
	// ScanChunks returns all chunks, with their start/end metadata, for
	// the given videos.
	ScanChunks(ctx context.Context, videoIDs []string) ([]schema.Chunk, error)
	Close() error
}

// NewVectorStore creates a vector store from config.
func NewVectorStore(ctx context.Context, cfg config.VectorDBConfig) (VectorStore, error) {
	switch strings.ToLower(cfg.Provider) {
	case "milvus":
		return newMilvusStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown vectordb provider: %s", cfg.Provider)
	}
}
