package retriever

import (
	"context"
	"fmt"
	"time"

	"github.com/NicoleKaira/video-chatbot-v2/common/logger"
	"github.com/NicoleKaira/video-chatbot-v2/metrics"
	"github.com/NicoleKaira/video-chatbot-v2/schema"
)

// Hybrid runs the dense and sparse retrieval paths over the same scope
// and returns both ranked lists, dense first, ready for fusion.
type Hybrid struct {
	Dense  Retriever
	Sparse Retriever
	TopK   int
	Log    *logger.Logger
}

func NewHybrid(dense, sparse Retriever, topK int, log *logger.Logger) *Hybrid {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hybrid{Dense: dense, Sparse: sparse, TopK: topK, Log: log}
}

// Retrieve validates the scope against the catalog and runs both paths.
// An empty scope or any ID missing from the catalog fails before any
// search executes.
func (h *Hybrid) Retrieve(ctx context.Context, catalog schema.Catalog, videoIDs []string, query string) ([][]schema.RankedItem, error) {
	if len(videoIDs) == 0 {
		return nil, &schema.InvalidScopeError{Reason: "retrieval scope is empty"}
	}
	if unknown, ok := catalog.ValidateIDs(videoIDs); !ok {
		return nil, &schema.InvalidScopeError{
			VideoIDs: videoIDs,
			Reason:   fmt.Sprintf("video %q is not in the catalog", unknown),
		}
	}

	lists := make([][]schema.RankedItem, 0, 2)
	for _, r := range []Retriever{h.Dense, h.Sparse} {
		start := time.Now()
		hits, err := r.Search(ctx, query, videoIDs, h.TopK)
		if err != nil {
			return nil, fmt.Errorf("%s retrieval: %w", r.Type(), err)
		}
		metrics.ObserveRetriever(r.Type(), start, len(hits))
		h.Log.Debug("retrieval path finished",
			"type", r.Type(), "hits", len(hits), "scope", len(videoIDs))
		lists = append(lists, ranked(hits))
	}
	return lists, nil
}
