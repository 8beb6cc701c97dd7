package retriever

import (
	"context"

	"github.com/NicoleKaira/video-chatbot-v2/schema"
)

// Retriever is a single retrieval path over transcript chunks, scoped
// to a set of videos.
type Retriever interface {
	Type() string
	Search(ctx context.Context, query string, videoIDs []string, topK int) ([]schema.SearchHit, error)
}

// ranked converts similarity-ordered hits into a ranked list, ranks
// starting at 1.
func ranked(hits []schema.SearchHit) []schema.RankedItem {
	items := make([]schema.RankedItem, 0, len(hits))
	for i, h := range hits {
		items = append(items, schema.RankedItem{Content: h.Content, Rank: i + 1})
	}
	return items
}
