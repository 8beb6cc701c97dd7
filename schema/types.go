package schema

import "time"

// RoutingMode classifies how many videos a question spans.
type RoutingMode string

const (
	RoutingSingleVideo RoutingMode = "SINGLE_VIDEO"
	RoutingMultiVideo  RoutingMode = "MULTI_VIDEO"
)

// Chunk is a timestamped transcript fragment, the atomic retrievable unit.
// Chunks are produced by ingestion and are read-only here.
type Chunk struct {
	ID        string
	VideoID   string
	Text      string
	Start     time.Duration
	End       time.Duration
	Embedding []float32
}

// RankedItem is one entry of a ranked retrieval list. Rank is 1-based
// within the originating list. Deduplication across lists is keyed on
// Content, not on any identifier: the dense and sparse paths may surface
// the same passage with different synthetic IDs.
type RankedItem struct {
	Content string
	Rank    int
}

// FusedResult is one passage with its accumulated fusion score.
type FusedResult struct {
	Content string
	Score   float64
}

// SearchHit is an ordered (content, score) pair returned by a backend
// search. Hits arrive sorted by backend relevance, best first.
type SearchHit struct {
	Content string
	Score   float64
}

// SearchOptions scopes a backend search to a set of videos.
// PoolSize bounds the candidate pool examined by the index and is
// independent of (and larger than) Limit, the number of hits returned.
type SearchOptions struct {
	VideoIDs []string
	Limit    int
	PoolSize int
}

// QueryVariant is one rewritten sub-query emitted by the router, bound
// to a video subset and an optional temporal signal of zero, one, or two
// timestamps. With two timestamps the first is the range start.
type QueryVariant struct {
	VideoIDs       ScopeSet
	Question       string
	TemporalSignal []time.Duration
}

// RoutingDecision is the parsed, validated routing output for one
// question. VideoIDs is the order-preserving union of all variants'
// video sets. It is built once per question and then discarded.
type RoutingDecision struct {
	Mode     RoutingMode
	VideoIDs ScopeSet
	Variants []QueryVariant
}
