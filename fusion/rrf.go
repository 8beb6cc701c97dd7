package fusion

import (
	"sort"

	"github.com/NicoleKaira/video-chatbot-v2/schema"
)

// DefaultC is the reciprocal-rank constant.
const DefaultC = 60

// DefaultWeights returns the standard weighting for a dense-then-sparse
// pair of lists. The sparse path is a weak tiebreaker, not a peer.
func DefaultWeights() []float64 {
	return []float64{1.0, 0.2}
}

// Fuse merges ranked lists by weighted reciprocal rank. Each item
// contributes weight/(rank+c) for its list; entries with identical
// content accumulate into a single result. Different chunk IDs carrying
// the same text collapse together, which is what we want when the same
// passage surfaces from both retrieval paths. Output is ordered by
// fused score descending; ties keep first-appearance order, scanning
// lists left to right.
func Fuse(lists [][]schema.RankedItem, weights []float64, c int) ([]schema.FusedResult, error) {
	if len(weights) != len(lists) {
		return nil, &schema.ConfigurationError{
			Reason: "fusion weights must match the number of ranked lists",
		}
	}
	if c <= 0 {
		c = DefaultC
	}

	scores := map[string]float64{}
	order := make([]string, 0)

	for li, list := range lists {
		w := weights[li]
		for _, item := range list {
			key := item.Content
			if _, seen := scores[key]; !seen {
				order = append(order, key)
			}
			scores[key] += w / float64(item.Rank+c)
		}
	}

	out := make([]schema.FusedResult, 0, len(order))
	for _, content := range order {
		out = append(out, schema.FusedResult{Content: content, Score: scores[content]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// Truncate keeps the top n fused results. n <= 0 or n beyond the list
// length returns the list unchanged.
func Truncate(results []schema.FusedResult, n int) []schema.FusedResult {
	if n <= 0 || n >= len(results) {
		return results
	}
	return results[:n]
}

// Rerank turns fused results back into a single ranked list, for a
// second fusion pass across variants.
func Rerank(results []schema.FusedResult) []schema.RankedItem {
	items := make([]schema.RankedItem, 0, len(results))
	for i, r := range results {
		items = append(items, schema.RankedItem{Content: r.Content, Rank: i + 1})
	}
	return items
}
