package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NicoleKaira/video-chatbot-v2/schema"
)

type stubRetriever struct {
	lists map[string][][]schema.RankedItem
	errs  map[string]error
}

func (s *stubRetriever) Retrieve(ctx context.Context, catalog schema.Catalog, videoIDs []string, query string) ([][]schema.RankedItem, error) {
	if err, ok := s.errs[query]; ok {
		return nil, err
	}
	return s.lists[query], nil
}

type stubScanner struct {
	chunks []schema.Chunk
	err    error
}

func (s *stubScanner) ScanChunks(ctx context.Context, videoIDs []string) ([]schema.Chunk, error) {
	return s.chunks, s.err
}

func decisionFor(variants ...schema.QueryVariant) *schema.RoutingDecision {
	union := schema.ScopeSet{}
	for _, v := range variants {
		union = union.Union(v.VideoIDs)
	}
	return &schema.RoutingDecision{
		Mode:     schema.RoutingMultiVideo,
		VideoIDs: union,
		Variants: variants,
	}
}

var catalog = schema.Catalog{
	{Name: "Lecture 1", VideoID: "vid-1"},
	{Name: "Lecture 2", VideoID: "vid-2"},
}

func singleList(contents ...string) [][]schema.RankedItem {
	list := make([]schema.RankedItem, 0, len(contents))
	for i, c := range contents {
		list = append(list, schema.RankedItem{Content: c, Rank: i + 1})
	}
	return [][]schema.RankedItem{list, nil}
}

func TestExecute(t *testing.T) {
	t.Run("Should concatenate variant results in variant order", func(t *testing.T) {
		ret := &stubRetriever{lists: map[string][][]schema.RankedItem{
			"qa": singleList("alpha", "beta"),
			"qb": singleList("gamma"),
		}}
		o := New(ret, &stubScanner{}, Options{Weights: []float64{1.0, 0.2}}, nil)

		out, err := o.Execute(context.Background(), decisionFor(
			schema.QueryVariant{VideoIDs: schema.ScopeSet{"vid-1"}, Question: "qa"},
			schema.QueryVariant{VideoIDs: schema.ScopeSet{"vid-2"}, Question: "qb"},
		), catalog)
		require.NoError(t, err)
		require.Equal(t, []string{"alpha", "beta", "gamma"}, contents(out))
	})

	t.Run("Should isolate a failing variant", func(t *testing.T) {
		ret := &stubRetriever{
			lists: map[string][][]schema.RankedItem{"ok": singleList("alpha")},
			errs:  map[string]error{"bad": errors.New("backend down")},
		}
		o := New(ret, &stubScanner{}, Options{}, nil)

		out, err := o.Execute(context.Background(), decisionFor(
			schema.QueryVariant{VideoIDs: schema.ScopeSet{"vid-1"}, Question: "bad"},
			schema.QueryVariant{VideoIDs: schema.ScopeSet{"vid-2"}, Question: "ok"},
		), catalog)
		require.NoError(t, err)
		require.Equal(t, []string{"alpha"}, contents(out))
	})

	t.Run("Should report exhaustion when every variant fails", func(t *testing.T) {
		ret := &stubRetriever{errs: map[string]error{
			"a": errors.New("down"),
			"b": errors.New("also down"),
		}}
		o := New(ret, &stubScanner{}, Options{}, nil)

		_, err := o.Execute(context.Background(), decisionFor(
			schema.QueryVariant{VideoIDs: schema.ScopeSet{"vid-1"}, Question: "a"},
			schema.QueryVariant{VideoIDs: schema.ScopeSet{"vid-2"}, Question: "b"},
		), catalog)
		var exhausted *schema.RetrievalExhaustedError
		require.ErrorAs(t, err, &exhausted)
		require.Len(t, exhausted.Failures, 2)
	})

	t.Run("Should reject an empty decision", func(t *testing.T) {
		o := New(&stubRetriever{}, &stubScanner{}, Options{}, nil)
		_, err := o.Execute(context.Background(), &schema.RoutingDecision{}, catalog)
		var exhausted *schema.RetrievalExhaustedError
		require.ErrorAs(t, err, &exhausted)
	})

	t.Run("Should place temporal matches before fused results, chronologically", func(t *testing.T) {
		ret := &stubRetriever{lists: map[string][][]schema.RankedItem{
			"q": singleList("retrieved"),
		}}
		scanner := &stubScanner{chunks: []schema.Chunk{
			{ID: "late", Text: "late chunk", Start: 24 * time.Minute, End: 25 * time.Minute},
			{ID: "early", Text: "early chunk", Start: 22 * time.Minute, End: 23 * time.Minute},
			{ID: "far", Text: "far away", Start: 50 * time.Minute, End: 51 * time.Minute},
		}}
		o := New(ret, scanner, Options{}, nil)

		out, err := o.Execute(context.Background(), decisionFor(
			schema.QueryVariant{
				VideoIDs:       schema.ScopeSet{"vid-1"},
				Question:       "q",
				TemporalSignal: []time.Duration{23 * time.Minute},
			},
		), catalog)
		require.NoError(t, err)
		require.Equal(t, []string{"early chunk", "late chunk", "retrieved"}, contents(out))
		require.Equal(t, 1.0, out[0].Score)
		require.Equal(t, 1.0, out[1].Score)
	})

	t.Run("Should continue without window matches when the scan fails", func(t *testing.T) {
		ret := &stubRetriever{lists: map[string][][]schema.RankedItem{
			"q": singleList("retrieved"),
		}}
		o := New(ret, &stubScanner{err: errors.New("scan failed")}, Options{}, nil)

		out, err := o.Execute(context.Background(), decisionFor(
			schema.QueryVariant{
				VideoIDs:       schema.ScopeSet{"vid-1"},
				Question:       "q",
				TemporalSignal: []time.Duration{23 * time.Minute},
			},
		), catalog)
		require.NoError(t, err)
		require.Equal(t, []string{"retrieved"}, contents(out))
	})

	t.Run("Should truncate each variant to its top n", func(t *testing.T) {
		ret := &stubRetriever{lists: map[string][][]schema.RankedItem{
			"q": singleList("a", "b", "c", "d"),
		}}
		o := New(ret, &stubScanner{}, Options{PerVariantTopN: 2}, nil)

		out, err := o.Execute(context.Background(), decisionFor(
			schema.QueryVariant{VideoIDs: schema.ScopeSet{"vid-1"}, Question: "q"},
		), catalog)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, contents(out))
	})

	t.Run("Should re-fuse across variants when enabled", func(t *testing.T) {
		ret := &stubRetriever{lists: map[string][][]schema.RankedItem{
			"qa": singleList("shared", "only-a"),
			"qb": singleList("shared", "only-b"),
		}}
		o := New(ret, &stubScanner{}, Options{CrossVariantFusion: true}, nil)

		out, err := o.Execute(context.Background(), decisionFor(
			schema.QueryVariant{VideoIDs: schema.ScopeSet{"vid-1"}, Question: "qa"},
			schema.QueryVariant{VideoIDs: schema.ScopeSet{"vid-2"}, Question: "qb"},
		), catalog)
		require.NoError(t, err)
		require.Len(t, out, 3)
		// the passage both variants agree on wins
		require.Equal(t, "shared", out[0].Content)
	})
}

func contents(results []schema.FusedResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Content)
	}
	return out
}
