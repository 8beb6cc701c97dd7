package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NicoleKaira/video-chatbot-v2/schema"
)

type stubProvider struct {
	reply string
	err   error
}

func (s *stubProvider) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func testCatalog() schema.Catalog {
	return schema.Catalog{
		{Name: "Lecture 1 Intro", VideoID: "vid-1"},
		{Name: "Lecture 2 Graphs", VideoID: "vid-2"},
		{Name: "Lecture 3 Sorting", VideoID: "vid-3"},
	}
}

func route(t *testing.T, reply string) (*schema.RoutingDecision, error) {
	t.Helper()
	r := NewLLMRouter(&stubProvider{reply: reply}, nil)
	return r.Route(context.Background(), "what is BFS?", testCatalog())
}

func TestLLMRouterRoute(t *testing.T) {
	t.Run("Should accept a valid single-video reply", func(t *testing.T) {
		decision, err := route(t, `{
			"routing_type": "SINGLE_VIDEO",
			"user_query": "what is BFS?",
			"video_ids": ["vid-2"],
			"query_variants": [
				{"video_ids": ["vid-2"], "question": "BFS breadth first search definition", "temporal_signal": []},
				{"video_ids": ["vid-2"], "question": "how does breadth first search explore a graph", "temporal_signal": []}
			]
		}`)
		require.NoError(t, err)
		require.Equal(t, schema.RoutingSingleVideo, decision.Mode)
		require.Equal(t, schema.ScopeSet{"vid-2"}, decision.VideoIDs)
		require.Len(t, decision.Variants, 2)
	})

	t.Run("Should accept a multi-video reply with temporal signals", func(t *testing.T) {
		decision, err := route(t, `{
			"routing_type": "MULTI_VIDEO",
			"user_query": "q",
			"video_ids": ["vid-1", "vid-2"],
			"query_variants": [
				{"video_ids": ["vid-1"], "question": "what is covered at 23 minutes", "temporal_signal": ["0:23:00"]},
				{"video_ids": ["vid-2"], "question": "does the graphs lecture mention BFS", "temporal_signal": []}
			]
		}`)
		require.NoError(t, err)
		require.Equal(t, schema.RoutingMultiVideo, decision.Mode)
		require.Equal(t, []time.Duration{23 * time.Minute}, decision.Variants[0].TemporalSignal)
		require.Empty(t, decision.Variants[1].TemporalSignal)
	})

	t.Run("Should default an unscoped variant to the top-level set", func(t *testing.T) {
		decision, err := route(t, `{
			"routing_type": "MULTI_VIDEO",
			"user_query": "q",
			"video_ids": ["vid-1", "vid-2", "vid-3"],
			"query_variants": [
				{"video_ids": [], "question": "first aspect", "temporal_signal": []},
				{"video_ids": [], "question": "second aspect", "temporal_signal": []}
			]
		}`)
		require.NoError(t, err)
		require.Equal(t, schema.ScopeSet{"vid-1", "vid-2", "vid-3"}, decision.Variants[0].VideoIDs)
	})

	requireRoutingError := func(t *testing.T, err error) {
		t.Helper()
		var re *schema.RoutingError
		require.ErrorAs(t, err, &re)
	}

	t.Run("Should reject non-JSON output", func(t *testing.T) {
		_, err := route(t, "the answer is lecture two")
		requireRoutingError(t, err)
	})

	t.Run("Should reject an unknown routing type", func(t *testing.T) {
		_, err := route(t, `{"routing_type": "GENERAL_KB", "video_ids": ["vid-1"], "query_variants": [
			{"video_ids": ["vid-1"], "question": "a"}, {"video_ids": ["vid-1"], "question": "b"}]}`)
		requireRoutingError(t, err)
	})

	t.Run("Should reject video IDs outside the catalog", func(t *testing.T) {
		_, err := route(t, `{"routing_type": "SINGLE_VIDEO", "video_ids": ["vid-9"], "query_variants": [
			{"video_ids": ["vid-9"], "question": "a"}, {"video_ids": ["vid-9"], "question": "b"}]}`)
		requireRoutingError(t, err)
	})

	t.Run("Should reject a variant count other than two", func(t *testing.T) {
		_, err := route(t, `{"routing_type": "SINGLE_VIDEO", "video_ids": ["vid-1"], "query_variants": [
			{"video_ids": ["vid-1"], "question": "only one"}]}`)
		requireRoutingError(t, err)
	})

	t.Run("Should reject multiple IDs in single-video mode", func(t *testing.T) {
		_, err := route(t, `{"routing_type": "SINGLE_VIDEO", "video_ids": ["vid-1", "vid-2"], "query_variants": [
			{"video_ids": ["vid-1"], "question": "a"}, {"video_ids": ["vid-2"], "question": "b"}]}`)
		requireRoutingError(t, err)
	})

	t.Run("Should reject a top-level set that is not the variants' union", func(t *testing.T) {
		_, err := route(t, `{"routing_type": "MULTI_VIDEO", "video_ids": ["vid-1", "vid-2", "vid-3"], "query_variants": [
			{"video_ids": ["vid-1"], "question": "a"}, {"video_ids": ["vid-2"], "question": "b"}]}`)
		requireRoutingError(t, err)
	})

	t.Run("Should reject a reversed temporal range", func(t *testing.T) {
		_, err := route(t, `{"routing_type": "SINGLE_VIDEO", "video_ids": ["vid-1"], "query_variants": [
			{"video_ids": ["vid-1"], "question": "a", "temporal_signal": ["0:20:00", "0:10:00"]},
			{"video_ids": ["vid-1"], "question": "b"}]}`)
		requireRoutingError(t, err)
	})

	t.Run("Should reject more than two temporal signals", func(t *testing.T) {
		_, err := route(t, `{"routing_type": "SINGLE_VIDEO", "video_ids": ["vid-1"], "query_variants": [
			{"video_ids": ["vid-1"], "question": "a", "temporal_signal": ["0:01:00", "0:02:00", "0:03:00"]},
			{"video_ids": ["vid-1"], "question": "b"}]}`)
		requireRoutingError(t, err)
	})

	t.Run("Should reject an empty catalog", func(t *testing.T) {
		r := NewLLMRouter(&stubProvider{reply: "{}"}, nil)
		_, err := r.Route(context.Background(), "q", nil)
		requireRoutingError(t, err)
	})

	t.Run("Should wrap provider failures", func(t *testing.T) {
		r := NewLLMRouter(&stubProvider{err: errors.New("timeout")}, nil)
		_, err := r.Route(context.Background(), "q", testCatalog())
		requireRoutingError(t, err)
	})

	t.Run("Should accept a fenced JSON reply", func(t *testing.T) {
		decision, err := route(t, "```json\n{\"routing_type\": \"SINGLE_VIDEO\", \"video_ids\": [\"vid-1\"], \"query_variants\": [\n {\"video_ids\": [\"vid-1\"], \"question\": \"a\"}, {\"video_ids\": [\"vid-1\"], \"question\": \"b\"}]}\n```")
		require.NoError(t, err)
		require.Equal(t, schema.RoutingSingleVideo, decision.Mode)
	})
}
