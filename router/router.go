package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/NicoleKaira/video-chatbot-v2/common/logger"
	"github.com/NicoleKaira/video-chatbot-v2/llm"
	"github.com/NicoleKaira/video-chatbot-v2/metrics"
	"github.com/NicoleKaira/video-chatbot-v2/schema"
	"github.com/NicoleKaira/video-chatbot-v2/temporal"
)

// Router classifies a question against the lecture catalog and rewrites
// it into retrieval variants.
type Router interface {
	Route(ctx context.Context, question string, catalog schema.Catalog) (*schema.RoutingDecision, error)
}

// LLMRouter drives routing through a single completion call with a
// strict JSON contract. Anything the model returns that violates the
// contract is a RoutingError; the caller decides whether to fall back.
type LLMRouter struct {
	provider llm.Provider
	log      *logger.Logger
}

func NewLLMRouter(provider llm.Provider, log *logger.Logger) *LLMRouter {
	if log == nil {
		log = logger.NewNop()
	}
	return &LLMRouter{provider: provider, log: log}
}

const routingPromptTemplate = `SYSTEM ROLE:
You are a lightweight router and question rewriter for a lecture-video retrieval system.

INPUTS:
- user_query = %s
- video_map  = %s   # array of {"name": "...", "video_id": "..."}

STEP 1 - CLASSIFY
Routing_type:
- "SINGLE_VIDEO": answerable from one specific lecture.
- "MULTI_VIDEO": needs two or more lectures. If unsure OR no lecture explicitly mentioned, choose "MULTI_VIDEO".

STEP 2 - MAP LECTURES TO video_id(s)
Resolve case-insensitive names/aliases (and "lecture N" -> Nth entry in video_map) to video_id(s).
- If no lecture explicitly named -> set top-level video_ids to **all** IDs in video_map (order-preserving).
- SINGLE_VIDEO -> exactly 1 id. MULTI_VIDEO -> 1 or more ids (deduped, order-preserving).

STEP 3 - QUESTION REWRITING
- SINGLE_VIDEO: produce **exactly 2** variants:
1) Sparse-optimized (keyword-heavy).  2) Dense-optimized (semantic).
Each variant's "video_ids" = [that single mapped id].
- MULTI_VIDEO: produce **exactly 2** variants decomposed into distinct sub-questions.
Each sub-question should target a distinct aspect of the query, not duplicates.
Each variant's "video_ids" = all related ids; if none specified, use **top-level video_ids** (i.e., all videos).

STEP 4 - TEMPORAL SIGNALS
- If a variant's question pins itself to a moment or range in its video, put the timestamp(s) in "temporal_signal" as "H:MM:SS" (at most two: a point, or a start and an end). Otherwise leave it empty. Never invent timestamps.

CONSTRAINTS
- Do **not** invent facts or lecture names. Queries must stay grounded in the original question.
- "video_ids" must be valid IDs from video_map.
- Top-level "video_ids" must equal the union (deduped, order-preserving) of all IDs appearing in query_variants[*].video_ids.
- Return **valid JSON only** (no comments/markdown/trailing commas).

STRICT OUTPUT (return ONLY this JSON object):
{
"routing_type": "SINGLE_VIDEO" | "MULTI_VIDEO",
"user_query": "...",
"video_ids": ["..."],
"query_variants": [
    { "video_ids": ["..."], "question": "...", "temporal_signal": ["H:MM:SS"] },
    { "video_ids": ["..."], "question": "...", "temporal_signal": [] }
]
}
`

type wireVariant struct {
	VideoIDs       []string `json:"video_ids"`
	Question       string   `json:"question"`
	TemporalSignal []string `json:"temporal_signal"`
}

type wireDecision struct {
	RoutingType   string        `json:"routing_type"`
	UserQuery     string        `json:"user_query"`
	VideoIDs      []string      `json:"video_ids"`
	QueryVariants []wireVariant `json:"query_variants"`
}

// Route runs the routing completion and validates the reply against the
// catalog and the routing contract.
func (r *LLMRouter) Route(ctx context.Context, question string, catalog schema.Catalog) (*schema.RoutingDecision, error) {
	if len(catalog) == 0 {
		return nil, &schema.RoutingError{Reason: "catalog is empty"}
	}

	catalogJSON, err := json.Marshal(catalog)
	if err != nil {
		return nil, &schema.RoutingError{Reason: "encode catalog", Err: err}
	}
	prompt := fmt.Sprintf(routingPromptTemplate, jsonQuote(question), string(catalogJSON))

	raw, err := r.provider.GenerateCompletion(ctx, prompt)
	if err != nil {
		return nil, &schema.RoutingError{Reason: "routing completion failed", Err: err}
	}

	var wire wireDecision
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &wire); err != nil {
		return nil, &schema.RoutingError{Reason: "routing reply is not valid JSON", Err: err}
	}

	decision, err := r.validate(&wire, catalog)
	if err != nil {
		return nil, err
	}
	metrics.IncRoutingMode(string(decision.Mode))
	r.log.Info("routed question",
		"mode", decision.Mode, "videos", len(decision.VideoIDs), "variants", len(decision.Variants))
	return decision, nil
}

func (r *LLMRouter) validate(wire *wireDecision, catalog schema.Catalog) (*schema.RoutingDecision, error) {
	var mode schema.RoutingMode
	switch wire.RoutingType {
	case string(schema.RoutingSingleVideo):
		mode = schema.RoutingSingleVideo
	case string(schema.RoutingMultiVideo):
		mode = schema.RoutingMultiVideo
	default:
		return nil, &schema.RoutingError{
			Reason: fmt.Sprintf("unknown routing_type %q", wire.RoutingType),
		}
	}

	topLevel := schema.NewScopeSet(wire.VideoIDs...)
	if len(topLevel) == 0 {
		return nil, &schema.RoutingError{Reason: "routing reply names no videos"}
	}
	if unknown, ok := catalog.ValidateIDs(topLevel); !ok {
		return nil, &schema.RoutingError{
			Reason: fmt.Sprintf("routing reply references unknown video %q", unknown),
		}
	}
	if mode == schema.RoutingSingleVideo && len(topLevel) != 1 {
		return nil, &schema.RoutingError{
			Reason: fmt.Sprintf("single-video routing must name exactly one video, got %d", len(topLevel)),
		}
	}

	if len(wire.QueryVariants) != 2 {
		return nil, &schema.RoutingError{
			Reason: fmt.Sprintf("routing reply must carry exactly 2 query variants, got %d", len(wire.QueryVariants)),
		}
	}

	variants := make([]schema.QueryVariant, 0, len(wire.QueryVariants))
	union := schema.ScopeSet{}
	for i, wv := range wire.QueryVariants {
		if strings.TrimSpace(wv.Question) == "" {
			return nil, &schema.RoutingError{
				Reason: fmt.Sprintf("query variant %d has an empty question", i),
			}
		}
		scope := schema.NewScopeSet(wv.VideoIDs...)
		if len(scope) == 0 {
			// Per contract an unscoped variant spans the top-level set.
			scope = topLevel
		}
		if unknown, ok := catalog.ValidateIDs(scope); !ok {
			return nil, &schema.RoutingError{
				Reason: fmt.Sprintf("query variant %d references unknown video %q", i, unknown),
			}
		}
		signals, err := parseSignals(wv.TemporalSignal)
		if err != nil {
			return nil, &schema.RoutingError{
				Reason: fmt.Sprintf("query variant %d: %v", i, err),
			}
		}
		union = union.Union(scope)
		variants = append(variants, schema.QueryVariant{
			VideoIDs:       scope,
			Question:       strings.TrimSpace(wv.Question),
			TemporalSignal: signals,
		})
	}

	if !topLevel.Equal(union) {
		return nil, &schema.RoutingError{
			Reason: "top-level video_ids do not equal the union of the variants' video_ids",
		}
	}

	return &schema.RoutingDecision{
		Mode:     mode,
		VideoIDs: topLevel,
		Variants: variants,
	}, nil
}

func parseSignals(raw []string) ([]time.Duration, error) {
	if len(raw) > 2 {
		return nil, fmt.Errorf("at most two temporal signals allowed, got %d", len(raw))
	}
	signals := make([]time.Duration, 0, len(raw))
	for _, s := range raw {
		d, err := temporal.ParseTimestamp(s)
		if err != nil {
			return nil, err
		}
		signals = append(signals, d)
	}
	if len(signals) == 2 && signals[0] > signals[1] {
		return nil, fmt.Errorf("temporal range %s..%s is reversed",
			temporal.FormatTimestamp(signals[0]), temporal.FormatTimestamp(signals[1]))
	}
	return signals, nil
}

func jsonQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// stripCodeFence removes a surrounding markdown code fence from a chat
// model reply.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
