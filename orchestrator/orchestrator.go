package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/NicoleKaira/video-chatbot-v2/common/logger"
	"github.com/NicoleKaira/video-chatbot-v2/fusion"
	"github.com/NicoleKaira/video-chatbot-v2/metrics"
	"github.com/NicoleKaira/video-chatbot-v2/schema"
	"github.com/NicoleKaira/video-chatbot-v2/temporal"
)

// HybridRetriever runs both retrieval paths for one scoped query and
// returns the ranked lists, dense first.
type HybridRetriever interface {
	Retrieve(ctx context.Context, catalog schema.Catalog, videoIDs []string, query string) ([][]schema.RankedItem, error)
}

// ChunkScanner fetches all chunks of the given videos, used for
// temporal window matching.
type ChunkScanner interface {
	ScanChunks(ctx context.Context, videoIDs []string) ([]schema.Chunk, error)
}

// Options tunes the fan-out execution.
type Options struct {
	// PerVariantTopN truncates each variant's fused list.
	PerVariantTopN int
	// Weights are the fusion weights for the ranked lists of one
	// variant, dense first.
	Weights []float64
	// RRFC is the reciprocal-rank constant.
	RRFC int
	// CrossVariantFusion re-fuses the variants' lists into one ranking
	// instead of concatenating them in variant order.
	CrossVariantFusion bool
	// MaxConcurrency bounds parallel variant execution. Zero means one
	// goroutine per variant.
	MaxConcurrency int
}

// Orchestrator executes every variant of a routing decision
// concurrently and assembles the final ordered passage list.
type Orchestrator struct {
	retriever HybridRetriever
	scanner   ChunkScanner
	opts      Options
	log       *logger.Logger
}

func New(r HybridRetriever, scanner ChunkScanner, opts Options, log *logger.Logger) *Orchestrator {
	if opts.PerVariantTopN <= 0 {
		opts.PerVariantTopN = 5
	}
	if len(opts.Weights) == 0 {
		opts.Weights = fusion.DefaultWeights()
	}
	if opts.RRFC <= 0 {
		opts.RRFC = fusion.DefaultC
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Orchestrator{retriever: r, scanner: scanner, opts: opts, log: log}
}

// variantOutput holds one variant's assembled passages. Temporal window
// matches come first, in chronological order, then the fused retrieval
// results.
type variantOutput struct {
	results []schema.FusedResult
	err     error
}

// Execute fans out over the decision's variants. A variant failure is
// isolated: its slot is skipped and the rest still contribute. Only
// when every variant fails does Execute return an error, wrapping all
// of them.
func (o *Orchestrator) Execute(ctx context.Context, decision *schema.RoutingDecision, catalog schema.Catalog) ([]schema.FusedResult, error) {
	if decision == nil || len(decision.Variants) == 0 {
		return nil, &schema.RetrievalExhaustedError{Failures: []error{
			fmt.Errorf("routing decision carries no query variants"),
		}}
	}

	requestID := uuid.NewString()
	log := o.log.With("request_id", requestID)

	outputs := make([]variantOutput, len(decision.Variants))
	g, gctx := errgroup.WithContext(ctx)
	if o.opts.MaxConcurrency > 0 {
		g.SetLimit(o.opts.MaxConcurrency)
	}
	for i, variant := range decision.Variants {
		g.Go(func() error {
			results, err := o.runVariant(gctx, log, catalog, variant)
			outputs[i] = variantOutput{results: results, err: err}
			// Failures are collected, never propagated, so one bad
			// variant cannot cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	var (
		combined []schema.FusedResult
		perSlot  [][]schema.FusedResult
		failures []error
	)
	for i, out := range outputs {
		if out.err != nil {
			metrics.IncVariantFailure()
			log.Warn("variant retrieval failed",
				"variant", i, "question", decision.Variants[i].Question, "error", out.err)
			failures = append(failures, fmt.Errorf("variant %d: %w", i, out.err))
			continue
		}
		perSlot = append(perSlot, out.results)
		combined = append(combined, out.results...)
	}
	if len(perSlot) == 0 {
		return nil, &schema.RetrievalExhaustedError{Failures: failures}
	}

	if o.opts.CrossVariantFusion && len(perSlot) > 1 {
		return o.fuseAcrossVariants(perSlot)
	}
	return combined, nil
}

func (o *Orchestrator) runVariant(ctx context.Context, log *logger.Logger, catalog schema.Catalog, variant schema.QueryVariant) ([]schema.FusedResult, error) {
	var results []schema.FusedResult

	window, ok, err := temporal.ResolveWindow(variant.TemporalSignal)
	if err != nil {
		return nil, err
	}
	if ok {
		results = append(results, o.windowMatches(ctx, log, window, variant)...)
	}

	lists, err := o.retriever.Retrieve(ctx, catalog, variant.VideoIDs, variant.Question)
	if err != nil {
		return nil, err
	}
	metrics.ObserveFusion(len(lists))
	fused, err := fusion.Fuse(lists, o.opts.Weights, o.opts.RRFC)
	if err != nil {
		return nil, err
	}
	return append(results, fusion.Truncate(fused, o.opts.PerVariantTopN)...), nil
}

// windowMatches scans the variant's videos for chunks overlapping the
// window. Scan failures degrade the variant to plain retrieval rather
// than failing it.
func (o *Orchestrator) windowMatches(ctx context.Context, log *logger.Logger, window temporal.Window, variant schema.QueryVariant) []schema.FusedResult {
	chunks, err := o.scanner.ScanChunks(ctx, variant.VideoIDs)
	if err != nil {
		log.Warn("temporal chunk scan failed, continuing without window matches",
			"question", variant.Question, "error", err)
		return nil
	}
	matched := window.Filter(chunks)
	metrics.ObserveTemporalMatches(len(matched))
	log.Debug("temporal window resolved",
		"start", temporal.FormatTimestamp(window.Start),
		"end", temporal.FormatTimestamp(window.End),
		"matches", len(matched))

	out := make([]schema.FusedResult, 0, len(matched))
	for _, c := range matched {
		out = append(out, schema.FusedResult{Content: c.Text, Score: temporal.MatchScore})
	}
	return out
}

// fuseAcrossVariants runs a second fusion pass treating each variant's
// assembled list as one ranked list with equal weight.
func (o *Orchestrator) fuseAcrossVariants(perSlot [][]schema.FusedResult) ([]schema.FusedResult, error) {
	lists := make([][]schema.RankedItem, 0, len(perSlot))
	weights := make([]float64, 0, len(perSlot))
	for _, slot := range perSlot {
		lists = append(lists, fusion.Rerank(slot))
		weights = append(weights, 1.0)
	}
	return fusion.Fuse(lists, weights, o.opts.RRFC)
}
