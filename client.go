package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NicoleKaira/video-chatbot-v2/common/httpx"
	"github.com/NicoleKaira/video-chatbot-v2/common/logger"
	"github.com/NicoleKaira/video-chatbot-v2/config"
	"github.com/NicoleKaira/video-chatbot-v2/embedding"
	"github.com/NicoleKaira/video-chatbot-v2/llm"
	"github.com/NicoleKaira/video-chatbot-v2/metrics"
	"github.com/NicoleKaira/video-chatbot-v2/orchestrator"
	"github.com/NicoleKaira/video-chatbot-v2/retriever"
	"github.com/NicoleKaira/video-chatbot-v2/router"
	"github.com/NicoleKaira/video-chatbot-v2/schema"
	"github.com/NicoleKaira/video-chatbot-v2/temporal"
	"github.com/NicoleKaira/video-chatbot-v2/vectordb"
)

// Client is the entry point for answering questions about lecture
// videos. It wires routing, hybrid retrieval, temporal matching, rank
// fusion and answer synthesis behind two calls, Retrieve and Answer.
type Client struct {
	cfg        *config.Config
	log        *logger.Logger
	store      vectordb.VectorStore
	llm        llm.Provider
	router     router.Router
	classifier *temporal.Classifier
	orch       *orchestrator.Orchestrator
	budget     *orchestrator.TokenBudget
}

// NewClient builds a client from config. The context covers backend
// connection setup only.
func NewClient(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.NewNop()
	}

	store, err := vectordb.NewVectorStore(ctx, cfg.VectorDB)
	if err != nil {
		return nil, fmt.Errorf("create vector store failed, err: %w", err)
	}
	embedProvider, err := embedding.NewProvider(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("create embedding provider failed, err: %w", err)
	}
	llmProvider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create llm provider failed, err: %w", err)
	}

	httpClient := httpx.NewFromConfig(cfg.HTTP, log)
	hybrid := retriever.NewHybrid(
		&retriever.VectorRetriever{
			Embed:    embedProvider,
			Store:    store,
			PoolSize: cfg.Retrieval.PoolSize,
		},
		&retriever.TextRetriever{
			Endpoint: cfg.TextSearch.Endpoint,
			Index:    cfg.TextSearch.Index,
			Client:   httpClient,
		},
		cfg.Retrieval.TopK,
		log,
	)

	budget, err := orchestrator.NewTokenBudget(cfg.Retrieval.TokenizerModel, cfg.Retrieval.ContextTokenBudget)
	if err != nil {
		return nil, fmt.Errorf("create token budget failed, err: %w", err)
	}

	orch := orchestrator.New(hybrid, store, orchestrator.Options{
		PerVariantTopN:     cfg.Retrieval.PerVariantTopN,
		Weights:            []float64{cfg.Retrieval.DenseWeight, cfg.Retrieval.SparseWeight},
		RRFC:               cfg.Retrieval.RRFC,
		CrossVariantFusion: cfg.Retrieval.CrossVariantFusion,
	}, log)

	return &Client{
		cfg:        cfg,
		log:        log,
		store:      store,
		llm:        llmProvider,
		router:     router.NewLLMRouter(llmProvider, log),
		classifier: temporal.NewClassifier(llmProvider, log),
		orch:       orch,
		budget:     budget,
	}, nil
}

// Retrieve routes the question against the catalog and executes every
// resulting variant. When routing itself fails, retrieval degrades to a
// single catalog-wide variant instead of failing the request; the
// temporal classifier still supplies a window when the question names a
// concrete moment.
func (c *Client) Retrieve(ctx context.Context, question string, catalog schema.Catalog) ([]schema.FusedResult, *schema.RoutingDecision, error) {
	decision, err := c.router.Route(ctx, question, catalog)
	if err != nil {
		var routingErr *schema.RoutingError
		if !errors.As(err, &routingErr) {
			return nil, nil, err
		}
		c.log.Warn("routing failed, degrading to catalog-wide retrieval", "error", err)
		decision, err = c.fallbackDecision(ctx, question, catalog)
		if err != nil {
			return nil, nil, err
		}
	}

	results, err := c.orch.Execute(ctx, decision, catalog)
	if err != nil {
		return nil, decision, err
	}
	return results, decision, nil
}

// fallbackDecision spans the whole catalog with the raw question.
func (c *Client) fallbackDecision(ctx context.Context, question string, catalog schema.Catalog) (*schema.RoutingDecision, error) {
	if len(catalog) == 0 {
		return nil, &schema.InvalidScopeError{Reason: "catalog is empty"}
	}
	metrics.IncRoutingMode("fallback")

	variant := schema.QueryVariant{
		VideoIDs: schema.NewScopeSet(catalog.IDs()...),
		Question: question,
	}
	if ts, ok, err := c.classifier.Classify(ctx, question); err != nil {
		c.log.Warn("temporal classification failed during fallback", "error", err)
	} else if ok {
		variant.TemporalSignal = append(variant.TemporalSignal, ts)
	}

	return &schema.RoutingDecision{
		Mode:     schema.RoutingMultiVideo,
		VideoIDs: variant.VideoIDs,
		Variants: []schema.QueryVariant{variant},
	}, nil
}

const answerPromptTemplate = `You are an AI assistant that answers questions about lecture videos using the transcript passages below.

Instructions:
- Answer only from the passages. If they do not contain the answer, say politely that you are unable to find an answer.
- Reference timestamps in mm:ss format when the passages include them.
- Keep the answer self-contained and concise.

Passages:

%s

Question:

%s

Answer:`

const unableToAnswer = "I could not find relevant material in the lecture videos to answer that question."

// Answer retrieves passages for the question and synthesizes a final
// answer. Exhausted retrieval yields a polite inability message rather
// than an error.
func (c *Client) Answer(ctx context.Context, question string, catalog schema.Catalog) (string, error) {
	results, _, err := c.Retrieve(ctx, question, catalog)
	if err != nil {
		var exhausted *schema.RetrievalExhaustedError
		if errors.As(err, &exhausted) {
			c.log.Warn("retrieval exhausted", "question", question, "failures", len(exhausted.Failures))
			return unableToAnswer, nil
		}
		return "", err
	}
	if len(results) == 0 {
		return unableToAnswer, nil
	}

	results = c.budget.Apply(results)
	var b strings.Builder
	for _, r := range results {
		b.WriteString(r.Content)
		b.WriteString("\n\n")
	}

	answer, err := c.llm.GenerateCompletion(ctx, fmt.Sprintf(answerPromptTemplate, b.String(), question))
	if err != nil {
		return "", fmt.Errorf("answer synthesis: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// Close releases backend connections.
func (c *Client) Close() error {
	return c.store.Close()
}
