package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/NicoleKaira/video-chatbot-v2/config"
)

// Provider is the single request/response completion operation the
// router, the temporal classifier, and answer synthesis are built on.
type Provider interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
}

// NewProvider creates an LLM provider from config.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
