package orchestrator

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/NicoleKaira/video-chatbot-v2/schema"
)

// TokenBudget truncates a passage list to a token budget so the merged
// context fits the answering model's window.
type TokenBudget struct {
	enc   *tiktoken.Tiktoken
	limit int
}

// NewTokenBudget builds a budget for the given model's encoding,
// falling back to cl100k_base for models tiktoken does not know.
func NewTokenBudget(model string, limit int) (*TokenBudget, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("load tokenizer: %w", err)
		}
	}
	return &TokenBudget{enc: enc, limit: limit}, nil
}

// Apply keeps a prefix of results whose total token count stays within
// the budget. The first passage is always kept, even oversized, so the
// answer stage never runs on an empty context.
func (b *TokenBudget) Apply(results []schema.FusedResult) []schema.FusedResult {
	if b == nil || b.limit <= 0 {
		return results
	}
	total := 0
	for i, r := range results {
		total += len(b.enc.Encode(r.Content, nil, nil))
		if total > b.limit && i > 0 {
			return results[:i]
		}
	}
	return results
}

// Count reports the token count of a single text.
func (b *TokenBudget) Count(text string) int {
	if b == nil {
		return 0
	}
	return len(b.enc.Encode(text, nil, nil))
}
