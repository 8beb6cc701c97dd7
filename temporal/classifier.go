package temporal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/NicoleKaira/video-chatbot-v2/common/logger"
	"github.com/NicoleKaira/video-chatbot-v2/llm"
)

// Classifier decides whether a free-form question pins itself to a
// moment in the video, and extracts that moment when it does. It backs
// the fallback path taken when full routing is unavailable.
type Classifier struct {
	provider llm.Provider
	log      *logger.Logger
}

func NewClassifier(provider llm.Provider, log *logger.Logger) *Classifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &Classifier{provider: provider, log: log}
}

const classifierPromptTemplate = `You are an assistant that specializes in analyzing questions about lecture videos.

Given a user question, determine whether it is **temporal**, meaning it refers to a specific point or time in the video (e.g., 'at 0:5:00', 'around 20 minutes in').

### Instructions:
1. First, check if the question is temporal AND it is possible to derive an appropriate timestamp.
2. If YES, extract the timestamp mentioned in the question (e.g., 0:05:00, 1:27:30).
3. If NO, it is not a temporal question. Relative phrasing with no concrete time, such as "towards the end", is not temporal.

### Format your response strictly as:
{
  "is_temporal": true or false,
  "timestamp": "H:MM:SS" or "None"
}

### Example 1:
Question: "What was discussed at the 27-minute mark of the lecture?"
Response:
{
  "is_temporal": true,
  "timestamp": "0:27:00"
}

### Example 2:
Question: "What are the learning outcomes of this course?"
Response:
{
  "is_temporal": false,
  "timestamp": "None"
}

### Example 3:
Question: "What was mentioned toward the end?"
Response:
{
  "is_temporal": false,
  "timestamp": "None"
}

Question: %q
Response:`

type classifierReply struct {
	IsTemporal bool   `json:"is_temporal"`
	Timestamp  string `json:"timestamp"`
}

// Classify returns the referenced timestamp and ok=true when the
// question names a concrete moment. Any malformed or inconsistent model
// output degrades to ok=false rather than guessing a time.
func (c *Classifier) Classify(ctx context.Context, question string) (time.Duration, bool, error) {
	raw, err := c.provider.GenerateCompletion(ctx, fmt.Sprintf(classifierPromptTemplate, question))
	if err != nil {
		return 0, false, fmt.Errorf("temporal classification: %w", err)
	}

	var reply classifierReply
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &reply); err != nil {
		c.log.Warn("temporal classifier returned non-JSON output, treating as non-temporal", "error", err)
		return 0, false, nil
	}
	if !reply.IsTemporal {
		return 0, false, nil
	}
	ts := strings.TrimSpace(reply.Timestamp)
	if ts == "" || strings.EqualFold(ts, "none") || strings.EqualFold(ts, "null") {
		// Claimed temporal but produced no time. Never invent one.
		return 0, false, nil
	}
	d, err := ParseTimestamp(ts)
	if err != nil {
		c.log.Warn("temporal classifier produced unparseable timestamp, treating as non-temporal",
			"timestamp", ts, "error", err)
		return 0, false, nil
	}
	return d, true, nil
}

// stripCodeFence removes a surrounding markdown code fence, which chat
// models frequently add around JSON despite instructions.
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
