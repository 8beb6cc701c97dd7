package retriever

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/NicoleKaira/video-chatbot-v2/common/httpx"
	"github.com/NicoleKaira/video-chatbot-v2/schema"
)

// TextRetriever queries an Elasticsearch-compatible backend with BM25
// over transcript text, filtered to the scoped videos.
// Endpoint example: http://es:9200
// Index example: lecture_chunks
type TextRetriever struct {
	Endpoint string
	Index    string
	Client   *httpx.Client
}

func (r *TextRetriever) Type() string { return "text" }

type esSearchRequest struct {
	Size  int                    `json:"size"`
	Query map[string]interface{} `json:"query"`
}

type esHit struct {
	ID     string                 `json:"_id"`
	Score  float64                `json:"_score"`
	Source map[string]interface{} `json:"_source"`
}
type esHits struct {
	Hits []esHit `json:"hits"`
}
type esSearchResponse struct {
	Hits esHits `json:"hits"`
}

func (r *TextRetriever) Search(ctx context.Context, query string, videoIDs []string, topK int) ([]schema.SearchHit, error) {
	if r.Endpoint == "" || r.Index == "" {
		return []schema.SearchHit{}, nil
	}
	if topK <= 0 {
		topK = 20
	}
	must := []map[string]interface{}{
		{
			"match": map[string]interface{}{
				"text": query,
			},
		},
	}
	var filter []map[string]interface{}
	if len(videoIDs) > 0 {
		filter = append(filter, map[string]interface{}{
			"terms": map[string]interface{}{
				"metadata.video_id": videoIDs,
			},
		})
	}
	q := esSearchRequest{
		Size: topK,
		Query: map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}
	bs, _ := json.Marshal(q)
	// Build URL: {endpoint}/{index}/_search
	u, err := url.Parse(r.Endpoint)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, r.Index, "_search")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(bs))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.Client == nil {
		return nil, fmt.Errorf("text search http client not configured")
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("text search http status %d", resp.StatusCode)
	}
	var esr esSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&esr); err != nil {
		return nil, err
	}
	out := make([]schema.SearchHit, 0, len(esr.Hits.Hits))
	for _, h := range esr.Hits.Hits {
		text, _ := h.Source["text"].(string)
		if text == "" {
			continue
		}
		out = append(out, schema.SearchHit{Content: text, Score: h.Score})
	}
	return out, nil
}
