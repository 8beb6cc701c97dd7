package vectordb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/NicoleKaira/video-chatbot-v2/config"
	"github.com/NicoleKaira/video-chatbot-v2/schema"
)

// Collection field names. The ingestion pipeline writes chunks with this
// layout; start/end are seconds from the beginning of the lecture.
const (
	fieldChunkID   = "chunk_id"
	fieldVideoID   = "video_id"
	fieldText      = "text"
	fieldStart     = "start_seconds"
	fieldEnd       = "end_seconds"
	fieldEmbedding = "embedding"
)

type milvusStore struct {
	client     client.Client
	collection string
	metricType entity.MetricType
}

func newMilvusStore(ctx context.Context, cfg config.VectorDBConfig) (*milvusStore, error) {
	c, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect milvus at %s: %w", cfg.Address, err)
	}
	return &milvusStore{
		client:     c,
		collection: cfg.Collection,
		metricType: parseMetricType(cfg.MetricType),
	}, nil
}

func parseMetricType(s string) entity.MetricType {
	switch strings.ToUpper(s) {
	case "IP":
		return entity.IP
	case "L2":
		return entity.L2
	default:
		return entity.COSINE
	}
}

// scopeExpr builds a boolean filter limiting results to the given videos.
func scopeExpr(videoIDs []string) string {
	if len(videoIDs) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(videoIDs))
	for _, id := range videoIDs {
		id = strings.ReplaceAll(id, `\`, `\\`)
		id = strings.ReplaceAll(id, `"`, `\"`)
		quoted = append(quoted, `"`+id+`"`)
	}
	return fmt.Sprintf("%s in [%s]", fieldVideoID, strings.Join(quoted, ", "))
}

func (m *milvusStore) SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchHit, error) {
	if opts == nil {
		opts = &schema.SearchOptions{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	ef := opts.PoolSize
	if ef < limit {
		ef = limit
	}
	sp, err := entity.NewIndexHNSWSearchParam(ef)
	if err != nil {
		return nil, fmt.Errorf("build search params: %w", err)
	}

	results, err := m.client.Search(ctx, m.collection, nil,
		scopeExpr(opts.VideoIDs),
		[]string{fieldChunkID, fieldVideoID, fieldText, fieldStart, fieldEnd},
		[]entity.Vector{entity.FloatVector(vector)},
		fieldEmbedding, m.metricType, limit, sp)
	if err != nil {
		return nil, fmt.Errorf("milvus search: %w", err)
	}

	var hits []schema.SearchHit
	for _, res := range results {
		textCol := res.Fields.GetColumn(fieldText)
		if textCol == nil {
			continue
		}
		for i := 0; i < res.ResultCount; i++ {
			text, err := textCol.GetAsString(i)
			if err != nil {
				return nil, fmt.Errorf("read text column: %w", err)
			}
			hits = append(hits, schema.SearchHit{
				Content: text,
				Score:   float64(res.Scores[i]),
			})
		}
	}
	return hits, nil
}

func (m *milvusStore) ScanChunks(ctx context.Context, videoIDs []string) ([]schema.Chunk, error) {
	rs, err := m.client.Query(ctx, m.collection, nil,
		scopeExpr(videoIDs),
		[]string{fieldChunkID, fieldVideoID, fieldText, fieldStart, fieldEnd})
	if err != nil {
		return nil, fmt.Errorf("milvus query: %w", err)
	}

	idCol := rs.GetColumn(fieldChunkID)
	videoCol := rs.GetColumn(fieldVideoID)
	textCol := rs.GetColumn(fieldText)
	startCol := rs.GetColumn(fieldStart)
	endCol := rs.GetColumn(fieldEnd)
	if idCol == nil || videoCol == nil || textCol == nil || startCol == nil || endCol == nil {
		return nil, fmt.Errorf("milvus query: result missing expected columns")
	}

	chunks := make([]schema.Chunk, 0, idCol.Len())
	for i := 0; i < idCol.Len(); i++ {
		id, err := idCol.GetAsString(i)
		if err != nil {
			return nil, fmt.Errorf("read chunk_id column: %w", err)
		}
		videoID, err := videoCol.GetAsString(i)
		if err != nil {
			return nil, fmt.Errorf("read video_id column: %w", err)
		}
		text, err := textCol.GetAsString(i)
		if err != nil {
			return nil, fmt.Errorf("read text column: %w", err)
		}
		start, err := startCol.GetAsDouble(i)
		if err != nil {
			return nil, fmt.Errorf("read start_seconds column: %w", err)
		}
		end, err := endCol.GetAsDouble(i)
		if err != nil {
			return nil, fmt.Errorf("read end_seconds column: %w", err)
		}
		chunks = append(chunks, schema.Chunk{
			ID:      id,
			VideoID: videoID,
			Text:    text,
			Start:   time.Duration(start * float64(time.Second)),
			End:     time.Duration(end * float64(time.Second)),
		})
	}
	return chunks, nil
}

func (m *milvusStore) Close() error {
	return m.client.Close()
}
