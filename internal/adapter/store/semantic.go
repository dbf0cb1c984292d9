package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"newsreel/internal/domain/repository"
	"newsreel/internal/logger"
)

// SemanticCache finds summaries of near-identical articles after the exact
// cache misses. It is advisory: any lookup error is treated as a miss so the
// request falls through to the model.
type SemanticCache struct {
	client         *qdrant.Client
	embedder       repository.Embedder
	collectionName string
	threshold      float32
	log            logger.Logger
}

func NewSemanticCache(client *qdrant.Client, embedder repository.Embedder, collectionName string, threshold float32, log logger.Logger) *SemanticCache {
	return &SemanticCache{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		threshold:      threshold,
		log:            log,
	}
}

// InitCollection creates the collection and the created_at payload index used
// by the freshness filter.
func (s *SemanticCache) InitCollection(ctx context.Context, dim uint64) error {
	_, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err != nil {
		st, ok := status.FromError(err)
		if !ok || st.Code() != codes.NotFound {
			return err
		}
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     dim,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
	}

	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collectionName,
		FieldName:      "created_at",
		FieldType:      qdrant.FieldType_FieldTypeInteger.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		// The index may already exist; not fatal.
		s.log.Warn(ctx, "could not create created_at index: %v", err)
	}
	return nil
}

// Search embeds the normalized article and returns a previously stored
// summary whose article scored above the similarity threshold within the
// last 24 hours.
func (s *SemanticCache) Search(ctx context.Context, text string) (string, bool, error) {
	vector, err := s.embedder.CreateEmbedding(ctx, text)
	if err != nil {
		return "", false, fmt.Errorf("embedding generation failed: %w", err)
	}

	oneDayAgo := time.Now().Add(-24 * time.Hour).Unix()
	freshness := &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{
				Key: "created_at",
				Range: &qdrant.Range{
					Gte: qdrant.PtrOf(float64(oneDayAgo)),
				},
			},
		},
	}

	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter:         &qdrant.Filter{Must: []*qdrant.Condition{freshness}},
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
		ScoreThreshold: &s.threshold,
	})
	if err != nil {
		return "", false, err
	}
	if len(res) == 0 {
		return "", false, nil
	}

	summary := res[0].Payload["summary"].GetStringValue()
	if summary == "" {
		return "", false, nil
	}
	return summary, true, nil
}

// Save stores the article/summary pair for future similarity hits.
func (s *SemanticCache) Save(ctx context.Context, text, summary string) error {
	vector, err := s.embedder.CreateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("embedding generation failed: %w", err)
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(uuid.NewString()),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"content":    text,
					"summary":    summary,
					"created_at": time.Now().Unix(),
				}),
			},
		},
	})
	return err
}
