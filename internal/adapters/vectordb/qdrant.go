package vectordb

import (
	"context"
	"fmt"
	"sync"
	"time"

	qd "github.com/qdrant/go-client/qdrant"
	"github.com/ragserve/ragserve/internal/domain/entities"
)

// QdrantStore implements ports.VectorStore against a Qdrant collection.
// The collection is created lazily on first insert so that startup never
// depends on the store being reachable.
type QdrantStore struct {
	client     *qd.Client
	collection string
	dimension  uint64

	mu      sync.Mutex
	created bool
}

// QdrantConfig holds Qdrant client configuration.
type QdrantConfig struct {
	// Host and Port locate the gRPC endpoint (default port 6334).
	Host string
	Port int

	// Optional API key for authentication.
	APIKey string

	// Collection name for storing documents.
	Collection string

	// Dimension is the embedding size used when creating the collection.
	Dimension int

	// SkipCompatibilityCheck suppresses the client's startup version probe,
	// the one call this client makes on its own behalf.
	SkipCompatibilityCheck bool
}

// NewQdrantStore creates a new Qdrant-backed vector store.
func NewQdrantStore(cfg QdrantConfig) (*QdrantStore, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = 768
	}

	client, err := qd.NewClient(&qd.Config{
		Host:                   cfg.Host,
		Port:                   cfg.Port,
		APIKey:                 cfg.APIKey,
		SkipCompatibilityCheck: cfg.SkipCompatibilityCheck,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Qdrant client: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: cfg.Collection,
		dimension:  uint64(cfg.Dimension),
	}, nil
}

// Insert upserts a document as a single point keyed by its UUID.
func (s *QdrantStore) Insert(ctx context.Context, doc entities.Document) error {
	if err := s.ensureCollection(ctx); err != nil {
		return err
	}

	point := &qd.PointStruct{
		Id: &qd.PointId{
			PointIdOptions: &qd.PointId_Uuid{Uuid: doc.ID},
		},
		Vectors: &qd.Vectors{
			VectorsOptions: &qd.Vectors_Vector{
				Vector: &qd.Vector{Data: doc.Embedding},
			},
		},
		Payload: map[string]*qd.Value{
			"content":    qd.NewValueString(doc.Text),
			"created_at": qd.NewValueString(doc.CreatedAt.Format(time.RFC3339)),
		},
	}

	wait := true
	_, err := s.client.Upsert(ctx, &qd.UpsertPoints{
		CollectionName: s.collection,
		Points:         []*qd.PointStruct{point},
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("upserting point to collection %s: %w", s.collection, err)
	}
	return nil
}

// Search runs a nearest-neighbor query and maps the hits to snippets.
func (s *QdrantStore) Search(ctx context.Context, embedding []float32, topK int) ([]entities.RetrievedSnippet, error) {
	limit := uint64(topK)
	points, err := s.client.Query(ctx, &qd.QueryPoints{
		CollectionName: s.collection,
		Query:          qd.NewQuery(embedding...),
		Limit:          &limit,
		WithPayload:    qd.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", s.collection, err)
	}

	snippets := make([]entities.RetrievedSnippet, 0, len(points))
	for _, point := range points {
		snippets = append(snippets, snippetFromPoint(point))
	}
	return snippets, nil
}

// Close releases the underlying gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// ensureCollection creates the collection on first use.
func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.created {
		return nil
	}

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("checking collection %s: %w", s.collection, err)
	}
	if !exists {
		err = s.client.CreateCollection(ctx, &qd.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qd.NewVectorsConfig(&qd.VectorParams{
				Size:     s.dimension,
				Distance: qd.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("creating collection %s: %w", s.collection, err)
		}
	}

	s.created = true
	return nil
}

// snippetFromPoint converts a scored Qdrant point to a domain snippet.
func snippetFromPoint(point *qd.ScoredPoint) entities.RetrievedSnippet {
	snippet := entities.RetrievedSnippet{
		Score: float64(point.GetScore()),
	}
	if id := point.GetId(); id != nil {
		snippet.DocumentID = id.GetUuid()
	}
	if value, ok := point.GetPayload()["content"]; ok {
		snippet.Text = value.GetStringValue()
	}
	return snippet
}
