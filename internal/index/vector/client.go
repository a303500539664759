// Package vector is the Pinecone-backed half of the index gateway:
// vector upsert and k-nearest-neighbor search. Grounded on the
// teacher's internal/datasources/pinecone package, generalized from a
// single fixed dataset index to an arbitrary index name/dimension pair
// chosen at startup.
package vector

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/arclight-news/newsline-core/internal/domain"
)

// Client wraps a single Pinecone index connection.
type Client struct {
	pc        *pinecone.Client
	index     *pinecone.Index
	namespace string
}

// Config names the index this client talks to and the dimension/metric
// it must be created with.
type Config struct {
	IndexName string
	Namespace string
	Dimension int32
	Metric    pinecone.IndexMetric
}

// NewClient connects to Pinecone and resolves the named index.
func NewClient(ctx context.Context, apiKey string, cfg Config) (*Client, error) {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating pinecone client: %w", err)
	}

	idx, err := pc.DescribeIndex(ctx, cfg.IndexName)
	if err != nil {
		return nil, fmt.Errorf("describing pinecone index %s: %w", cfg.IndexName, err)
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "default"
	}

	return &Client{pc: pc, index: idx, namespace: namespace}, nil
}

// RecreateIndex drops and recreates the index with the given dimension
// and metric, pinning the schema for every later KNN call. Used once at
// startup; an already-matching index is left alone.
func (c *Client) RecreateIndex(ctx context.Context, cfg Config) error {
	existing, err := c.pc.DescribeIndex(ctx, cfg.IndexName)
	if err == nil && existing.Dimension == cfg.Dimension {
		c.index = existing
		return nil
	}

	if err == nil {
		if delErr := c.pc.DeleteIndex(ctx, cfg.IndexName); delErr != nil {
			return fmt.Errorf("deleting stale pinecone index %s: %w", cfg.IndexName, delErr)
		}
	}

	metric := cfg.Metric
	if metric == "" {
		metric = pinecone.Cosine
	}

	created, err := c.pc.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:      cfg.IndexName,
		Dimension: cfg.Dimension,
		Metric:    metric,
		Cloud:     pinecone.Aws,
		Region:    "us-east-1",
	})
	if err != nil {
		return fmt.Errorf("creating pinecone index %s: %w", cfg.IndexName, err)
	}
	c.index = created
	return nil
}

func (c *Client) conn() (*pinecone.IndexConnection, error) {
	idxConn, err := c.pc.Index(pinecone.NewIndexConnParams{
		Host:      c.index.Host,
		Namespace: c.namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to pinecone index: %w", err)
	}
	return idxConn, nil
}

// Upsert stores vector under id with the given metadata (e.g. source,
// sentiment) for later filtered KNN queries.
func (c *Client) Upsert(ctx context.Context, id string, vec []float32, metadata map[string]any) error {
	idxConn, err := c.conn()
	if err != nil {
		return err
	}
	defer func() { _ = idxConn.Close() }()

	var meta *pinecone.Metadata
	if len(metadata) > 0 {
		s, structErr := structpb.NewStruct(metadata)
		if structErr != nil {
			return fmt.Errorf("encoding metadata for %s: %w", id, structErr)
		}
		meta = s
	}

	_, err = idxConn.UpsertVectors(ctx, []*pinecone.Vector{
		{Id: id, Values: vec, Metadata: meta},
	})
	if err != nil {
		return fmt.Errorf("upserting vector %s: %w", id, err)
	}
	return nil
}

// Delete removes id from the index.
func (c *Client) Delete(ctx context.Context, id string) error {
	idxConn, err := c.conn()
	if err != nil {
		return err
	}
	defer func() { _ = idxConn.Close() }()

	if err := idxConn.DeleteVectorsById(ctx, []string{id}); err != nil {
		return fmt.Errorf("deleting vector %s: %w", id, err)
	}
	return nil
}

// KNN returns the k nearest neighbors of vec, optionally excluding
// excludeID and restricted by an equality metadata filter.
func (c *Client) KNN(ctx context.Context, vec []float32, k int, filters map[string]any, excludeID string) ([]domain.VectorMatch, error) {
	idxConn, err := c.conn()
	if err != nil {
		return nil, err
	}
	defer func() { _ = idxConn.Close() }()

	var filter *structpb.Struct
	if len(filters) > 0 {
		merged := make(map[string]any, len(filters))
		for k, v := range filters {
			merged[k] = v
		}
		filter, err = structpb.NewStruct(merged)
		if err != nil {
			return nil, fmt.Errorf("encoding KNN metadata filter: %w", err)
		}
	}

	resp, err := idxConn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:         vec,
		TopK:           uint32(k), //nolint:gosec // k is caller-bounded
		MetadataFilter: filter,
	})
	if err != nil {
		return nil, fmt.Errorf("querying pinecone KNN: %w", err)
	}

	matches := make([]domain.VectorMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m.Vector.Id == excludeID {
			continue
		}
		matches = append(matches, domain.VectorMatch{ID: m.Vector.Id, Score: float64(m.Score)})
	}
	return matches, nil
}
