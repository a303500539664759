// Package voyage is an HTTP Embedder backed by the VoyageAI embeddings
// API, adapted from the teacher's internal/datasources/voyageai client
// to output a configurable dimension rather than a fixed 1024.
package voyage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/arclight-news/newsline-core/internal/embedding"
)

var _ embedding.Embedder = (*Client)(nil)

// Client embeds text using the VoyageAI contextual embeddings API.
type Client struct {
	apiKey     string
	model      string
	dimension  int
	httpClient *http.Client
}

// NewClient creates a new VoyageAI embedding client. dimension must
// match the configured vector index dimension.
func NewClient(apiKey, model string, dimension int) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		dimension:  dimension,
		httpClient: http.DefaultClient,
	}
}

type embeddingRequest struct {
	Inputs          [][]string `json:"inputs"`
	Model           string     `json:"model"`
	InputType       string     `json:"input_type"`
	OutputDimension int        `json:"output_dimension"`
}

type embeddingResponse struct {
	Data []struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	} `json:"data"`
}

// EmbedText embeds a single piece of text, such as an article's joined
// keywords or title, for use as a vectorKNN query vector.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	reqBody := embeddingRequest{
		Inputs:          [][]string{{text}},
		Model:           c.model,
		InputType:       "query",
		OutputDimension: c.dimension,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshalling embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.voyageai.com/v1/contextualizedembeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling voyageai: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voyageai returned status %d", resp.StatusCode)
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding voyageai response: %w", err)
	}

	if len(parsed.Data) == 0 || len(parsed.Data[0].Data) == 0 {
		return nil, fmt.Errorf("voyageai returned no embeddings")
	}
	return parsed.Data[0].Data[0].Embedding, nil
}
