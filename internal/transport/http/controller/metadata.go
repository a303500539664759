package controller

import (
	"net/http"

	"github.com/arclight-news/newsline-core/internal/index"
)

// fixedTopics is the stable topic list surfaced by GET /api/metadata/topics.
var fixedTopics = []string{"India", "Technology", "Politics", "World", "Sports", "Business", "Entertainment", "Science", "Health"}

// fixedSentiments is the stable sentiment list surfaced by
// GET /api/metadata/sentiments.
var fixedSentiments = []string{"positive", "negative", "neutral"}

// Metadata serves the /api/metadata family: fixed topic/sentiment
// vocabularies and the aggregated distinct source list.
type Metadata struct {
	Gateway *index.Gateway
}

func (m *Metadata) Topics(w http.ResponseWriter, r *http.Request) {
	writeJSON(r, w, http.StatusOK, map[string]any{"data": fixedTopics})
}

func (m *Metadata) Sentiments(w http.ResponseWriter, r *http.Request) {
	writeJSON(r, w, http.StatusOK, map[string]any{"data": fixedSentiments})
}

func (m *Metadata) Sources(w http.ResponseWriter, r *http.Request) {
	counts, err := m.Gateway.Aggregate(r.Context(), "source")
	if err != nil {
		writeError(r, w, err)
		return
	}

	sources := make([]string, 0, len(counts))
	for name := range counts {
		sources = append(sources, name)
	}
	writeJSON(r, w, http.StatusOK, map[string]any{"data": sources})
}
