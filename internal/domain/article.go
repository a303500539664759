// Package domain holds the core entities shared across the retrieval,
// ranking, and caching subsystems: articles, user preferences, read
// history, and cache envelopes.
package domain

import "time"

// Sentiment is one of the three values the summarizer assigns to an
// article, or empty when unset.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Valid reports whether s is one of the allowed sentiment values or empty.
func (s Sentiment) Valid() bool {
	switch s {
	case "", SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	default:
		return false
	}
}

// Source identifies the publisher of an article.
type Source struct {
	Name string `json:"name"`
}

// Article is the core content entity. ID is a stable content address
// (hash of title || publishedAt), computed by the ingestion pipeline;
// the core treats articles as immutable once stored.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary"`
	Sentiment   Sentiment `json:"sentiment,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	Source      Source    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage,omitempty"`
	Author      string    `json:"author,omitempty"`
	Vector      []float32 `json:"vector,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MaxKeywords is the upper bound on stored keywords per article.
const MaxKeywords = 15

// SearchText returns the text used to seed a similarity search for this
// article: its joined keywords when present, else its title.
func (a Article) SearchText() string {
	if len(a.Keywords) > 0 {
		text := a.Keywords[0]
		for _, k := range a.Keywords[1:] {
			text += " " + k
		}
		return text
	}
	return a.Title
}

// SimilarArticle pairs an article with its similarity score and the
// strategy that produced it.
type SimilarArticle struct {
	Article      Article `json:"article"`
	Similarity   float64 `json:"similarity"`
	Method       string  `json:"method"`
	KeywordsUsed bool    `json:"keywordsUsed,omitempty"`
}

// VectorMatch is a single raw vector-index KNN result: a document ID
// paired with its similarity score (higher is closer under cosine
// metric).
type VectorMatch struct {
	ID    string
	Score float64
}

// TextSearchOptions shapes a textSearch call against the index gateway.
type TextSearchOptions struct {
	SortBy string // "relevance" (default) or "publishedAt"
	Limit  int
	Offset int
}

// ScoredArticle pairs an article with the score and preference that
// produced it in a personalized feed or search, or "general" when it
// came from the top-up pool rather than a matched preference.
type ScoredArticle struct {
	Article           Article `json:"article"`
	FinalScore        float64 `json:"finalScore"`
	MatchedPreference string  `json:"matchedPreference"`
	PreferenceOrder   int     `json:"preferenceOrder"`
	SearchSimilarity  float64 `json:"searchSimilarity,omitempty"`
}

// Method tags used across SimilarArticle and ScoredArticle results.
const (
	MethodVector    = "vector"
	MethodText      = "text"
	MethodSemantic  = "semantic"
	MethodCategory  = "category"
	MethodTemporal  = "temporal"
	MethodCombined  = "combined"
	MethodGeneral   = "general"
	MethodFallback  = "fallback"
)
