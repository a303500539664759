package similarity

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/index"
)

// candidate is one fallback-strategy hit before rank fusion.
type candidate struct {
	article domain.Article
	score   float64
}

// rankScore converts a 0-based rank into a reciprocal-rank score in
// (0, 1], the per-candidate "score_in_strategy" fed into weighted rank
// fusion for the text and semantic strategies, neither of which has an
// explicit scoring formula of its own.
func rankScore(rank int) float64 {
	return 1.0 / float64(rank+1)
}

// textStrategy expands the target into unigrams+bigrams over title,
// summary, and description, drops stop words, and searches across the
// same fields.
func textStrategy(ctx context.Context, gw *index.Gateway, target domain.Article, excludeID string, want int) ([]candidate, error) {
	terms := expandUnigramsAndBigrams(strings.Join([]string{target.Title, target.Summary, target.Description}, " "))
	if len(terms) == 0 {
		return nil, nil
	}
	query := strings.Join(terms, "|")

	articles, _, err := gw.TextSearch(ctx, query, domain.TextSearchOptions{Limit: want + 1})
	if err != nil {
		return nil, fmt.Errorf("text strategy search: %w", err)
	}
	return toCandidates(articles, excludeID, want), nil
}

// semanticStrategy extracts named-entity-shaped tokens, quoted phrases,
// and technical tokens from the target and searches across the same
// fields.
func semanticStrategy(ctx context.Context, gw *index.Gateway, target domain.Article, excludeID string, want int) ([]candidate, error) {
	tokens := extractSemanticTokens(strings.Join([]string{target.Title, target.Summary, target.Description}, " "))
	if len(tokens) == 0 {
		return nil, nil
	}
	query := strings.Join(tokens, "|")

	articles, _, err := gw.TextSearch(ctx, query, domain.TextSearchOptions{Limit: want + 1})
	if err != nil {
		return nil, fmt.Errorf("semantic strategy search: %w", err)
	}
	return toCandidates(articles, excludeID, want), nil
}

// categoryStrategy filters by the target's sentiment and source, and
// scores each candidate by a blend of sentiment/source/keyword overlap.
func categoryStrategy(ctx context.Context, gw *index.Gateway, target domain.Article, excludeID string, want int) ([]candidate, error) {
	var tags []string
	if target.Source.Name != "" {
		tags = append(tags, "source:"+target.Source.Name)
	}
	if target.Sentiment != "" {
		tags = append(tags, "sentiment:"+string(target.Sentiment))
	}
	if len(tags) == 0 {
		return nil, nil
	}

	articles, _, err := gw.TextSearch(ctx, strings.Join(tags, " "), domain.TextSearchOptions{Limit: want + 1})
	if err != nil {
		return nil, fmt.Errorf("category strategy search: %w", err)
	}

	out := make([]candidate, 0, len(articles))
	for _, a := range articles {
		if a.ID == excludeID {
			continue
		}
		sentimentMatch := 0.0
		if a.Sentiment != "" && a.Sentiment == target.Sentiment {
			sentimentMatch = 1
		}
		sourceMatch := 0.0
		if a.Source.Name != "" && a.Source.Name == target.Source.Name {
			sourceMatch = 1
		}
		categoryMatch := keywordOverlap(target.Keywords, a.Keywords)

		score := 0.3*sentimentMatch + 0.2*sourceMatch + 0.3*categoryMatch
		out = append(out, candidate{article: a, score: score})
		if len(out) == want {
			break
		}
	}
	return out, nil
}

// temporalStrategy scores candidates published within +/-7 days of the
// target, decaying linearly to 0 at 30 days.
func temporalStrategy(ctx context.Context, gw *index.Gateway, target domain.Article, excludeID string, want int) ([]candidate, error) {
	articles, _, err := gw.TextSearch(ctx, "", domain.TextSearchOptions{SortBy: "publishedAt", Limit: want * 5})
	if err != nil {
		return nil, fmt.Errorf("temporal strategy search: %w", err)
	}

	out := make([]candidate, 0, want)
	for _, a := range articles {
		if a.ID == excludeID {
			continue
		}
		days := math.Abs(a.PublishedAt.Sub(target.PublishedAt).Hours() / 24)
		if days > 7 {
			continue
		}
		score := math.Max(0, 1-days/30)
		out = append(out, candidate{article: a, score: score})
		if len(out) == want {
			break
		}
	}
	return out, nil
}

func keywordOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, k := range a {
		set[strings.ToLower(k)] = struct{}{}
	}
	matched := 0
	for _, k := range b {
		if _, ok := set[strings.ToLower(k)]; ok {
			matched++
		}
	}
	union := len(set)
	for _, k := range b {
		if _, ok := set[strings.ToLower(k)]; !ok {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(matched) / float64(union)
}

func toCandidates(articles []domain.Article, excludeID string, want int) []candidate {
	out := make([]candidate, 0, len(articles))
	rank := 0
	for _, a := range articles {
		if a.ID == excludeID {
			continue
		}
		out = append(out, candidate{article: a, score: rankScore(rank)})
		rank++
		if len(out) == want {
			break
		}
	}
	return out
}

// strategyWeights are applied during rank fusion.
var strategyWeights = map[string]float64{
	"text":     0.4,
	"semantic": 0.3,
	"category": 0.2,
	"temporal": 0.1,
}
