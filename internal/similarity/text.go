package similarity

import (
	"regexp"
	"strings"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "with": {}, "by": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "being": {}, "it": {}, "its": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "as": {}, "from": {}, "into": {},
	"has": {}, "have": {}, "had": {}, "not": {}, "no": {}, "will": {}, "would": {},
}

var tokenRe = regexp.MustCompile(`[A-Za-z0-9']+`)

func tokenize(text string) []string {
	return tokenRe.FindAllString(text, -1)
}

// expandUnigramsAndBigrams tokenizes text, drops stop words, and
// returns both the surviving unigrams and the bigrams formed from
// consecutive surviving tokens — the term set the text strategy queries
// across title/summary/description with.
func expandUnigramsAndBigrams(text string) []string {
	tokens := tokenize(strings.ToLower(text))

	var kept []string
	for _, t := range tokens {
		if _, stop := stopWords[t]; stop {
			continue
		}
		kept = append(kept, t)
	}

	terms := make([]string, 0, len(kept)*2)
	terms = append(terms, kept...)
	for i := 0; i+1 < len(kept); i++ {
		terms = append(terms, kept[i]+" "+kept[i+1])
	}
	return terms
}

var capitalizedRunRe = regexp.MustCompile(`\b([A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)*)\b`)
var quotedPhraseRe = regexp.MustCompile(`"([^"]+)"`)
var technicalTokenRe = regexp.MustCompile(`\b([A-Za-z]+[0-9]+[A-Za-z0-9]*|[A-Z]{2,})\b`)

// extractSemanticTokens pulls named-entity-shaped capitalized runs,
// quoted phrases, and technical tokens (acronyms, alphanumeric codes)
// out of text — the term set the semantic strategy queries with.
func extractSemanticTokens(text string) []string {
	var out []string
	seen := make(map[string]struct{})

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}

	for _, m := range capitalizedRunRe.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range quotedPhraseRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range technicalTokenRe.FindAllString(text, -1) {
		add(m)
	}

	return out
}

// wordOverlapScore scores candidate against query as the fraction of
// query's distinct words also present in candidate.
func wordOverlapScore(query, candidate string) float64 {
	queryWords := tokenize(strings.ToLower(query))
	if len(queryWords) == 0 {
		return 0
	}
	candidateSet := make(map[string]struct{})
	for _, w := range tokenize(strings.ToLower(candidate)) {
		candidateSet[w] = struct{}{}
	}

	matched := 0
	seen := make(map[string]struct{})
	for _, w := range queryWords {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := candidateSet[w]; ok {
			matched++
		}
	}

	distinctQueryWords := len(seen)
	if distinctQueryWords == 0 {
		return 0
	}
	return float64(matched) / float64(distinctQueryWords)
}
