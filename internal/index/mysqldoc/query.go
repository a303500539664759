package mysqldoc

import "strings"

// parsedQuery is a textSearch query broken into the pieces the query
// language distinguishes: AND'd terms (each itself an OR group split on
// "|"), field:{value} tag filters, and "-"-prefixed negations.
type parsedQuery struct {
	orGroups  [][]string // each inner slice is OR'd together, groups are AND'd
	tags      map[string]string
	negations []string
}

// parseQuery splits query on whitespace for AND terms; within a term,
// "|" separates OR alternatives; "field:value" is lifted into a tag
// filter instead of a text term; a leading "-" marks a negated term.
func parseQuery(query string) parsedQuery {
	parsed := parsedQuery{tags: make(map[string]string)}

	for _, term := range strings.Fields(query) {
		switch {
		case strings.HasPrefix(term, "-") && len(term) > 1:
			parsed.negations = append(parsed.negations, term[1:])
		case strings.Contains(term, ":"):
			parts := strings.SplitN(term, ":", 2)
			field, value := parts[0], strings.Trim(parts[1], "{}")
			parsed.tags[field] = value
		default:
			parsed.orGroups = append(parsed.orGroups, strings.Split(term, "|"))
		}
	}

	return parsed
}
