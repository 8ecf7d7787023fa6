package components

import (
	"sort"
	"strings"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

// SearchQuery represents a parsed search query
type SearchQuery struct {
	Pattern string // The search pattern (after removing prefix)
	Negate  bool   // True if query starts with !
	Field   string // Restricts matching to one field ("name", "tag", "description")
}

// Field prefix mappings
var fieldPrefixes = map[string]string{
	// Short prefixes
	"n:": "name",
	"t:": "tag",
	"d:": "description",
	// Long prefixes
	"name:":        "name",
	"tag:":         "tag",
	"desc:":        "description",
	"description:": "description",
}

// ParseSearchQuery parses a search query string into structured form
// Examples:
//   - "outdoor" → {Pattern: "outdoor"}
//   - "!test" → {Pattern: "test", Negate: true}
//   - "t:robot" → {Pattern: "robot", Field: "tag"}
//   - "!n:old" → {Pattern: "old", Negate: true, Field: "name"}
func ParseSearchQuery(query string) SearchQuery {
	q := SearchQuery{}

	if strings.HasPrefix(query, "!") {
		q.Negate = true
		query = query[1:]
	}

	queryLower := strings.ToLower(query)
	for prefix, field := range fieldPrefixes {
		if strings.HasPrefix(queryLower, prefix) {
			q.Field = field
			query = query[len(prefix):]
			break
		}
	}

	q.Pattern = query
	return q
}

// FuzzyMatch performs fuzzy subsequence matching
// Returns whether the pattern matches and the positions of matched characters
// Matching is case-insensitive
func FuzzyMatch(pattern, target string) (bool, []int) {
	if pattern == "" {
		return true, []int{}
	}

	patternLower := strings.ToLower(pattern)
	targetLower := strings.ToLower(target)

	positions := make([]int, 0, len(pattern))
	patternIdx := 0

	for i := 0; i < len(targetLower) && patternIdx < len(patternLower); i++ {
		if targetLower[i] == patternLower[patternIdx] {
			positions = append(positions, i)
			patternIdx++
		}
	}

	if patternIdx == len(patternLower) {
		return true, positions
	}
	return false, nil
}

// fields returns the searchable text of a saved filter for a field restriction
func fields(f models.SavedFilter, field string) []string {
	switch field {
	case "name":
		return []string{f.Name}
	case "tag":
		return f.Tags
	case "description":
		return []string{f.Description}
	default:
		return append([]string{f.Name, f.Description}, f.Tags...)
	}
}

// FilterSaved returns the saved filters matching query, keeping their order
func FilterSaved(filters []models.SavedFilter, query SearchQuery) []models.SavedFilter {
	if query.Pattern == "" && query.Field == "" {
		return filters
	}

	var matches []models.SavedFilter
	for _, f := range filters {
		matched := false
		for _, text := range fields(f, query.Field) {
			if ok, _ := FuzzyMatch(query.Pattern, text); ok {
				matched = true
				break
			}
		}
		if matched != query.Negate {
			matches = append(matches, f)
		}
	}
	return matches
}

// Suggest ranks candidates for a partially typed tag: prefix matches first,
// then other fuzzy matches with the tighter match first. An exact match is
// not suggested.
func Suggest(input string, candidates []string, limit int) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	type scored struct {
		label  string
		prefix bool
		spread int
	}

	var hits []scored
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c] || strings.EqualFold(c, input) {
			continue
		}
		seen[c] = true
		ok, pos := FuzzyMatch(input, c)
		if !ok {
			continue
		}
		hits = append(hits, scored{
			label:  c,
			prefix: strings.HasPrefix(strings.ToLower(c), strings.ToLower(input)),
			spread: pos[len(pos)-1] - pos[0],
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].prefix != hits[j].prefix {
			return hits[i].prefix
		}
		if hits[i].spread != hits[j].spread {
			return hits[i].spread < hits[j].spread
		}
		return hits[i].label < hits[j].label
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.label
	}
	return out
}
