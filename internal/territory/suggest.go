package territory

import (
	"strings"
	"unicode/utf8"
)

// MinQueryLen is the shortest query Suggest will answer.
const MinQueryLen = 2

// Suggest returns up to limit names matching query, case-insensitively.
// Names starting with the query come first, then names merely containing it,
// each group in catalog order. Short queries and limit <= 0 yield an empty slice.
func (c *Catalog) Suggest(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if limit <= 0 || utf8.RuneCountInString(q) < MinQueryLen {
		return []string{}
	}

	seen := make(map[string]struct{})
	var prefix, contains []string
	for _, t := range c.list {
		if _, dup := seen[t.Name]; dup {
			continue
		}
		lower := strings.ToLower(t.Name)
		switch {
		case strings.HasPrefix(lower, q):
			prefix = append(prefix, t.Name)
		case strings.Contains(lower, q):
			contains = append(contains, t.Name)
		default:
			continue
		}
		seen[t.Name] = struct{}{}
	}

	out := append(prefix, contains...)
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []string{}
	}
	return out
}
