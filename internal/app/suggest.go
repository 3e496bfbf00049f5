package service

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// minSimilarity is the Levenshtein similarity a name needs to be suggested.
const minSimilarity = 0.6

type suggestion struct {
	name  string
	score float64
}

// suggest ranks names close to query. A name containing the query letters in
// order ranks as a full match; otherwise the normalized Levenshtein
// similarity must reach minSimilarity.
func suggest(query string, names []string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}
	var ranked []suggestion
	for _, name := range names {
		lower := strings.ToLower(name)
		if fuzzy.MatchNormalizedFold(q, name) {
			extra := max(len(lower)-len(q), 0)
			ranked = append(ranked, suggestion{name: name, score: 1 + 1/float64(1+extra)})
			continue
		}
		distance := fuzzy.LevenshteinDistance(q, lower)
		similarity := 1 - float64(distance)/float64(max(len(q), len(lower)))
		if similarity >= minSimilarity {
			ranked = append(ranked, suggestion{name: name, score: similarity})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}
	return out
}
