package questions

import (
	"sort"
	"strings"
	"unicode"
)

// MaxSearchResults caps /dynamic-faqs/search.
const MaxSearchResults = 10

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "can": true, "do": true, "does": true, "for": true, "from": true,
	"how": true, "i": true, "if": true, "in": true, "is": true, "it": true,
	"my": true, "of": true, "on": true, "or": true, "the": true, "to": true,
	"we": true, "what": true, "when": true, "where": true, "who": true,
	"why": true, "will": true, "with": true, "would": true, "you": true,
	"your": true,
}

// Keywords lowercases text and keeps distinct words of three or more
// letters that are not stop words, in order of first appearance.
func Keywords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := map[string]bool{}
	var out []string
	for _, f := range fields {
		if len(f) < 3 || stopWords[f] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

type SearchResult struct {
	DynamicFaq
	Score int `json:"score"`
}

// Search scores faqs against query. The whole query appearing in a question
// weighs most, then keyword hits, then words found in the question and the
// answer. Ties go to the more viewed FAQ.
func Search(faqs []DynamicFaq, query string) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []SearchResult{}
	}
	terms := Keywords(q)

	out := []SearchResult{}
	for _, f := range faqs {
		question := strings.ToLower(f.Question)
		answer := strings.ToLower(f.Answer)
		keywords := map[string]bool{}
		for _, k := range f.Keywords {
			keywords[strings.ToLower(k)] = true
		}

		score := 0
		if strings.Contains(question, q) {
			score += 10
		}
		for _, t := range terms {
			if keywords[t] {
				score += 3
			}
			if strings.Contains(question, t) {
				score += 2
			}
			if strings.Contains(answer, t) {
				score++
			}
		}
		if score > 0 {
			out = append(out, SearchResult{DynamicFaq: f, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ViewCount > out[j].ViewCount
	})
	if len(out) > MaxSearchResults {
		out = out[:MaxSearchResults]
	}
	return out
}
