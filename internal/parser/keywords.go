package parser

import (
	"regexp"
	"strings"
)

var wordBoundary = regexp.MustCompile(`\W+`)

// stopwords are articles, auxiliaries and question words that carry no
// retrieval signal. Applied identically at index and query time so that
// intersection scoring stays meaningful.
var stopwords = map[string]struct{}{
	"the":  {},
	"and":  {},
	"for":  {},
	"with": {},
	"what": {},
	"how":  {},
	"when": {},
	"you":  {},
	"can":  {},
	"will": {},
	"are":  {},
	"not":  {},
}

// ExtractKeywords tokenizes text into deduplicated lowercase content words
// of at least three characters, in first-occurrence order.
func ExtractKeywords(text string) []string {
	words := wordBoundary.Split(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(words))
	var keywords []string
	for _, word := range words {
		if len(word) < 3 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}
