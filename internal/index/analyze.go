package index

import (
	"strconv"
	"strings"
	"unicode"
)

// stopwords excluded from keyword terms. Deliberately small: document
// content here is mostly code and metadata, not prose.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "the": true, "to": true,
	"was": true, "were": true, "with": true,
}

// Tokenize splits text into lowercase keyword terms, dropping stopwords
// and single-character fragments.
func Tokenize(text string) []string {
	raw := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) < 2 || stopwords[t] {
			continue
		}
		terms = append(terms, t)
	}
	return terms
}

// Analyzer adapts Tokenize for collaborators that take an interface.
type Analyzer struct{}

// Terms extracts keyword terms from query text.
func (Analyzer) Terms(text string) []string { return Tokenize(text) }

// BuildTerms produces the term-frequency map indexed for an entry:
// tokenized content plus every stringifiable metadata value.
func BuildTerms(content string, metadata map[string]any) map[string]int {
	freq := map[string]int{}
	addTerms(freq, Tokenize(content))
	addTerms(freq, Tokenize(stringifyMeta(metadata)))
	return freq
}

func addTerms(freq map[string]int, terms []string) {
	for _, t := range terms {
		freq[t]++
	}
}

// stringifyMeta flattens string-bearing metadata values into one text blob.
// Numbers are included verbatim; nulls and booleans are skipped.
func stringifyMeta(v any) string {
	var b strings.Builder
	appendMeta(&b, v)
	return b.String()
}

func appendMeta(b *strings.Builder, v any) {
	switch val := v.(type) {
	case string:
		b.WriteString(val)
		b.WriteByte(' ')
	case float64:
		b.WriteString(strconv.FormatFloat(val, 'f', -1, 64))
		b.WriteByte(' ')
	case map[string]any:
		for _, child := range val {
			appendMeta(b, child)
		}
	case []any:
		for _, child := range val {
			appendMeta(b, child)
		}
	}
}
