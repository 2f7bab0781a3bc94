// Package text provides the language-agnostic normalization and fuzzy token
// derivation used across intent detection and catalog retrieval.
package text

import (
	"regexp"
	"strings"
)

const minTokenLen = 3

var (
	nonAlnumRe    = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpaceRe  = regexp.MustCompile(`\s+`)
	urlRe         = regexp.MustCompile(`https?://\S+`)
	doubleSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// Normalize folds text to a simple ASCII-lowercased, punctuation-stripped form
// so that user input and stored product text match consistently.
func Normalize(v string) string {
	t := strings.ToLower(v)
	t = nonAlnumRe.ReplaceAllString(t, " ")
	t = multiSpaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// SearchTokens derives a small ordered set of search tokens tolerant of
// plurals and typos. For every word it emits the word itself, singularized
// variants for -ies/-es/-s endings, and a prefix of length
// max(minPrefix, len-2) when that prefix is at least minPrefix characters.
// Tokens shorter than three characters are discarded.
func SearchTokens(queryText string, minPrefix int) []string {
	if minPrefix <= 0 {
		minPrefix = 4
	}

	var tokens []string
	seen := make(map[string]struct{})
	add := func(tok string) {
		if len(tok) < minTokenLen {
			return
		}
		if _, ok := seen[tok]; ok {
			return
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}

	for _, word := range strings.Fields(Normalize(queryText)) {
		add(word)

		if strings.HasSuffix(word, "ies") && len(word) > 3 {
			add(word[:len(word)-3] + "y")
		}
		if strings.HasSuffix(word, "es") && len(word) > 2 {
			add(word[:len(word)-2])
		}
		if strings.HasSuffix(word, "s") && len(word) > 1 {
			add(word[:len(word)-1])
		}

		// Prefix token catches short typos (e.g. "monitos" -> "monit").
		prefixLen := len(word) - 2
		if prefixLen < minPrefix {
			prefixLen = minPrefix
		}
		if prefixLen > len(word) {
			prefixLen = len(word)
		}
		if prefixLen >= minPrefix {
			add(word[:prefixLen])
		}
	}

	return tokens
}

// StripURLs removes raw links from generated text before it reaches the user.
func StripURLs(v string) string {
	t := urlRe.ReplaceAllString(v, "")
	t = doubleSpaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
