package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello world", Normalize("  Hello,   World!  "))
	assert.Equal(t, "laptop under 50", Normalize("Laptop under €50?"))
	assert.Equal(t, "", Normalize("!!! ??? ..."))
}

func TestSearchTokensPluralVariants(t *testing.T) {
	tokens := SearchTokens("watches", 4)
	assert.Contains(t, tokens, "watches")
	assert.Contains(t, tokens, "watch")
	// prefix of len-2
	assert.Contains(t, tokens, "watch")
}

func TestSearchTokensIesToY(t *testing.T) {
	tokens := SearchTokens("accessories", 4)
	assert.Contains(t, tokens, "accessories")
	assert.Contains(t, tokens, "accessory")
}

func TestSearchTokensPrefixCatchesTypos(t *testing.T) {
	tokens := SearchTokens("monitos", 4)
	assert.Contains(t, tokens, "monit")
}

func TestSearchTokensDropsShortWords(t *testing.T) {
	tokens := SearchTokens("tv for my son", 4)
	assert.NotContains(t, tokens, "tv")
	assert.NotContains(t, tokens, "my")
	assert.Contains(t, tokens, "for")
	assert.Contains(t, tokens, "son")
}

func TestSearchTokensOrderedAndDeduped(t *testing.T) {
	tokens := SearchTokens("watch watch", 4)
	count := 0
	for _, tok := range tokens {
		if tok == "watch" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, "watch", tokens[0])
}

func TestStripURLs(t *testing.T) {
	assert.Equal(t, "check this out", StripURLs("check this https://example.com/p/1 out"))
	assert.Equal(t, "no links here", StripURLs("no links here"))
}
