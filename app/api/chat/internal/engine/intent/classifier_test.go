package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySmallTalk(t *testing.T) {
	c := NewClassifier(Config{})

	assert.Equal(t, LabelGreeting, c.Classify("Hi!", Context{}))
	assert.Equal(t, LabelGreeting, c.Classify("guten tag", Context{}))
	assert.Equal(t, LabelThanks, c.Classify("thanks a lot", Context{}))
	assert.Equal(t, LabelFarewell, c.Classify("bye", Context{}))
}

func TestClassifyProductHintBeatsSmallTalk(t *testing.T) {
	c := NewClassifier(Config{})

	// A greeting that carries a purchase request goes to search.
	assert.Equal(t, LabelSearch, c.Classify("Hi, I'm looking for a laptop", Context{}))
	assert.Equal(t, LabelSearch, c.Classify("hallo, ich suche eine uhr", Context{}))
}

func TestClassifySupport(t *testing.T) {
	c := NewClassifier(Config{})

	assert.Equal(t, LabelSupport, c.Classify("How long does shipping take?", Context{}))
	assert.Equal(t, LabelSupport, c.Classify("Wie lange dauert die Lieferung?", Context{}))
}

func TestClassifyKnowledge(t *testing.T) {
	c := NewClassifier(Config{})

	assert.Equal(t, LabelKnowledge, c.Classify("What is bluetooth?", Context{}))
	assert.Equal(t, LabelKnowledge, c.Classify("was ist eine smartwatch", Context{}))
}

func TestClassifyGiftAndGeneric(t *testing.T) {
	c := NewClassifier(Config{})

	assert.Equal(t, LabelGift, c.Classify("I need a gift for my son", Context{}))
	assert.Equal(t, LabelGift, c.Classify("ein geschenk fuer meine tochter", Context{}))
	assert.Equal(t, LabelGeneric, c.Classify("can you recommend something?", Context{}))
	assert.Equal(t, LabelGeneric, c.Classify("show me your bestsellers", Context{}))
}

func TestClassifyFollowUpNeedsHistory(t *testing.T) {
	c := NewClassifier(Config{})

	assert.Equal(t, LabelFollowUp, c.Classify("cheaper", Context{HasHistory: true}))
	assert.Equal(t, LabelSearch, c.Classify("cheaper", Context{}))
}

func TestClassifyPreviousProductNeedsMemory(t *testing.T) {
	c := NewClassifier(Config{})

	assert.Equal(t, LabelPreviousProduct, c.Classify("show me that again", Context{HasMemory: true}))
	assert.Equal(t, LabelSearch, c.Classify("show me that again", Context{}))
}

func TestClassifyReferentialNeedsWholeWord(t *testing.T) {
	c := NewClassifier(Config{})

	// "it" inside "guitar" must not look referential.
	assert.Equal(t, LabelSearch, c.Classify("guitar", Context{HasMemory: true}))
}

func TestClassifyPendingPromptYesNo(t *testing.T) {
	c := NewClassifier(Config{})

	assert.Equal(t, LabelAffirmative, c.Classify("yes please", Context{HasPendingPrompt: true}))
	assert.Equal(t, LabelNegative, c.Classify("no", Context{HasPendingPrompt: true}))
	// Without a pending prompt a bare "yes" stays a search.
	assert.Equal(t, LabelSearch, c.Classify("yes", Context{}))
}

func TestIsGenericRecommendation(t *testing.T) {
	c := NewClassifier(Config{})

	assert.True(t, c.IsGenericRecommendation("can you recommend something for my wife"))
	assert.True(t, c.IsGenericRecommendation("zeig mir eine Empfehlung"))
	assert.False(t, c.IsGenericRecommendation("running shoes"))
}

func TestClassifyEmptyDefaultsToSearch(t *testing.T) {
	c := NewClassifier(Config{})
	assert.Equal(t, LabelSearch, c.Classify("???", Context{}))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LangGerman, DetectLanguage("ich suche ein geschenk fuer meinen sohn"))
	assert.Equal(t, LangEnglish, DetectLanguage("looking for a gift for my son"))
	assert.Equal(t, LangEnglish, DetectLanguage(""))
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, LangGerman, ParseLanguage("de"))
	assert.Equal(t, LangEnglish, ParseLanguage("en"))
	assert.Equal(t, Language(""), ParseLanguage(""))
	assert.Equal(t, Language(""), ParseLanguage("fr"))
}
