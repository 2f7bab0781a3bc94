// Package intent classifies shopper messages with per-language keyword
// heuristics before any model call happens, so that small talk and support
// questions never reach the retrieval pipeline.
package intent

import (
	"strings"

	"shopsage/app/api/chat/internal/engine/text"
)

type Label string

const (
	LabelGreeting        Label = "greeting"
	LabelThanks          Label = "thanks"
	LabelFarewell        Label = "farewell"
	LabelSupport         Label = "support"
	LabelKnowledge       Label = "general_knowledge"
	LabelAffirmative     Label = "affirmative"
	LabelNegative        Label = "negative"
	LabelGift            Label = "gift"
	LabelGeneric         Label = "generic_recommendation"
	LabelFollowUp        Label = "follow_up"
	LabelPreviousProduct Label = "previous_product"
	LabelSearch          Label = "search"
)

// SmallTalk reports whether the label short-circuits the pipeline with a
// canned conversational reply.
func (l Label) SmallTalk() bool {
	return l == LabelGreeting || l == LabelThanks || l == LabelFarewell
}

// Context is the per-turn state the classifier may consult. Follow-up labels
// require prior turns, previous-product labels require a remembered selection,
// and yes/no labels only fire while a prompt is pending.
type Context struct {
	HasHistory       bool
	HasMemory        bool
	HasPendingPrompt bool
}

// Config holds the keyword vocabularies, merged across supported languages.
// The precedence between vocabularies is fixed; the vocabularies themselves
// are policy and can be overridden at construction.
type Config struct {
	ProductHints  []string
	Greetings     []string
	Thanks        []string
	Farewells     []string
	SupportWords  []string
	KnowledgeLead []string
	Affirmatives  []string
	Negatives     []string
	GiftWords     []string
	GenericHints  []string
	FollowUpCues  []string
	ShortFollows  []string
	Referential   []string
}

func DefaultConfig() Config {
	return Config{
		ProductHints: []string{
			"recommend", "suggest", "product", "buy", "search", "find",
			"looking", "need", "want", "price", "budget", "category",
			"kaufen", "suche", "suchen", "brauche", "preis", "produkt",
			"empfehl",
		},
		Greetings: []string{
			"hi", "hello", "hey", "hallo", "guten tag", "guten morgen",
			"guten abend", "moin", "servus", "yo", "hola", "bonjour", "ciao",
		},
		Thanks:    []string{"thanks", "thank you", "thx", "danke", "merci", "gracias"},
		Farewells: []string{"bye", "goodbye", "see you", "tschuss", "tschuess", "ciao", "adios"},
		SupportWords: []string{
			"shipping", "delivery", "return", "refund", "exchange", "warranty",
			"order status", "track", "payment", "invoice",
			"versand", "lieferung", "rueckgabe", "umtausch", "garantie",
			"bestellung", "rechnung",
		},
		KnowledgeLead: []string{
			"what is", "what are", "who is", "who was", "how does", "how do",
			"why", "explain", "was ist", "was sind", "wer ist", "wie funktioniert",
			"warum", "erklaer",
		},
		Affirmatives: []string{"yes", "yeah", "yep", "sure", "ok", "okay", "please", "ja", "klar", "gern", "gerne"},
		Negatives:    []string{"no", "nope", "not really", "nein", "ne", "lieber nicht"},
		GiftWords:    []string{"gift", "present", "geschenk", "geburtstag", "weihnachten"},
		GenericHints: []string{
			"recommend", "recommendation", "suggest", "suggestion", "bestseller",
			"best seller", "top picks", "top products", "popular",
			"empfehlung", "empfehlen", "beliebt",
		},
		FollowUpCues: []string{
			"cheaper", "lower", "less", "more", "another", "others", "similar",
			"same", "next", "again", "cheapest", "budget",
			"billiger", "guenstiger", "mehr", "weniger", "andere", "nochmal",
			"naechste", "aehnlich",
		},
		ShortFollows: []string{
			"more", "less", "cheaper", "another", "others", "similar", "same",
			"next", "again", "mehr", "weniger", "andere", "nochmal",
		},
		Referential: []string{
			"it", "them", "this", "that", "these", "those", "one", "ones",
			"es", "das", "die", "der", "davon", "dieses",
		},
	}
}

type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	def := DefaultConfig()
	if len(cfg.ProductHints) == 0 {
		cfg.ProductHints = def.ProductHints
	}
	if len(cfg.Greetings) == 0 {
		cfg.Greetings = def.Greetings
	}
	if len(cfg.Thanks) == 0 {
		cfg.Thanks = def.Thanks
	}
	if len(cfg.Farewells) == 0 {
		cfg.Farewells = def.Farewells
	}
	if len(cfg.SupportWords) == 0 {
		cfg.SupportWords = def.SupportWords
	}
	if len(cfg.KnowledgeLead) == 0 {
		cfg.KnowledgeLead = def.KnowledgeLead
	}
	if len(cfg.Affirmatives) == 0 {
		cfg.Affirmatives = def.Affirmatives
	}
	if len(cfg.Negatives) == 0 {
		cfg.Negatives = def.Negatives
	}
	if len(cfg.GiftWords) == 0 {
		cfg.GiftWords = def.GiftWords
	}
	if len(cfg.GenericHints) == 0 {
		cfg.GenericHints = def.GenericHints
	}
	if len(cfg.FollowUpCues) == 0 {
		cfg.FollowUpCues = def.FollowUpCues
	}
	if len(cfg.ShortFollows) == 0 {
		cfg.ShortFollows = def.ShortFollows
	}
	if len(cfg.Referential) == 0 {
		cfg.Referential = def.Referential
	}
	return &Classifier{cfg: cfg}
}

// Classify maps a message to its single best label. Product hints always beat
// the small-talk vocabularies so a purchase question is never mistaken for
// chit-chat; the remaining precedence is negative/affirmative (pending prompt
// only) > small talk > support > knowledge > gift > generic recommendation >
// follow-up > previous product > search.
func (c *Classifier) Classify(message string, cctx Context) Label {
	t := text.Normalize(message)
	if t == "" {
		return LabelSearch
	}

	if cctx.HasPendingPrompt {
		if matchesExactOrLead(t, c.cfg.Negatives) {
			return LabelNegative
		}
		if matchesExactOrLead(t, c.cfg.Affirmatives) {
			return LabelAffirmative
		}
	}

	productIntent := containsAny(t, c.cfg.ProductHints)

	if !productIntent {
		if containsAny(t, c.cfg.Thanks) {
			return LabelThanks
		}
		if containsAny(t, c.cfg.Farewells) {
			return LabelFarewell
		}
		if matchesExactOrLead(t, c.cfg.Greetings) {
			return LabelGreeting
		}
		if containsAny(t, c.cfg.SupportWords) {
			return LabelSupport
		}
		if hasLead(t, c.cfg.KnowledgeLead) {
			return LabelKnowledge
		}
	}

	if c.IsGiftRequest(t) {
		return LabelGift
	}
	if containsAny(t, c.cfg.GenericHints) {
		return LabelGeneric
	}
	if cctx.HasHistory && c.IsFollowUp(t) {
		return LabelFollowUp
	}
	if cctx.HasMemory && !productIntent && hasWordAny(t, c.cfg.Referential) {
		return LabelPreviousProduct
	}
	return LabelSearch
}

// IsFollowUp detects short continuations like "cheaper", "more", "same".
func (c *Classifier) IsFollowUp(message string) bool {
	t := text.Normalize(message)
	if t == "" {
		return false
	}
	for _, s := range c.cfg.ShortFollows {
		if t == s {
			return true
		}
	}
	return hasWordAny(t, c.cfg.FollowUpCues)
}

func (c *Classifier) IsGiftRequest(message string) bool {
	return hasWordAny(text.Normalize(message), c.cfg.GiftWords)
}

func (c *Classifier) IsGenericRecommendation(message string) bool {
	return containsAny(text.Normalize(message), c.cfg.GenericHints)
}

func containsAny(t string, words []string) bool {
	for _, w := range words {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}

// hasWordAny matches whole normalized words, so "it" never fires on "guitar".
func hasWordAny(t string, words []string) bool {
	fields := strings.Fields(t)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	for _, w := range words {
		if strings.ContainsRune(w, ' ') {
			if strings.Contains(t, w) {
				return true
			}
			continue
		}
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

func matchesExactOrLead(t string, words []string) bool {
	for _, w := range words {
		if t == w || strings.HasPrefix(t, w+" ") {
			return true
		}
	}
	return false
}

func hasLead(t string, leads []string) bool {
	for _, lead := range leads {
		if strings.HasPrefix(t, lead) {
			return true
		}
	}
	return false
}
