// Package reply renders the conversational answer. Intros may come from the
// model but are constrained to the supplied product data with URLs stripped;
// every fact in the listing is read from the catalog result, never generated.
package reply

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shopsage/app/api/chat/internal/engine/intent"
	"shopsage/app/api/chat/internal/engine/llm"
	"shopsage/app/api/chat/internal/engine/plan"
	"shopsage/app/api/chat/internal/engine/text"
	"shopsage/app/dal/catalog"

	"github.com/zeromicro/go-zero/core/logx"
)

// Outcome selects the fallback intro template when no model intro is
// available.
type Outcome string

const (
	OutcomeResults   Outcome = "results"
	OutcomeGeneric   Outcome = "generic"
	OutcomePrevious  Outcome = "previous"
	OutcomeClosest   Outcome = "closest"
	OutcomeNoResults Outcome = "no_results"
)

var categorySuggestions = []string{"Electronics", "Home", "Sports", "Books", "Beauty"}

type Composer struct {
	log logx.Logger
	llm *llm.Client
}

func NewComposer(logger logx.Logger, client *llm.Client) *Composer {
	return &Composer{log: logger, llm: client}
}

// Intro produces the 1-3 sentence lead-in for a product reply. The model
// variant is optional; on any failure the outcome template is used.
func (c *Composer) Intro(ctx context.Context, message string, lang intent.Language, p plan.Plan, top []catalog.Product, history []llm.Turn, outcome Outcome) string {
	if c.llm.Available() && len(top) > 0 {
		if intro := c.modelIntro(ctx, message, lang, p, top, history); intro != "" {
			return intro
		}
	}
	return Template(outcome, lang)
}

type introProduct struct {
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

func (c *Composer) modelIntro(ctx context.Context, message string, lang intent.Language, p plan.Plan, top []catalog.Product, history []llm.Turn) string {
	products := make([]introProduct, 0, len(top))
	for _, item := range top {
		products = append(products, introProduct{Title: item.Title, Price: item.Price, Category: item.Category})
	}

	system := "Write ONLY 1-3 short sentences.\n" +
		"Do NOT use bullet points.\n" +
		"Do NOT invent details.\n" +
		"Do NOT include links.\n" +
		"Language: " + string(lang)

	planRaw, _ := json.Marshal(p.Query)
	productsRaw, _ := json.Marshal(products)
	user := "User message: " + message + "\n" +
		"Query: " + string(planRaw) + "\n" +
		"Top products: " + string(productsRaw)

	out, err := c.llm.Generate(ctx, llm.Request{
		System:      system,
		History:     llm.HistoryMessages(history),
		User:        user,
		Temperature: 0.7,
		MaxTokens:   160,
	})
	if err != nil {
		c.log.Errorf("intro model call failed, using template: %v", err)
		return ""
	}
	return text.StripURLs(out)
}

// ProductMarkdown renders the structured listing the frontend shows as cards.
// Image lines appear only when the catalog has an image.
func ProductMarkdown(products []catalog.Product, lang intent.Language) string {
	heading := "### Recommendations"
	if lang == intent.LangGerman {
		heading = "### Empfehlungen"
	}
	lines := []string{heading, ""}

	for _, p := range products {
		category := p.Category
		if category == "" {
			category = "Other"
		}
		lines = append(lines,
			fmt.Sprintf("- **%s**", p.Title),
			fmt.Sprintf("  - Price: €%.2f", p.Price),
			fmt.Sprintf("  - Category: %s", category),
		)
		if p.Image != "" {
			lines = append(lines, fmt.Sprintf("  - Image: [![%s](%s)](%s)", p.Title, p.Image, p.Url))
		}
		lines = append(lines, "")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Template is the deterministic intro for an outcome.
func Template(outcome Outcome, lang intent.Language) string {
	if lang == intent.LangGerman {
		switch outcome {
		case OutcomeGeneric:
			return "Hier sind einige unserer Bestseller."
		case OutcomePrevious:
			return "Das sind die Produkte aus deiner letzten Anfrage."
		case OutcomeClosest:
			return "Ich finde aktuell keine passenden Produkte. Hier sind ein paar Bestseller."
		case OutcomeNoResults:
			return "Ich finde aktuell keine passenden Produkte. Kannst du Kategorie oder Budget nennen?"
		default:
			return "Hier sind passende Produkte fuer dich."
		}
	}

	switch outcome {
	case OutcomeGeneric:
		return "Here are some of our bestsellers."
	case OutcomePrevious:
		return "These are the products from your last request."
	case OutcomeClosest:
		return "I couldn't find a close match. Here are some bestsellers."
	case OutcomeNoResults:
		return "I can't find matching products right now. Can you share a category or budget?"
	default:
		return "Here are some products that match your request."
	}
}

// SmallTalkReply answers greeting/thanks/farewell turns while steering back
// to products.
func SmallTalkReply(label intent.Label, lang intent.Language) string {
	suggestions := strings.Join(categorySuggestions, ", ")

	if lang == intent.LangGerman {
		switch label {
		case intent.LabelThanks:
			return "Gern! Wenn du weitere Produktempfehlungen moechtest, sag mir Kategorie oder Budget."
		case intent.LabelFarewell:
			return "Tschuess! Wenn du spaeter Produkte suchst, frag einfach."
		default:
			return "Hallo! Ich helfe dir beim Finden von Produkten. Nenne mir Kategorie, Budget oder was du brauchst " +
				fmt.Sprintf("(z.B. %s).", suggestions)
		}
	}

	switch label {
	case intent.LabelThanks:
		return "You're welcome! If you want more product recommendations, tell me a category or budget."
	case intent.LabelFarewell:
		return "Bye! If you need product recommendations later, just ask."
	default:
		return "Hi! I can help you find products. Tell me a category, budget, or what you need " +
			fmt.Sprintf("(e.g., %s).", suggestions)
	}
}

// SupportReply answers store-policy questions with a canned pointer; the
// engine is a shopping guide, not a support desk.
func SupportReply(lang intent.Language) string {
	if lang == intent.LangGerman {
		return "Fuer Fragen zu Versand, Rueckgabe oder Bestellungen hilft dir unser Support-Team weiter. " +
			"Ich kann dir hier bei der Produktsuche helfen."
	}
	return "For questions about shipping, returns, or orders, our support team can help you best. " +
		"I can help you find products here."
}

// RelatedOfferQuestion follows a general-knowledge answer with a yes/no offer
// recorded as the pending prompt.
func RelatedOfferQuestion(lang intent.Language) string {
	if lang == intent.LangGerman {
		return "Soll ich dir passende Produkte dazu zeigen?"
	}
	return "Would you like me to show related products?"
}

// DeclineAck answers a negative to a pending offer.
func DeclineAck(lang intent.Language) string {
	if lang == intent.LangGerman {
		return "Alles klar! Sag einfach Bescheid, wenn du etwas suchst."
	}
	return "No problem! Just let me know when you're looking for something."
}

// GiftRecipientQuestion is the single clarifying question used when a gift
// request does not disambiguate its recipient.
func GiftRecipientQuestion(lang intent.Language) string {
	if lang == intent.LangGerman {
		return "Fuer wen ist das Geschenk (z.B. Sohn/Tochter/Mann/Frau) und welches Budget hast du?"
	}
	return "Who is the gift for (son/daughter/men/women) and what is your budget?"
}

// EmptyMessageReply is the conversational body of the 400 response.
func EmptyMessageReply(lang intent.Language) string {
	if lang == intent.LangGerman {
		return "Bitte schick mir eine Nachricht."
	}
	return "Please send a message."
}

// WithCorrection prefixes a reply with the understood message when the typo
// correction pass changed the input.
func WithCorrection(didCorrect bool, corrected, body string, lang intent.Language) string {
	if !didCorrect {
		return body
	}
	if lang == intent.LangGerman {
		return fmt.Sprintf("Ich habe verstanden: %q\n\n%s", corrected, body)
	}
	return fmt.Sprintf("I understood: %q\n\n%s", corrected, body)
}
