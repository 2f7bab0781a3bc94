// Package rerank orders a bounded candidate shortlist by fit to the shopper's
// request, via the chat model when available. Model output is never trusted
// blindly: ids outside the shortlist are discarded, and the deterministic
// prefer-category boost runs regardless of which strategy produced the order,
// so recipient safety is never fully overridden by the model.
package rerank

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"shopsage/app/api/chat/internal/engine/intent"
	"shopsage/app/api/chat/internal/engine/llm"
	"shopsage/app/api/chat/internal/engine/plan"
	"shopsage/app/api/chat/internal/engine/text"
	"shopsage/app/dal/catalog"

	"github.com/zeromicro/go-zero/core/logx"
)

const descriptionSnippetLen = 180

type Config struct {
	ShortlistLimit int
}

type Reranker struct {
	log logx.Logger
	llm *llm.Client
	cfg Config
}

// Result carries the reordered candidates, or a single clarifying question
// when the model judged the request too vague to rank.
type Result struct {
	Ordered  []catalog.Product
	Question string
}

type rerankJSON struct {
	OrderedIds  []string `json:"orderedIds"`
	OneQuestion *string  `json:"oneQuestion"`
}

type packedProduct struct {
	Id          string  `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
}

func NewReranker(logger logx.Logger, client *llm.Client, cfg Config) *Reranker {
	if cfg.ShortlistLimit <= 0 {
		cfg.ShortlistLimit = 30
	}
	return &Reranker{log: logger, llm: client, cfg: cfg}
}

// Rerank orders candidates by fit. Only the first ShortlistLimit candidates
// are ever sent to the model; the rest keep their retrieval order behind the
// ranked head.
func (r *Reranker) Rerank(ctx context.Context, message string, lang intent.Language, p plan.Plan, candidates []catalog.Product, history []llm.Turn) Result {
	if len(candidates) == 0 {
		return Result{}
	}

	shortlist := candidates
	if len(shortlist) > r.cfg.ShortlistLimit {
		shortlist = shortlist[:r.cfg.ShortlistLimit]
	}

	ordered, question := r.modelOrder(ctx, message, lang, p, shortlist, history)
	if question != "" {
		return Result{Question: question}
	}
	if ordered == nil {
		ordered = lexicalOrder(message, shortlist)
	}

	// Candidates beyond the shortlist stay as a tail in retrieval order.
	if len(candidates) > len(shortlist) {
		ordered = append(ordered, candidates[len(shortlist):]...)
	}

	return Result{Ordered: SoftBoost(ordered, p.PreferCategories)}
}

// modelOrder returns (nil, "") when the model is unavailable or unusable.
func (r *Reranker) modelOrder(ctx context.Context, message string, lang intent.Language, p plan.Plan, shortlist []catalog.Product, history []llm.Turn) ([]catalog.Product, string) {
	if !r.llm.Available() {
		return nil, ""
	}

	packed := make([]packedProduct, 0, len(shortlist))
	byId := make(map[string]catalog.Product, len(shortlist))
	for _, c := range shortlist {
		id := c.Id.Hex()
		byId[id] = c
		desc := c.Description
		if len(desc) > descriptionSnippetLen {
			desc = desc[:descriptionSnippetLen]
		}
		packed = append(packed, packedProduct{
			Id:          id,
			Title:       c.Title,
			Category:    c.Category,
			Price:       c.Price,
			Rating:      c.AverageRating,
			Description: desc,
		})
	}

	system := "You are a ranking engine for an ecommerce shop.\n" +
		"Return ONLY valid JSON. No markdown.\n" +
		`Schema: {"orderedIds": string[], "oneQuestion": string|null}` + "\n" +
		"Rules:\n" +
		"- orderedIds MUST contain only ids from the provided products.\n" +
		"- Rank by: recipient fit, intent, constraints (budget), category match, usefulness.\n" +
		"- Strongly avoid categories listed in plan.avoidCategories.\n" +
		"- If the request is too vague, set oneQuestion to ONE short clarifying question.\n" +
		"Language for oneQuestion: " + string(lang)

	planRaw, _ := json.Marshal(packablePlan(p))
	productsRaw, _ := json.Marshal(packed)
	user := "User message: " + message + "\n" +
		"Plan: " + string(planRaw) + "\n" +
		"Products: " + string(productsRaw)

	out, err := r.llm.Generate(ctx, llm.Request{
		System:      system,
		History:     llm.HistoryMessages(history),
		User:        user,
		Temperature: 0.35,
		MaxTokens:   380,
	})
	if err != nil {
		r.log.Errorf("rerank model call failed, using lexical order: %v", err)
		return nil, ""
	}

	data, ok := llm.Decode[rerankJSON](out)
	if !ok {
		r.log.Errorf("rerank model returned unparsable output, using lexical order")
		return nil, ""
	}

	if data.OneQuestion != nil && strings.TrimSpace(*data.OneQuestion) != "" {
		return nil, strings.TrimSpace(*data.OneQuestion)
	}

	// Hallucinated ids are dropped; the remaining shortlist keeps its
	// retrieval order behind the ranked head.
	ranked := make([]catalog.Product, 0, len(shortlist))
	used := make(map[string]struct{}, len(data.OrderedIds))
	for _, id := range data.OrderedIds {
		c, ok := byId[id]
		if !ok {
			continue
		}
		if _, dup := used[id]; dup {
			continue
		}
		used[id] = struct{}{}
		ranked = append(ranked, c)
	}
	if len(ranked) == 0 {
		return nil, ""
	}
	for _, c := range shortlist {
		if _, ok := used[c.Id.Hex()]; !ok {
			ranked = append(ranked, c)
		}
	}
	return ranked, ""
}

type planPayload struct {
	Query            string   `json:"query"`
	Recipient        string   `json:"recipient,omitempty"`
	MinPrice         *float64 `json:"minPrice,omitempty"`
	MaxPrice         *float64 `json:"maxPrice,omitempty"`
	PreferCategories []string `json:"preferCategories,omitempty"`
	AvoidCategories  []string `json:"avoidCategories,omitempty"`
	K                int      `json:"k"`
}

func packablePlan(p plan.Plan) planPayload {
	return planPayload{
		Query:            p.Query,
		Recipient:        p.Recipient,
		MinPrice:         p.MinPrice,
		MaxPrice:         p.MaxPrice,
		PreferCategories: p.PreferCategories,
		AvoidCategories:  p.AvoidCategories,
		K:                p.K,
	}
}

// lexicalOrder is the deterministic fallback ranking: a weighted substring
// score (full normalized phrase in the title 8, per-token title 3, category 2,
// description 1), stable-sorted descending with rating as tiebreak.
func lexicalOrder(message string, shortlist []catalog.Product) []catalog.Product {
	phrase := text.Normalize(message)
	tokens := strings.Fields(phrase)

	scores := make([]int, len(shortlist))
	for i, c := range shortlist {
		title := text.Normalize(c.Title)
		category := text.Normalize(c.Category)
		description := text.Normalize(c.Description)

		score := 0
		if phrase != "" && strings.Contains(title, phrase) {
			score += 8
		}
		for _, tok := range tokens {
			if len(tok) < 3 {
				continue
			}
			if strings.Contains(title, tok) {
				score += 3
			}
			if strings.Contains(category, tok) {
				score += 2
			}
			if strings.Contains(description, tok) {
				score++
			}
		}
		scores[i] = score
	}

	ordered := append([]catalog.Product(nil), shortlist...)
	idx := make(map[string]int, len(shortlist))
	for i, c := range shortlist {
		idx[c.Id.Hex()] = i
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		sa, sb := scores[idx[ordered[a].Id.Hex()]], scores[idx[ordered[b].Id.Hex()]]
		if sa != sb {
			return sa > sb
		}
		return ordered[a].AverageRating > ordered[b].AverageRating
	})
	return ordered
}

// SoftBoost stably moves preferred-category items ahead, tie-broken by
// rating. It applies after every strategy so that recipient preferences
// survive any model ordering.
func SoftBoost(ordered []catalog.Product, preferCategories []string) []catalog.Product {
	if len(preferCategories) == 0 || len(ordered) == 0 {
		return ordered
	}
	prefer := make(map[string]struct{}, len(preferCategories))
	for _, c := range preferCategories {
		prefer[c] = struct{}{}
	}

	boosted := append([]catalog.Product(nil), ordered...)
	sort.SliceStable(boosted, func(a, b int) bool {
		_, ap := prefer[boosted[a].Category]
		_, bp := prefer[boosted[b].Category]
		if ap != bp {
			return ap
		}
		return boosted[a].AverageRating > boosted[b].AverageRating
	})
	return boosted
}
