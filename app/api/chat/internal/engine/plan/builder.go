package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"shopsage/app/api/chat/internal/engine/intent"
	"shopsage/app/api/chat/internal/engine/llm"
	"shopsage/app/dal/catalog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/zeromicro/go-zero/core/logx"
)

type Input struct {
	Message    string
	Contextual string
	Language   intent.Language
	History    []llm.Turn
}

type Config struct {
	DefaultK int
	MaxK     int
}

type Builder struct {
	log      logx.Logger
	cfg      Config
	runnable compose.Runnable[Input, *Plan]
}

// planJSON is the strict contract the model is asked to fill.
type planJSON struct {
	Query            string   `json:"query"`
	Recipient        *string  `json:"recipient"`
	MinPrice         *float64 `json:"minPrice"`
	MaxPrice         *float64 `json:"maxPrice"`
	PreferCategories []string `json:"preferCategories"`
	AvoidCategories  []string `json:"avoidCategories"`
	K                int      `json:"k"`
}

// NewBuilder compiles the plan chain when a chat model is available. With a
// nil model the builder still works and always produces the heuristic plan.
func NewBuilder(ctx context.Context, logger logx.Logger, chatModel model.BaseChatModel, cfg Config) (*Builder, error) {
	if cfg.DefaultK <= 0 {
		cfg.DefaultK = 3
	}
	if cfg.MaxK <= 0 {
		cfg.MaxK = 5
	}

	b := &Builder{log: logger, cfg: cfg}
	if chatModel == nil {
		return b, nil
	}

	allowed, _ := json.Marshal(catalog.Categories)

	chain := compose.NewChain[Input, *Plan]()

	chain.AppendLambda(compose.InvokableLambda(func(_ context.Context, in Input) ([]*schema.Message, error) {
		systemPrompt := "Return ONLY valid JSON. No markdown.\n" +
			`Schema: {"query":string,"recipient":"son"|"daughter"|"kids"|"men"|"women"|null,"minPrice":number|null,"maxPrice":number|null,"preferCategories":string[],"avoidCategories":string[],"k":number}` + "\n" +
			"Rules:\n" +
			fmt.Sprintf("- preferCategories/avoidCategories can ONLY use: %s\n", allowed) +
			"- If message is a gift request, identify the recipient if possible.\n" +
			"- If recipient is son/men -> avoid Women's Clothing, Beauty, Jewelry.\n" +
			"- If recipient is daughter/women -> avoid Men's Clothing.\n" +
			"- k must be 1..5.\n" +
			"Keep query short but meaningful.\n" +
			fmt.Sprintf("Language: %s", in.Language)

		messages := []*schema.Message{schema.SystemMessage(systemPrompt)}
		messages = append(messages, llm.HistoryMessages(in.History)...)
		messages = append(messages, schema.UserMessage(in.Message))
		return messages, nil
	}))

	chain.AppendChatModel(chatModel)

	chain.AppendLambda(compose.InvokableLambda(func(_ context.Context, msg *schema.Message) (*Plan, error) {
		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			return nil, fmt.Errorf("empty plan response")
		}
		raw, ok := llm.Decode[planJSON](msg.Content)
		if !ok {
			return nil, fmt.Errorf("unparsable plan response")
		}
		p := Plan{
			Query:            strings.TrimSpace(raw.Query),
			MinPrice:         raw.MinPrice,
			MaxPrice:         raw.MaxPrice,
			PreferCategories: raw.PreferCategories,
			AvoidCategories:  raw.AvoidCategories,
			K:                raw.K,
		}
		if raw.Recipient != nil {
			p.Recipient = strings.TrimSpace(*raw.Recipient)
		}
		return &p, nil
	}))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, err
	}
	b.runnable = runnable
	return b, nil
}

// Build produces the plan for this turn. Model failures of any kind degrade
// to the heuristic plan; they are logged, never surfaced.
func (b *Builder) Build(ctx context.Context, in Input) Plan {
	if b.runnable != nil {
		res, err := b.runnable.Invoke(ctx, in)
		if err != nil {
			b.log.Errorf("plan model call failed, using heuristic plan: %v", err)
		} else if res != nil {
			p := *res
			if p.Query == "" {
				p.Query = in.Message
			}
			return p.sanitize(b.cfg.DefaultK, b.cfg.MaxK)
		}
	}
	return b.Heuristic(in)
}

// Heuristic is the deterministic fallback: the contextual message as query,
// a price ceiling when the message states one, default result count.
func (b *Builder) Heuristic(in Input) Plan {
	query := strings.TrimSpace(in.Contextual)
	if query == "" {
		query = strings.TrimSpace(in.Message)
	}
	return Plan{Query: query, MaxPrice: priceCeiling(query), K: b.cfg.DefaultK}.sanitize(b.cfg.DefaultK, b.cfg.MaxK)
}

var ceilingPattern = regexp.MustCompile(`(?i)\b(?:under|below|less than|at most|max|unter|hoechstens|bis zu)\s*(?:€|eur\w*)?\s*(\d+(?:[.,]\d{1,2})?)`)

// priceCeiling pulls an upper price bound out of phrasing like "under 50
// euros" or "unter 30". Lower bounds stay model-only.
func priceCeiling(s string) *float64 {
	m := ceilingPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}
