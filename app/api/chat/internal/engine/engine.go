// Package engine wires the conversational retrieval pipeline: understand the
// message, plan a search, retrieve and rerank catalog candidates, and compose
// the reply. The chat model is optional end to end; without it every stage
// falls back to its deterministic path.
package engine

import (
	"context"
	"strings"
	"time"

	"shopsage/app/api/chat/internal/engine/intent"
	"shopsage/app/api/chat/internal/engine/llm"
	"shopsage/app/api/chat/internal/engine/plan"
	"shopsage/app/api/chat/internal/engine/reply"
	"shopsage/app/api/chat/internal/engine/rerank"
	"shopsage/app/api/chat/internal/engine/search"
	"shopsage/app/api/chat/internal/engine/text"
	"shopsage/app/dal/catalog"

	"github.com/cloudwego/eino/components/model"
	"github.com/zeromicro/go-zero/core/logx"
)

type Config struct {
	// ForceLanguage pins replies to one language instead of detecting it.
	ForceLanguage string
	HistoryLimit  int
	SessionTTL    time.Duration
	SessionLimit  int
	ModelTimeout  time.Duration

	Plan   plan.Config
	Search search.Config
	Rerank rerank.Config
}

func (c Config) withDefaults() Config {
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 12
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 30 * time.Minute
	}
	if c.SessionLimit <= 0 {
		c.SessionLimit = 10000
	}
	return c
}

// Result is one answered turn. Products is never fabricated content; it is
// always a subset of what the catalog returned.
type Result struct {
	BotResponse      string
	Products         []catalog.Product
	CorrectedMessage string
}

type Engine struct {
	log        logx.Logger
	cfg        Config
	llm        *llm.Client
	classifier *intent.Classifier
	planner    *plan.Builder
	retriever  *search.Retriever
	reranker   *rerank.Reranker
	composer   *reply.Composer
	memory     *reply.Memory
}

func New(ctx context.Context, logger logx.Logger, products catalog.ProductsModel, chatModel model.BaseChatModel, cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()

	client := llm.NewClient(chatModel, cfg.ModelTimeout)
	planner, err := plan.NewBuilder(ctx, logger, chatModel, cfg.Plan)
	if err != nil {
		return nil, err
	}
	memory, err := reply.NewMemory(cfg.SessionTTL, cfg.SessionLimit)
	if err != nil {
		return nil, err
	}

	return &Engine{
		log:        logger,
		cfg:        cfg,
		llm:        client,
		classifier: intent.NewClassifier(intent.DefaultConfig()),
		planner:    planner,
		retriever:  search.NewRetriever(logger, products, cfg.Search),
		reranker:   rerank.NewReranker(logger, client, cfg.Rerank),
		composer:   reply.NewComposer(logger, client),
		memory:     memory,
	}, nil
}

// InvalidateBestsellers drops the cached bestseller list so the next request
// reads fresh catalog data.
func (e *Engine) InvalidateBestsellers() {
	e.retriever.InvalidateBestsellers()
}

// Respond answers one chat turn. The only error it returns is a catalog store
// failure; every model-side problem degrades to a deterministic answer.
func (e *Engine) Respond(ctx context.Context, sessionKey, message string, history []llm.Turn) (*Result, error) {
	lang := intent.ParseLanguage(e.cfg.ForceLanguage)
	if lang == "" {
		lang = intent.DetectLanguage(message)
	}
	history = llm.NormalizeTurns(history, e.cfg.HistoryLimit)
	session := e.memory.Load(sessionKey)

	corrected, didCorrect := e.correct(ctx, message, lang)
	correctedOut := ""
	if didCorrect {
		correctedOut = corrected
	}

	label := e.classifier.Classify(corrected, intent.Context{
		HasHistory:       len(history) > 0,
		HasMemory:        len(session.LastShown) > 0,
		HasPendingPrompt: session.Pending != nil,
	})

	res, err := e.respond(ctx, sessionKey, corrected, lang, label, history, session)
	if err != nil {
		return nil, err
	}
	res.BotResponse = reply.WithCorrection(didCorrect, corrected, res.BotResponse, lang)
	res.CorrectedMessage = correctedOut
	return res, nil
}

func (e *Engine) respond(ctx context.Context, sessionKey, message string, lang intent.Language, label intent.Label, history []llm.Turn, session reply.Session) (*Result, error) {
	switch label {
	case intent.LabelNegative:
		session.Pending = nil
		e.memory.Store(sessionKey, session)
		return &Result{BotResponse: reply.DeclineAck(lang)}, nil

	case intent.LabelAffirmative:
		pending := session.Pending
		session.Pending = nil
		e.memory.Store(sessionKey, session)
		if pending == nil {
			return e.search(ctx, sessionKey, message, "", lang, intent.LabelSearch, history, session)
		}
		if pending.Kind == reply.KindGiftDetails {
			// "Yes" does not answer who the gift is for; ask again.
			session.Pending = pending
			e.memory.Store(sessionKey, session)
			return &Result{BotResponse: reply.GiftRecipientQuestion(lang)}, nil
		}
		return e.search(ctx, sessionKey, pending.Query, "", lang, intent.LabelSearch, history, session)

	case intent.LabelGreeting, intent.LabelThanks, intent.LabelFarewell:
		return &Result{BotResponse: reply.SmallTalkReply(label, lang)}, nil

	case intent.LabelSupport:
		return &Result{BotResponse: reply.SupportReply(lang)}, nil

	case intent.LabelKnowledge:
		return e.knowledge(ctx, sessionKey, message, lang, history, session)

	case intent.LabelPreviousProduct:
		body := reply.Template(reply.OutcomePrevious, lang) + "\n\n" + reply.ProductMarkdown(session.LastShown, lang)
		return &Result{BotResponse: body, Products: session.LastShown}, nil

	case intent.LabelFollowUp:
		contextual := strings.TrimSpace(session.LastQuery + " " + message)
		if session.LastQuery == "" {
			contextual = strings.TrimSpace(llm.LastUserTurn(history) + " " + message)
		}
		return e.search(ctx, sessionKey, message, contextual, lang, label, history, session)

	default:
		contextual := ""
		if p := session.Pending; p != nil && p.Kind == reply.KindGiftDetails {
			// The message carries the gift details; merge with the kept
			// original request.
			contextual = strings.TrimSpace(p.Query + " " + message)
			session.Pending = nil
			e.memory.Store(sessionKey, session)
			label = intent.LabelGift
		}
		return e.search(ctx, sessionKey, message, contextual, lang, label, history, session)
	}
}

// knowledge answers an off-catalog question briefly and offers related
// products, remembering the offer so a plain "yes" can accept it.
func (e *Engine) knowledge(ctx context.Context, sessionKey, message string, lang intent.Language, history []llm.Turn, session reply.Session) (*Result, error) {
	answer := ""
	if e.llm.Available() {
		system := "You are a shopping assistant. Answer the question in 1-3 short sentences.\n" +
			"Do NOT include links.\n" +
			"Language: " + string(lang)
		out, err := e.llm.Generate(ctx, llm.Request{
			System:      system,
			History:     llm.HistoryMessages(history),
			User:        message,
			Temperature: 0.7,
			MaxTokens:   160,
		})
		if err != nil {
			e.log.Errorf("knowledge model call failed, steering to products: %v", err)
		} else {
			answer = text.StripURLs(out)
		}
	}
	if answer == "" {
		return &Result{BotResponse: reply.SupportReply(lang)}, nil
	}

	session.Pending = &reply.Prompt{Kind: reply.KindRelatedOffer, Query: message}
	e.memory.Store(sessionKey, session)
	return &Result{BotResponse: answer + "\n\n" + reply.RelatedOfferQuestion(lang)}, nil
}

func (e *Engine) bestsellers(ctx context.Context, sessionKey string, lang intent.Language, outcome reply.Outcome, session reply.Session) (*Result, error) {
	items, err := e.retriever.Bestsellers(ctx, 0)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &Result{BotResponse: reply.Template(reply.OutcomeNoResults, lang)}, nil
	}

	body := reply.Template(outcome, lang) + "\n\n" + reply.ProductMarkdown(items, lang)
	session.LastShown = items
	session.Pending = nil
	e.memory.Store(sessionKey, session)
	return &Result{BotResponse: body, Products: items}, nil
}

func (e *Engine) search(ctx context.Context, sessionKey, message, contextual string, lang intent.Language, label intent.Label, history []llm.Turn, session reply.Session) (*Result, error) {
	searchText := e.translate(ctx, message, lang)
	searchContext := contextual
	if contextual != "" {
		searchContext = e.translate(ctx, contextual, lang)
	}

	p := e.planner.Build(ctx, plan.Input{
		Message:    searchText,
		Contextual: searchContext,
		Language:   lang,
		History:    history,
	})
	recipient := plan.RecipientFor(p, message)
	p = plan.ApplyRecipientRules(p, recipient)

	if label == intent.LabelGift && recipient == "" {
		session.Pending = &reply.Prompt{Kind: reply.KindGiftDetails, Query: message}
		e.memory.Store(sessionKey, session)
		return &Result{BotResponse: reply.GiftRecipientQuestion(lang)}, nil
	}

	// The bestseller shortcut only applies once the plan is known to carry no
	// constraints; "recommend something for my wife" must keep its recipient
	// filters and go through retrieval.
	if e.classifier.IsGenericRecommendation(message) && !p.HasConstraints() {
		return e.bestsellers(ctx, sessionKey, lang, reply.OutcomeGeneric, session)
	}

	candidates, err := e.retriever.Retrieve(ctx, p.Query, p)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		best, err := e.retriever.Bestsellers(ctx, 0)
		if err != nil {
			return nil, err
		}
		if len(best) == 0 {
			return &Result{BotResponse: reply.Template(reply.OutcomeNoResults, lang)}, nil
		}
		body := reply.Template(reply.OutcomeClosest, lang) + "\n\n" + reply.ProductMarkdown(best, lang)
		session.LastShown = best
		session.LastQuery = p.Query
		session.Pending = nil
		e.memory.Store(sessionKey, session)
		return &Result{BotResponse: body, Products: best}, nil
	}

	ranked := e.reranker.Rerank(ctx, message, lang, p, candidates, history)
	if ranked.Question != "" {
		return &Result{BotResponse: ranked.Question}, nil
	}

	top := ranked.Ordered
	if len(top) > p.K {
		top = top[:p.K]
	}

	intro := e.composer.Intro(ctx, message, lang, p, top, history, reply.OutcomeResults)
	body := intro + "\n\n" + reply.ProductMarkdown(top, lang)

	session.LastShown = top
	session.LastQuery = p.Query
	session.Pending = nil
	e.memory.Store(sessionKey, session)
	return &Result{BotResponse: body, Products: top}, nil
}
