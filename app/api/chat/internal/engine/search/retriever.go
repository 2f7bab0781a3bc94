// Package search retrieves real catalog candidates for a plan. Retrieval is
// the grounding boundary: everything downstream may only reorder or drop what
// this package returned from the catalog.
package search

import (
	"context"
	"fmt"

	"shopsage/app/api/chat/internal/engine/plan"
	"shopsage/app/api/chat/internal/engine/text"
	"shopsage/app/dal/catalog"

	"github.com/zeromicro/go-zero/core/logx"
)

const maxFuzzyTokens = 10

type Config struct {
	RetrieveLimit   int64
	BestsellerLimit int64
	TokenMinPrefix  int
	FrontendBaseUrl string
}

func (c Config) withDefaults() Config {
	if c.RetrieveLimit <= 0 {
		c.RetrieveLimit = 120
	}
	if c.BestsellerLimit <= 0 {
		c.BestsellerLimit = 6
	}
	if c.TokenMinPrefix <= 0 {
		c.TokenMinPrefix = 4
	}
	return c
}

type Retriever struct {
	log     logx.Logger
	catalog catalog.ProductsModel
	cfg     Config

	bestsellers *bestsellerCache
}

func NewRetriever(logger logx.Logger, model catalog.ProductsModel, cfg Config) *Retriever {
	return &Retriever{
		log:         logger,
		catalog:     model,
		cfg:         cfg.withDefaults(),
		bestsellers: newBestsellerCache(),
	}
}

// Retrieve returns a bounded ranked candidate list for the query and plan
// constraints. Strategy order: full-text relevance, then fuzzy-token regex
// matching when text search has no hits or the engine is unavailable, then
// the plain filtered catalog when no tokens can be derived. The first stage
// degrades silently; the later stages hitting the store are the fatal path.
func (r *Retriever) Retrieve(ctx context.Context, queryText string, p plan.Plan) ([]catalog.Product, error) {
	filter := catalog.Filter{
		MinPrice:        p.MinPrice,
		MaxPrice:        p.MaxPrice,
		AvoidCategories: p.AvoidCategories,
	}

	items, err := r.catalog.TextSearch(ctx, queryText, filter, r.cfg.RetrieveLimit)
	if err != nil {
		r.log.Errorf("text search failed, falling back to token search: %v", err)
	}
	if len(items) > 0 {
		return r.decorate(items), nil
	}

	tokens := text.SearchTokens(queryText, r.cfg.TokenMinPrefix)
	if len(tokens) > maxFuzzyTokens {
		tokens = tokens[:maxFuzzyTokens]
	}

	if len(tokens) == 0 {
		items, err = r.catalog.FindFiltered(ctx, filter, r.cfg.RetrieveLimit)
		if err != nil {
			return nil, fmt.Errorf("catalog find: %w", err)
		}
		return r.decorate(items), nil
	}

	items, err = r.catalog.TokenSearch(ctx, tokens, filter, r.cfg.RetrieveLimit)
	if err != nil {
		return nil, fmt.Errorf("catalog token search: %w", err)
	}
	return r.decorate(items), nil
}

// Bestsellers serves the top-rated catalog head, cached in process until a
// catalog change event invalidates it.
func (r *Retriever) Bestsellers(ctx context.Context, limit int64) ([]catalog.Product, error) {
	if limit <= 0 || limit > r.cfg.BestsellerLimit {
		limit = r.cfg.BestsellerLimit
	}

	items, ok := r.bestsellers.get()
	if !ok {
		var err error
		items, err = r.catalog.Bestsellers(ctx, r.cfg.BestsellerLimit)
		if err != nil {
			return nil, fmt.Errorf("catalog bestsellers: %w", err)
		}
		items = r.decorate(items)
		r.bestsellers.set(items)
	}

	if int64(len(items)) > limit {
		items = items[:limit]
	}
	return items, nil
}

// InvalidateBestsellers drops the cached bestseller head; called by the
// catalog change-event consumer.
func (r *Retriever) InvalidateBestsellers() {
	r.bestsellers.invalidate()
}

// decorate attaches the deterministic, catalog-derived canonical URL.
func (r *Retriever) decorate(items []catalog.Product) []catalog.Product {
	for i := range items {
		items[i].Url = fmt.Sprintf("%s/product/%s", r.cfg.FrontendBaseUrl, items[i].Id.Hex())
	}
	return items
}
