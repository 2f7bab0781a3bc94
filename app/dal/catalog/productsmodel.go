package catalog

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/v2/bson"
	mopt "go.mongodb.org/mongo-driver/v2/mongo/options"
)

var _ ProductsModel = (*customProductsModel)(nil)

type (
	// ProductsModel is the read-only catalog query interface consumed by the
	// retrieval engine. The catalog itself is owned elsewhere.
	ProductsModel interface {
		// TextSearch runs a full-text relevance search over title/description/
		// category, ordered by text score, then rating, then recency.
		TextSearch(ctx context.Context, query string, filter Filter, limit int64) ([]Product, error)
		// TokenSearch matches any of the given tokens as case-insensitive
		// word-prefix substrings, ordered by rating then recency.
		TokenSearch(ctx context.Context, tokens []string, filter Filter, limit int64) ([]Product, error)
		// FindFiltered returns the filtered catalog ordered by rating then recency.
		FindFiltered(ctx context.Context, filter Filter, limit int64) ([]Product, error)
		// Bestsellers returns the catalog head ordered by rating then recency.
		Bestsellers(ctx context.Context, limit int64) ([]Product, error)
	}

	customProductsModel struct {
		coll *mon.Model
	}

	// Filter carries the hard plan constraints applied to every catalog query.
	Filter struct {
		MinPrice        *float64
		MaxPrice        *float64
		AvoidCategories []string
	}

	Product struct {
		Id            bson.ObjectID `bson:"_id,omitempty" json:"id"`
		Title         string        `bson:"title" json:"title"`
		Description   string        `bson:"description" json:"description"`
		Price         float64       `bson:"price" json:"price"`
		Category      string        `bson:"category" json:"category"`
		Image         string        `bson:"image,omitempty" json:"image,omitempty"`
		AverageRating float64       `bson:"averageRating" json:"averageRating"`
		CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`

		// Score is the text-search relevance score, present only on TextSearch
		// results. Url is derived per deployment and never stored.
		Score float64 `bson:"score,omitempty" json:"-"`
		Url   string  `bson:"-" json:"url,omitempty"`
	}
)

// NewProductsModel returns a model for the products collection.
func NewProductsModel(url, db, collection string) ProductsModel {
	return &customProductsModel{
		coll: mon.MustNewModel(url, db, collection),
	}
}

func (f Filter) toBson() bson.M {
	filter := bson.M{}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	if len(f.AvoidCategories) > 0 {
		filter["category"] = bson.M{"$nin": f.AvoidCategories}
	}
	return filter
}

func (m *customProductsModel) TextSearch(ctx context.Context, query string, filter Filter, limit int64) ([]Product, error) {
	cond := filter.toBson()
	cond["$text"] = bson.M{"$search": query}

	opts := mopt.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.D{
			{Key: "score", Value: bson.M{"$meta": "textScore"}},
			{Key: "averageRating", Value: -1},
			{Key: "createdAt", Value: -1},
		}).
		SetLimit(limit)

	var items []Product
	if err := m.coll.Find(ctx, &items, cond, opts); err != nil {
		return nil, err
	}
	return items, nil
}

func (m *customProductsModel) TokenSearch(ctx context.Context, tokens []string, filter Filter, limit int64) ([]Product, error) {
	cond := filter.toBson()

	ors := make([]bson.M, 0, len(tokens)*3)
	for _, token := range tokens {
		re := bson.Regex{Pattern: fmt.Sprintf(`\b%s`, regexp.QuoteMeta(token)), Options: "i"}
		ors = append(ors,
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"category": re},
		)
	}
	if len(ors) > 0 {
		cond["$or"] = ors
	}

	return m.findSorted(ctx, cond, limit)
}

func (m *customProductsModel) FindFiltered(ctx context.Context, filter Filter, limit int64) ([]Product, error) {
	return m.findSorted(ctx, filter.toBson(), limit)
}

func (m *customProductsModel) Bestsellers(ctx context.Context, limit int64) ([]Product, error) {
	return m.findSorted(ctx, bson.M{}, limit)
}

func (m *customProductsModel) findSorted(ctx context.Context, cond bson.M, limit int64) ([]Product, error) {
	opts := mopt.Find().
		SetSort(bson.D{
			{Key: "averageRating", Value: -1},
			{Key: "createdAt", Value: -1},
		}).
		SetLimit(limit)

	var items []Product
	if err := m.coll.Find(ctx, &items, cond, opts); err != nil {
		return nil, err
	}
	return items, nil
}
