package search

import (
	"context"
	"errors"
	"testing"

	"shopsage/app/api/chat/internal/engine/plan"
	"shopsage/app/dal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeCatalog struct {
	textItems  []catalog.Product
	textErr    error
	tokenItems []catalog.Product
	tokenErr   error
	findItems  []catalog.Product
	findErr    error
	bestItems  []catalog.Product
	bestErr    error

	textCalls   int
	tokenCalls  int
	findCalls   int
	bestCalls   int
	seenTokens  []string
	seenFilters []catalog.Filter
}

func (f *fakeCatalog) TextSearch(_ context.Context, _ string, filter catalog.Filter, _ int64) ([]catalog.Product, error) {
	f.textCalls++
	f.seenFilters = append(f.seenFilters, filter)
	return f.textItems, f.textErr
}

func (f *fakeCatalog) TokenSearch(_ context.Context, tokens []string, filter catalog.Filter, _ int64) ([]catalog.Product, error) {
	f.tokenCalls++
	f.seenTokens = tokens
	f.seenFilters = append(f.seenFilters, filter)
	return f.tokenItems, f.tokenErr
}

func (f *fakeCatalog) FindFiltered(_ context.Context, filter catalog.Filter, _ int64) ([]catalog.Product, error) {
	f.findCalls++
	f.seenFilters = append(f.seenFilters, filter)
	return f.findItems, f.findErr
}

func (f *fakeCatalog) Bestsellers(_ context.Context, _ int64) ([]catalog.Product, error) {
	f.bestCalls++
	return f.bestItems, f.bestErr
}

func product(title string) catalog.Product {
	return catalog.Product{Id: bson.NewObjectID(), Title: title}
}

func newTestRetriever(fc *fakeCatalog) *Retriever {
	return NewRetriever(logx.WithContext(context.Background()), fc, Config{FrontendBaseUrl: "http://shop.local"})
}

func TestRetrieveTextSearchFirst(t *testing.T) {
	fc := &fakeCatalog{textItems: []catalog.Product{product("Laptop")}}
	r := newTestRetriever(fc)

	items, err := r.Retrieve(context.Background(), "laptop", plan.Plan{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, fc.textCalls)
	assert.Equal(t, 0, fc.tokenCalls)
	assert.Equal(t, "http://shop.local/product/"+items[0].Id.Hex(), items[0].Url)
}

func TestRetrieveFallsBackToTokenSearch(t *testing.T) {
	fc := &fakeCatalog{tokenItems: []catalog.Product{product("Watch")}}
	r := newTestRetriever(fc)

	items, err := r.Retrieve(context.Background(), "watches", plan.Plan{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, fc.textCalls)
	assert.Equal(t, 1, fc.tokenCalls)
	assert.Contains(t, fc.seenTokens, "watch")
}

func TestRetrieveTextErrorDegradesToTokens(t *testing.T) {
	fc := &fakeCatalog{
		textErr:    errors.New("no text index"),
		tokenItems: []catalog.Product{product("Watch")},
	}
	r := newTestRetriever(fc)

	items, err := r.Retrieve(context.Background(), "watch", plan.Plan{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRetrieveNoTokensUsesFilteredFind(t *testing.T) {
	fc := &fakeCatalog{findItems: []catalog.Product{product("Anything")}}
	r := newTestRetriever(fc)

	// Normalization leaves nothing token-worthy behind.
	items, err := r.Retrieve(context.Background(), "a ??", plan.Plan{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, fc.findCalls)
	assert.Equal(t, 0, fc.tokenCalls)
}

func TestRetrieveTokenSearchErrorIsFatal(t *testing.T) {
	fc := &fakeCatalog{tokenErr: errors.New("store down")}
	r := newTestRetriever(fc)

	_, err := r.Retrieve(context.Background(), "watch", plan.Plan{})
	assert.Error(t, err)
}

func TestRetrievePassesPlanConstraints(t *testing.T) {
	max := 50.0
	fc := &fakeCatalog{textItems: []catalog.Product{product("Cheap")}}
	r := newTestRetriever(fc)

	_, err := r.Retrieve(context.Background(), "cheap stuff", plan.Plan{
		MaxPrice:        &max,
		AvoidCategories: []string{"Jewelry"},
	})
	require.NoError(t, err)
	require.Len(t, fc.seenFilters, 1)
	assert.Equal(t, &max, fc.seenFilters[0].MaxPrice)
	assert.Equal(t, []string{"Jewelry"}, fc.seenFilters[0].AvoidCategories)
}

func TestBestsellersCached(t *testing.T) {
	fc := &fakeCatalog{bestItems: []catalog.Product{product("Hit"), product("Hit 2")}}
	r := newTestRetriever(fc)

	first, err := r.Bestsellers(context.Background(), 0)
	require.NoError(t, err)
	second, err := r.Bestsellers(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fc.bestCalls)

	r.InvalidateBestsellers()
	_, err = r.Bestsellers(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, fc.bestCalls)
}

func TestBestsellersLimitClamped(t *testing.T) {
	fc := &fakeCatalog{bestItems: []catalog.Product{product("A"), product("B"), product("C")}}
	r := newTestRetriever(fc)

	items, err := r.Bestsellers(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
