package plan

import (
	"context"
	"errors"
	"testing"

	"shopsage/app/api/chat/internal/engine/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"
)

func newTestBuilder(t *testing.T, m *llmtest.FakeChatModel) *Builder {
	t.Helper()
	ctx := context.Background()
	if m == nil {
		b, err := NewBuilder(ctx, logx.WithContext(ctx), nil, Config{})
		require.NoError(t, err)
		return b
	}
	b, err := NewBuilder(ctx, logx.WithContext(ctx), m, Config{})
	require.NoError(t, err)
	return b
}

func TestHeuristicPlanPrefersContextualQuery(t *testing.T) {
	b := newTestBuilder(t, nil)

	p := b.Build(context.Background(), Input{Message: "cheaper", Contextual: "running shoes cheaper"})
	assert.Equal(t, "running shoes cheaper", p.Query)
	assert.Equal(t, 3, p.K)
	assert.False(t, p.HasConstraints())
}

func TestBuildUsesModelPlan(t *testing.T) {
	m := &llmtest.FakeChatModel{Replies: []string{
		`{"query":"laptop","recipient":null,"minPrice":null,"maxPrice":200,"preferCategories":["Electronics"],"avoidCategories":[],"k":4}`,
	}}
	b := newTestBuilder(t, m)

	p := b.Build(context.Background(), Input{Message: "a laptop under 200"})
	assert.Equal(t, "laptop", p.Query)
	require.NotNil(t, p.MaxPrice)
	assert.Equal(t, float64(200), *p.MaxPrice)
	assert.Equal(t, []string{"Electronics"}, p.PreferCategories)
	assert.Equal(t, 4, p.K)
}

func TestBuildFallsBackOnModelError(t *testing.T) {
	m := &llmtest.FakeChatModel{Err: errors.New("boom")}
	b := newTestBuilder(t, m)

	p := b.Build(context.Background(), Input{Message: "a laptop under 200"})
	assert.Equal(t, "a laptop under 200", p.Query)
	assert.Equal(t, 3, p.K)
	require.NotNil(t, p.MaxPrice)
	assert.Equal(t, float64(200), *p.MaxPrice)
}

func TestHeuristicExtractsPriceCeiling(t *testing.T) {
	b := newTestBuilder(t, nil)

	p := b.Build(context.Background(), Input{Message: "a gift for my son under 50 euros"})
	require.NotNil(t, p.MaxPrice)
	assert.Equal(t, float64(50), *p.MaxPrice)
	assert.Nil(t, p.MinPrice)

	p = b.Build(context.Background(), Input{Message: "schuhe unter 30 euro"})
	require.NotNil(t, p.MaxPrice)
	assert.Equal(t, float64(30), *p.MaxPrice)

	p = b.Build(context.Background(), Input{Message: "running shoes"})
	assert.Nil(t, p.MaxPrice)
}

func TestBuildFallsBackOnGarbageOutput(t *testing.T) {
	m := &llmtest.FakeChatModel{Replies: []string{"sorry, I can't do that"}}
	b := newTestBuilder(t, m)

	p := b.Build(context.Background(), Input{Message: "a watch"})
	assert.Equal(t, "a watch", p.Query)
	assert.False(t, p.HasConstraints())
}

func TestBuildFiltersUnknownCategories(t *testing.T) {
	m := &llmtest.FakeChatModel{Replies: []string{
		`{"query":"toys","preferCategories":["Gadgets","Electronics"],"avoidCategories":["Nonsense"],"k":99}`,
	}}
	b := newTestBuilder(t, m)

	p := b.Build(context.Background(), Input{Message: "toys"})
	assert.Equal(t, []string{"Electronics"}, p.PreferCategories)
	assert.Empty(t, p.AvoidCategories)
	assert.Equal(t, 5, p.K)
}

func TestSanitizeDropsInvertedPriceRange(t *testing.T) {
	min, max := 100.0, 50.0
	p := Plan{Query: "shoes", MinPrice: &min, MaxPrice: &max}.sanitize(3, 5)
	require.NotNil(t, p.MinPrice)
	assert.Nil(t, p.MaxPrice)
}

func TestSanitizeDropsNegativePrices(t *testing.T) {
	neg := -5.0
	p := Plan{Query: "shoes", MinPrice: &neg, MaxPrice: &neg}.sanitize(3, 5)
	assert.Nil(t, p.MinPrice)
	assert.Nil(t, p.MaxPrice)
}

func TestClampK(t *testing.T) {
	assert.Equal(t, 3, ClampK(0, 3, 5))
	assert.Equal(t, 1, ClampK(-2, -1, 5))
	assert.Equal(t, 5, ClampK(9, 3, 5))
	assert.Equal(t, 2, ClampK(2, 3, 5))
}

func TestRecipientForPlanWins(t *testing.T) {
	p := Plan{Recipient: RecipientDaughter}
	assert.Equal(t, RecipientDaughter, RecipientFor(p, "a gift for my son"))
}

func TestRecipientForHeuristic(t *testing.T) {
	assert.Equal(t, RecipientSon, RecipientFor(Plan{}, "a gift for my son"))
	assert.Equal(t, RecipientWomen, RecipientFor(Plan{}, "something for my wife"))
	assert.Equal(t, RecipientSon, RecipientFor(Plan{}, "ein geschenk fuer meinen sohn"))
	assert.Equal(t, "", RecipientFor(Plan{}, "a cheap laptop"))
}

func TestApplyRecipientRulesSon(t *testing.T) {
	p := ApplyRecipientRules(Plan{Query: "gift"}, RecipientSon)

	assert.Contains(t, p.AvoidCategories, "Women's Clothing")
	assert.Contains(t, p.AvoidCategories, "Beauty")
	assert.Contains(t, p.AvoidCategories, "Jewelry")
	assert.Contains(t, p.PreferCategories, "Men's Clothing")
	assert.NotContains(t, p.PreferCategories, "Women's Clothing")
}

func TestApplyRecipientRulesDaughter(t *testing.T) {
	p := ApplyRecipientRules(Plan{Query: "gift"}, RecipientDaughter)

	assert.Equal(t, []string{"Men's Clothing"}, p.AvoidCategories)
	assert.Contains(t, p.PreferCategories, "Women's Clothing")
	assert.Contains(t, p.PreferCategories, "Jewelry")
}

func TestApplyRecipientRulesIdentityWithoutRecipient(t *testing.T) {
	in := Plan{Query: "gift", PreferCategories: []string{"Books"}}
	out := ApplyRecipientRules(in, "")
	assert.Equal(t, in, out)
}

func TestApplyRecipientRulesKeepsCallerCategories(t *testing.T) {
	in := Plan{Query: "gift", PreferCategories: []string{"Books"}}
	out := ApplyRecipientRules(in, RecipientKids)
	assert.Contains(t, out.PreferCategories, "Books")
	assert.Contains(t, out.PreferCategories, "Kids's Clothing")
}
