package reply

import (
	"time"

	"shopsage/app/dal/catalog"

	"github.com/zeromicro/go-zero/core/collection"
)

// PromptKind tags what a pending yes/no question was about so an affirmative
// turn knows how to act on it.
type PromptKind string

const (
	KindRelatedOffer PromptKind = "related_offer"
	KindGiftDetails  PromptKind = "gift_details"
)

type Prompt struct {
	Kind  PromptKind
	Query string
}

// Session is the per-user short-term memory: enough to answer "show me those
// again" and to resolve a pending question, nothing more.
type Session struct {
	LastShown []catalog.Product
	LastQuery string
	Pending   *Prompt
}

// Memory holds sessions in an in-process LRU with TTL. Evicted or expired
// sessions just mean the next turn starts fresh.
type Memory struct {
	cache *collection.Cache
}

func NewMemory(ttl time.Duration, limit int) (*Memory, error) {
	cache, err := collection.NewCache(ttl, collection.WithLimit(limit), collection.WithName("chat_sessions"))
	if err != nil {
		return nil, err
	}
	return &Memory{cache: cache}, nil
}

func (m *Memory) Load(key string) Session {
	if v, ok := m.cache.Get(key); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Session{}
}

func (m *Memory) Store(key string, s Session) {
	m.cache.Set(key, s)
}

func (m *Memory) Clear(key string) {
	m.cache.Del(key)
}
