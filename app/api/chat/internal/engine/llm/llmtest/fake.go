// Package llmtest provides a deterministic chat model for engine tests.
package llmtest

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var _ model.BaseChatModel = (*FakeChatModel)(nil)

// FakeChatModel returns scripted replies in order, repeating the last one,
// and records every prompt it sees.
type FakeChatModel struct {
	Replies []string
	Err     error

	Calls [][]*schema.Message
	next  int
}

func (f *FakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.Calls = append(f.Calls, input)
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.Replies) == 0 {
		return schema.AssistantMessage("", nil), nil
	}
	idx := f.next
	if idx >= len(f.Replies) {
		idx = len(f.Replies) - 1
	}
	f.next++
	return schema.AssistantMessage(f.Replies[idx], nil), nil
}

func (f *FakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	sr, sw := schema.Pipe[*schema.Message](1)
	sw.Send(msg, nil)
	sw.Close()
	return sr, nil
}
