package bootstrap

import (
	"context"

	"shopsage/app/api/chat/internal/mq"
	"shopsage/app/api/chat/internal/svc"

	"github.com/zeromicro/go-zero/core/threading"
)

// StartKafka starts the product event consumer if configured; returns a stop func.
func StartKafka(sc *svc.ServiceContext) func() {
	ctx, cancel := context.WithCancel(context.Background())
	threading.GoSafe(func() { _ = mq.StartProductConsumer(ctx, sc) })
	return func() { cancel() }
}
