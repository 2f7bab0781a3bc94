package mq

import (
	"context"
	"encoding/json"
	"time"

	"shopsage/app/api/chat/internal/svc"

	"github.com/segmentio/kafka-go"
	"github.com/zeromicro/go-zero/core/logx"
)

// StartProductConsumer watches catalog change events and drops the bestseller
// cache so stale products never surface in generic recommendations.
func StartProductConsumer(ctx context.Context, sc *svc.ServiceContext) error {
	if len(sc.Config.KafkaConf.Brokers) == 0 || sc.Config.KafkaConf.ProductsTopic == "" || sc.Config.KafkaConf.Group == "" {
		logx.Infow("skip product consumer, kafka config missing")
		return nil
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     sc.Config.KafkaConf.Brokers,
		GroupID:     sc.Config.KafkaConf.Group,
		Topic:       sc.Config.KafkaConf.ProductsTopic,
		MinBytes:    1,
		MaxBytes:    10 << 20,
		MaxWait:     50 * time.Millisecond,
		StartOffset: kafka.LastOffset,
	})
	defer r.Close()

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logx.Errorw("fetch product event failed", logx.Field("err", err))
			continue
		}

		var evt ProductEvent
		if err := json.Unmarshal(m.Value, &evt); err != nil {
			logx.Errorw("unmarshal product event failed", logx.Field("err", err))
		} else {
			handleProductEvent(sc, evt)
		}

		if err := r.CommitMessages(ctx, m); err != nil {
			logx.Errorw("commit product event failed", logx.Field("err", err))
		}
	}
}

func handleProductEvent(sc *svc.ServiceContext, evt ProductEvent) {
	sc.Engine.InvalidateBestsellers()
	logx.Infow("bestseller cache invalidated",
		logx.Field("type", evt.Type),
		logx.Field("product_id", evt.ProductId),
	)
}
