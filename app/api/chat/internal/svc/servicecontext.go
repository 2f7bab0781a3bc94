// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package svc

import (
	"context"
	"time"

	"shopsage/app/api/chat/internal/config"
	"shopsage/app/api/chat/internal/engine"
	"shopsage/app/api/chat/internal/engine/plan"
	"shopsage/app/api/chat/internal/engine/rerank"
	"shopsage/app/api/chat/internal/engine/search"
	"shopsage/app/common/middleware"
	"shopsage/app/dal/catalog"

	"github.com/cloudwego/eino-ext/components/model/ark"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
)

type ServiceContext struct {
	Config             config.Config
	IdentityMiddleware rest.Middleware
	Products           catalog.ProductsModel
	Engine             *engine.Engine
}

func NewServiceContext(c config.Config) *ServiceContext {
	logx.MustSetup(c.LogConf)

	products := catalog.NewProductsModel(c.Mongo.Url, c.Mongo.Database, c.Mongo.Collection)

	var chatModel einomodel.BaseChatModel
	if c.ChatModel.APIKey != "" && c.ChatModel.Model != "" {
		cm, err := ark.NewChatModel(context.Background(), &ark.ChatModelConfig{
			BaseURL: c.ChatModel.BaseUrl,
			APIKey:  c.ChatModel.APIKey,
			Model:   c.ChatModel.Model,
		})
		if err != nil {
			logx.Errorw("init ark chat model failed, running without model", logx.Field("err", err))
		} else {
			chatModel = cm
			logx.Infow("ark chat model initialized")
		}
	} else {
		logx.Infow("chat model not configured, running without model")
	}

	eng, err := engine.New(context.Background(), logx.WithContext(context.Background()), products, chatModel, engine.Config{
		ForceLanguage: c.Engine.ForceLanguage,
		HistoryLimit:  c.Engine.HistoryLimit,
		SessionTTL:    time.Duration(c.Engine.SessionTTLSeconds) * time.Second,
		SessionLimit:  c.Engine.SessionLimit,
		ModelTimeout:  time.Duration(c.Engine.ModelTimeoutSeconds) * time.Second,
		Plan: plan.Config{
			DefaultK: c.Engine.DefaultK,
			MaxK:     c.Engine.MaxK,
		},
		Search: search.Config{
			RetrieveLimit:   c.Engine.RetrieveLimit,
			BestsellerLimit: c.Engine.BestsellerLimit,
			TokenMinPrefix:  c.Engine.TokenMinPrefix,
			FrontendBaseUrl: c.Engine.FrontendBaseUrl,
		},
		Rerank: rerank.Config{
			ShortlistLimit: c.Engine.ShortlistLimit,
		},
	})
	logx.Must(err)

	return &ServiceContext{
		Config:             c,
		IdentityMiddleware: middleware.NewIdentityMiddleware(c.Auth.AccessSecret).Handle,
		Products:           products,
		Engine:             eng,
	}
}
