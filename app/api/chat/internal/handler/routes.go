// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	chat "shopsage/app/api/chat/internal/handler/chat"
	"shopsage/app/api/chat/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{serverCtx.IdentityMiddleware},
			[]rest.Route{
				{
					Method:  http.MethodPost,
					Path:    "/chat/message",
					Handler: chat.CreateChatMessageHandler(serverCtx),
				},
			}...,
		),
	)
}
