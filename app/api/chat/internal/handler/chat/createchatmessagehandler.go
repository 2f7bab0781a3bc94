// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package chat

import (
	"net/http"

	"shopsage/app/api/chat/internal/logic/chat"
	"shopsage/app/api/chat/internal/svc"
	"shopsage/app/api/chat/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func CreateChatMessageHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatMessageRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := chat.NewCreateChatMessageLogic(r.Context(), svcCtx)
		resp, err := l.CreateChatMessage(&req)
		switch {
		case err == nil:
			httpx.OkJsonCtx(r.Context(), w, resp)
		case resp != nil:
			// Validation problems stay conversational: the body is a normal
			// chat reply carried on a 400.
			httpx.WriteJsonCtx(r.Context(), w, http.StatusBadRequest, resp)
		default:
			httpx.ErrorCtx(r.Context(), w, err)
		}
	}
}
