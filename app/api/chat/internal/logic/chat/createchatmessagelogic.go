// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package chat

import (
	"context"
	"strings"

	"shopsage/app/api/chat/internal/engine/intent"
	"shopsage/app/api/chat/internal/engine/reply"
	"shopsage/app/api/chat/internal/logic/helper"
	"shopsage/app/api/chat/internal/svc"
	"shopsage/app/api/chat/internal/types"
	"shopsage/app/common/consts/errno"
	"shopsage/app/common/snowflake"
	"shopsage/app/common/util"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
)

type CreateChatMessageLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCreateChatMessageLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreateChatMessageLogic {
	return &CreateChatMessageLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CreateChatMessageLogic) CreateChatMessage(req *types.ChatMessageRequest) (*types.ChatMessageResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		lang := intent.ParseLanguage(l.svcCtx.Config.Engine.ForceLanguage)
		if lang == "" {
			lang = intent.LangEnglish
		}
		resp := &types.ChatMessageResponse{
			MessageId:   snowflake.Next(),
			BotResponse: reply.EmptyMessageReply(lang),
			Products:    []types.ProductView{},
		}
		return resp, errors.New(int(errno.EmptyMessage), "empty message")
	}

	sessionKey := util.SessionKeyFromCtx(l.ctx)
	res, err := l.svcCtx.Engine.Respond(l.ctx, sessionKey, message, helper.ToTurns(req.History))
	if err != nil {
		l.Logger.Error("logic: chat engine failed: ", err)
		return nil, errors.New(int(errno.CatalogUnavailable), "product catalog unavailable")
	}

	return &types.ChatMessageResponse{
		MessageId:        snowflake.Next(),
		BotResponse:      res.BotResponse,
		Products:         helper.ToProductViews(res.Products),
		CorrectedMessage: res.CorrectedMessage,
	}, nil
}
