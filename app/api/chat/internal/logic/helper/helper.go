package helper

import (
	"shopsage/app/api/chat/internal/engine/llm"
	"shopsage/app/api/chat/internal/types"
	"shopsage/app/dal/catalog"
)

func ToTurns(in []types.ChatTurn) []llm.Turn {
	if len(in) == 0 {
		return nil
	}
	out := make([]llm.Turn, 0, len(in))
	for _, t := range in {
		out = append(out, llm.Turn{Role: t.Role, Content: t.Content})
	}
	return out
}

func ToProductView(in catalog.Product) types.ProductView {
	return types.ProductView{
		Id:            in.Id.Hex(),
		Title:         in.Title,
		Description:   in.Description,
		Price:         in.Price,
		Category:      in.Category,
		Image:         in.Image,
		Url:           in.Url,
		AverageRating: in.AverageRating,
	}
}

func ToProductViews(in []catalog.Product) []types.ProductView {
	out := make([]types.ProductView, 0, len(in))
	for _, p := range in {
		out = append(out, ToProductView(p))
	}
	return out
}
