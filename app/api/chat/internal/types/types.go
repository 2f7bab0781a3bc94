// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatMessageRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history,optional"`
}

type ProductView struct {
	Id            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	Image         string  `json:"image,omitempty"`
	Url           string  `json:"url,omitempty"`
	AverageRating float64 `json:"averageRating"`
}

type ChatMessageResponse struct {
	MessageId        int64         `json:"messageId,string"`
	BotResponse      string        `json:"botResponse"`
	Products         []ProductView `json:"products"`
	CorrectedMessage string        `json:"correctedMessage,omitempty"`
}
