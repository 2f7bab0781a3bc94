package mq

// ProductEvent is the catalog change notification published by the admin
// tooling whenever a product is created, updated, or removed.
type ProductEvent struct {
	Type      string `json:"type"`
	ProductId string `json:"product_id"`
	Category  string `json:"category"`
	Ts        int64  `json:"ts"`
}
