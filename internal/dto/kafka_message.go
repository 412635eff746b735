package dto

const (
	EventProductCreated = "product_created"
	EventProductDeleted = "product_deleted"
	EventBannerCreated  = "banner_created"
	EventBannerDeleted  = "banner_deleted"
)

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}
