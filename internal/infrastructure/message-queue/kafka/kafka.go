package kafka

import (
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/config"
	"github.com/segmentio/kafka-go"
)

// CreateKafkaWriter returns nil when no broker is configured, which disables
// event publishing.
func CreateKafkaWriter(config *config.Config) *kafka.Writer {
	if config.KafkaConfig.BrokerAddress == "" {
		return nil
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(config.KafkaConfig.BrokerAddress),
		Topic:                  config.KafkaConfig.BrokerTopic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            3,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}
