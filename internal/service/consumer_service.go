package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-storefront-be/internal/pkg/logger"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the telemetry topic and records each exchange in the
// structured log. It is the only subscriber; messages are always acked.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, sysLogger logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    sysLogger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var envelope struct {
		Type       string                 `json:"type"`
		Payload    map[string]interface{} `json:"payload"`
		OccurredAt string                 `json:"occurred_at"`
	}
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal telemetry message", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	details := map[string]interface{}{"occurred_at": envelope.OccurredAt}
	for k, v := range envelope.Payload {
		details[k] = v
	}
	cs.logger.Info("ConsumerService", envelope.Type, details)
	msg.Ack()
}
