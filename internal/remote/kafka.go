package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/matvei-khlestov/vemora-sync/pkg/kafka"
	"github.com/matvei-khlestov/vemora-sync/pkg/mylogger"
	"go.uber.org/zap"
)

type KafkaConfig struct {
	Brokers         []string
	GroupID         string
	ProductsTopic   string
	CategoriesTopic string
	BrandsTopic     string
}

// KafkaSource serves the realtime push half of the catalog boundary. Each
// message carries a full current collection as a snapshot event.
type KafkaSource struct {
	cfg    KafkaConfig
	logger *zap.Logger
}

func NewKafkaSource(cfg KafkaConfig, logger *zap.Logger) *KafkaSource {
	return &KafkaSource{cfg: cfg, logger: logger}
}

func (s *KafkaSource) Listen(ctx context.Context, handlers Handlers) error {
	consumerGroup := kafka.NewConsumerGroup(
		s.cfg.Brokers,
		s.cfg.GroupID,
		[]string{s.cfg.ProductsTopic, s.cfg.CategoriesTopic, s.cfg.BrandsTopic},
		func(ctx context.Context, msg *sarama.ConsumerMessage) error {
			return s.processMessage(ctx, msg, handlers)
		},
		s.logger,
	)

	return consumerGroup.Run(ctx)
}

func (s *KafkaSource) processMessage(ctx context.Context, msg *sarama.ConsumerMessage, handlers Handlers) error {
	type snapshotWrapper struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}

	var wrapper snapshotWrapper
	if err := json.Unmarshal(msg.Value, &wrapper); err != nil {
		mylogger.Error(ctx, s.logger, "Error unmarshalling wrapper", zap.Error(err))
		return err
	}

	switch msg.Topic {
	case s.cfg.ProductsTopic:
		if handlers.Products == nil {
			return nil
		}

		var records []ProductRecord
		if err := json.Unmarshal(wrapper.Payload, &records); err != nil {
			return fmt.Errorf("error unmarshalling products snapshot: %w", err)
		}

		return handlers.Products(ctx, records)
	case s.cfg.CategoriesTopic:
		if handlers.Categories == nil {
			return nil
		}

		var records []CategoryRecord
		if err := json.Unmarshal(wrapper.Payload, &records); err != nil {
			return fmt.Errorf("error unmarshalling categories snapshot: %w", err)
		}

		return handlers.Categories(ctx, records)
	case s.cfg.BrandsTopic:
		if handlers.Brands == nil {
			return nil
		}

		var records []BrandRecord
		if err := json.Unmarshal(wrapper.Payload, &records); err != nil {
			return fmt.Errorf("error unmarshalling brands snapshot: %w", err)
		}

		return handlers.Brands(ctx, records)
	default:
		mylogger.Warn(ctx, s.logger, "Ignored message topic", zap.String("topic", msg.Topic))
		return nil
	}
}
