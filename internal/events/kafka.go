package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

// messageWriter - часть kafka.Writer, которой пользуется публикатор
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher создаёт асинхронный writer: WriteMessages только ставит сообщение
// в очередь, ошибки доставки попадают в лог через Completion. Close дожидается отправки.
func NewKafkaPublisher(log *slog.Logger, brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
		Async:                  true,
		Completion:             logCompletion(log, topic),
	}
	return &KafkaPublisher{writer: w, topic: topic}
}

// logCompletion пишет в лог неудачную доставку пачки сообщений
func logCompletion(log *slog.Logger, topic string) func([]kafka.Message, error) {
	const op = "events.KafkaPublisher.Completion"

	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		keys := make([]string, 0, len(msgs))
		for _, m := range msgs {
			keys = append(keys, string(m.Key))
		}
		log.Error("failed to deliver order events",
			slog.String("op", op),
			slog.String("topic", topic),
			slog.Any("orders", keys),
			slog.Any("error", err),
		)
	}
}

func newKafkaPublisherWithWriter(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

// PublishOrderEvent ставит событие в очередь writer'а; ключ по номеру заказа держит события
// одного заказа в одной партиции
func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.OrderNumber),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ Publisher = (*KafkaPublisher)(nil)
