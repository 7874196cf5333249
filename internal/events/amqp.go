package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes events to a durable topic exchange, opening a
// channel per message.
type AMQPPublisher struct {
	conn     *amqp.Connection
	open     func() (amqpChannel, error)
	exchange string
	logger   *zap.Logger
}

func DialAMQP(url, exchange string, logger *zap.Logger) (*AMQPPublisher, error) {
	if url == "" {
		return nil, fmt.Errorf("amqp url is required")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	p := newAMQPPublisher(func() (amqpChannel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	}, exchange, logger)
	p.conn = conn

	ch, err := p.open()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()
	if err := declareExchange(ch, p.exchange); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

func newAMQPPublisher(open func() (amqpChannel, error), exchange string, logger *zap.Logger) *AMQPPublisher {
	if exchange == "" {
		exchange = "analysis_events"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{open: open, exchange: exchange, logger: logger}
}

func declareExchange(ch amqpChannel, name string) error {
	err := ch.ExchangeDeclare(
		name,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", name, err)
	}
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	ch, err := p.open()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	key := RoutingKey(evt.Role)
	err = ch.Publish(
		p.exchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    evt.Timestamp,
			MessageId:    evt.AnalysisID.String(),
			Type:         evt.Type,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	p.logger.Debug("event published",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", key),
		zap.String("analysis_id", evt.AnalysisID.String()),
	)
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
