package rabbitmq_producer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mercadona-parser-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig описывает обменник, в который пишет производитель
type PublisherConfig struct {
	ExchangeName string
	ExchangeType string // direct, fanout, topic
	Durable      bool

	// DeclareExchange - объявить обменник при создании; иначе он должен уже существовать
	DeclareExchange bool

	Logger rabbitmq_common.Logger
}

// Publisher публикует сообщения с подтверждениями брокера (publisher confirms).
// Publish возвращается только после ack или nack.
type Publisher struct {
	cfg         PublisherConfig
	connManager *rabbitmq_common.ConnectionManager
	logger      rabbitmq_common.Logger

	mu      sync.Mutex
	channel *amqp.Channel
}

func NewPublisher(ctx context.Context, cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, fmt.Errorf("producer: connection manager cannot be nil")
	}
	if cfg.ExchangeName == "" || cfg.ExchangeType == "" {
		return nil, fmt.Errorf("producer: exchange name and type are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = rabbitmq_common.NewNoopLogger()
	}

	p := &Publisher{cfg: cfg, connManager: connManager, logger: cfg.Logger}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.channelLocked(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// channelLocked возвращает открытый канал в режиме confirm, открывая новый при необходимости
func (p *Publisher) channelLocked(ctx context.Context) (*amqp.Channel, error) {
	if p.channel != nil && !p.channel.IsClosed() {
		return p.channel, nil
	}

	ch, err := p.connManager.Channel(ctx)
	if err != nil {
		return nil, fmt.Errorf("producer: get channel: %w", err)
	}

	if p.cfg.DeclareExchange {
		err = ch.ExchangeDeclare(p.cfg.ExchangeName, p.cfg.ExchangeType, p.cfg.Durable, false, false, false, nil)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("producer: declare exchange %q: %w", p.cfg.ExchangeName, err)
		}
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("producer: enable confirms: %w", err)
	}

	p.channel = ch
	p.logger.Debug("Producer channel ready", "exchange", p.cfg.ExchangeName)
	return ch, nil
}

// Publish отправляет сообщение и ждет подтверждения брокера
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked(ctx)
	if err != nil {
		return err
	}

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx, p.cfg.ExchangeName, routingKey, false, false, msg)
	if err != nil {
		return fmt.Errorf("producer: publish to %s/%s: %w", p.cfg.ExchangeName, routingKey, err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("producer: wait for confirm: %w", err)
	}
	if !acked {
		return errors.New("producer: message was nacked by the broker")
	}
	return nil
}

// Close закрывает канал; соединение принадлежит ConnectionManager
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil && !errors.Is(err, amqp.ErrClosed) {
		p.logger.Error(err, "Error closing producer channel")
		return err
	}
	return nil
}
