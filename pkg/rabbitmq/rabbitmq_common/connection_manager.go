package rabbitmq_common

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConnectionManager держит одно соединение с брокером на время запуска.
// Упавшее соединение переоткрывается лениво, при следующем запросе канала.
type ConnectionManager struct {
	cfg    Config
	logger Logger

	mu   sync.Mutex
	conn *amqp.Connection
	dial func(url string) (*amqp.Connection, error)
}

// NewConnectionManager подключается к брокеру, делая до cfg.DialAttempts попыток
func NewConnectionManager(ctx context.Context, cfg Config, logger Logger) (*ConnectionManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNoopLogger()
	}

	m := &ConnectionManager{cfg: cfg, logger: logger, dial: amqp.Dial}
	if _, err := m.connect(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// connectLocked возвращает живое соединение, при необходимости переподключаясь. Вызывать под mu.
func (m *ConnectionManager) connectLocked(ctx context.Context) (*amqp.Connection, error) {
	if m.conn != nil && !m.conn.IsClosed() {
		return m.conn, nil
	}

	var lastErr error
	for attempt := 1; attempt <= m.cfg.DialAttempts; attempt++ {
		conn, err := m.dial(m.cfg.URL)
		if err == nil {
			m.conn = conn
			m.logger.Debug("Connected to RabbitMQ", "attempt", attempt)
			return conn, nil
		}
		lastErr = err
		m.logger.Warn("RabbitMQ dial failed", "attempt", attempt, "max_attempts", m.cfg.DialAttempts, "error", err.Error())

		if attempt == m.cfg.DialAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.cfg.RetryDelay):
		}
	}
	return nil, fmt.Errorf("rabbitmq: dial failed after %d attempts: %w", m.cfg.DialAttempts, lastErr)
}

func (m *ConnectionManager) connect(ctx context.Context) (*amqp.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectLocked(ctx)
}

// Channel открывает новый канал на общем соединении
func (m *ConnectionManager) Channel(ctx context.Context) (*amqp.Channel, error) {
	conn, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	return ch, nil
}

// Close закрывает соединение; повторный вызов безопасен
func (m *ConnectionManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil || m.conn.IsClosed() {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	if err != nil {
		m.logger.Error(err, "Failed to close RabbitMQ connection")
		return err
	}
	m.logger.Debug("RabbitMQ connection closed")
	return nil
}
