package rabbitmq_common

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultDialAttempts = 3
	defaultRetryDelay   = 2 * time.Second
)

// Config - параметры подключения к брокеру
type Config struct {
	URL string
	// DialAttempts - сколько раз пробовать подключиться, прежде чем сдаться
	DialAttempts int
	RetryDelay   time.Duration
}

// Validate проверяет URL и подставляет значения по умолчанию
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("rabbitmq: URL is required")
	}
	if !strings.HasPrefix(c.URL, "amqp://") && !strings.HasPrefix(c.URL, "amqps://") {
		return fmt.Errorf("rabbitmq: URL must start with amqp:// or amqps://")
	}
	if c.DialAttempts < 1 {
		c.DialAttempts = defaultDialAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	return nil
}
