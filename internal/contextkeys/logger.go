package contextkeys

import (
	"context"
	"mercadona-parser-service/internal/core/port"
)

type ctxKey int

const loggerKey ctxKey = iota

// discard используется, когда логгер в контекст не положили
var discard port.LoggerPort = discardLogger{}

// ContextWithLogger возвращает контекст с логгером. nil не сохраняется.
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext никогда не возвращает nil
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok {
		return logger
	}
	return discard
}

type discardLogger struct{}

func (discardLogger) Info(string, port.Fields)                 {}
func (discardLogger) Warn(string, port.Fields)                 {}
func (discardLogger) Error(string, error, port.Fields)         {}
func (discardLogger) Debug(string, port.Fields)                {}
func (d discardLogger) WithFields(port.Fields) port.LoggerPort { return d }
