package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerFromContext_FallsBackToNoop(t *testing.T) {
	logger := LoggerFromContext(context.Background())
	assert.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.WithFields(nil).Error("boom", nil, nil)
	})
}

type namedLogger struct {
	discardLogger
	name string
}

func TestContextWithLogger_KeepsOuterLoggerOnNil(t *testing.T) {
	outer := namedLogger{name: "outer"}
	ctx := ContextWithLogger(context.Background(), outer)
	ctx = ContextWithLogger(ctx, nil)

	assert.Equal(t, outer, LoggerFromContext(ctx))
}
