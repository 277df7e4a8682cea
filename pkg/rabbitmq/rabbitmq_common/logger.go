package rabbitmq_common

// Logger - то, что пакетам pkg/rabbitmq нужно от логгера приложения
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(err error, msg string, keysAndValues ...interface{})
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{})        {}
func (discardLogger) Info(string, ...interface{})         {}
func (discardLogger) Warn(string, ...interface{})         {}
func (discardLogger) Error(error, string, ...interface{}) {}

// NewNoopLogger возвращает логгер, который ничего не пишет
func NewNoopLogger() Logger {
	return discardLogger{}
}
