package rabbitmq

import (
	"fmt"
	"mercadona-parser-service/internal/core/port"
	"mercadona-parser-service/pkg/rabbitmq/rabbitmq_common"
)

// orphanValueKey - ключ для значения без пары в конце списка
const orphanValueKey = "extra"

// pkgLogger пишет логи pkg/rabbitmq через LoggerPort приложения
type pkgLogger struct {
	log port.LoggerPort
}

func NewPkgLoggerBridge(logger port.LoggerPort) rabbitmq_common.Logger {
	return pkgLogger{log: logger}
}

// pairsToFields превращает key, value, ... в Fields.
// Нестроковый ключ приводится к строке, последнее значение без пары уходит в "extra".
func pairsToFields(kv []interface{}) port.Fields {
	if len(kv) == 0 {
		return nil
	}
	fields := make(port.Fields, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			fields[orphanValueKey] = kv[i]
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields[key] = kv[i+1]
	}
	return fields
}

func (l pkgLogger) Debug(msg string, kv ...interface{}) { l.log.Debug(msg, pairsToFields(kv)) }
func (l pkgLogger) Info(msg string, kv ...interface{})  { l.log.Info(msg, pairsToFields(kv)) }
func (l pkgLogger) Warn(msg string, kv ...interface{})  { l.log.Warn(msg, pairsToFields(kv)) }

func (l pkgLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.Error(msg, err, pairsToFields(kv))
}
