package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// RetryableHTTPLogger adapts a Logger to the leveled logger interface of
// github.com/hashicorp/go-retryablehttp.
type RetryableHTTPLogger struct {
	Logger Logger
}

func (r RetryableHTTPLogger) Error(msg string, keysAndValues ...interface{}) {
	r.Logger.Error(msg, toFields(keysAndValues)...)
}

func (r RetryableHTTPLogger) Info(msg string, keysAndValues ...interface{}) {
	r.Logger.Info(msg, toFields(keysAndValues)...)
}

// Debug is where retryablehttp reports every single request, keep it at debug.
func (r RetryableHTTPLogger) Debug(msg string, keysAndValues ...interface{}) {
	r.Logger.Debug(msg, toFields(keysAndValues)...)
}

func (r RetryableHTTPLogger) Warn(msg string, keysAndValues ...interface{}) {
	r.Logger.Warn(msg, toFields(keysAndValues)...)
}

func toFields(keysAndValues []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 >= len(keysAndValues) {
			fields = append(fields, zap.String("extra", key))
			break
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
