package dashboard

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// LogTelemetry writes telemetry events as structured log entries.
type LogTelemetry struct {
	Logger logrus.FieldLogger
	Level  logrus.Level
}

// NewLogTelemetry records events at debug level on logger.
func NewLogTelemetry(logger logrus.FieldLogger) *LogTelemetry {
	return &LogTelemetry{Logger: normalizeLogger(logger), Level: logrus.DebugLevel}
}

// Record emits one log line per event.
func (t *LogTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	entry := normalizeLogger(t.Logger).WithField("event", event)
	if len(payload) > 0 {
		entry = entry.WithFields(logrus.Fields(payload))
	}
	switch t.Level {
	case logrus.InfoLevel:
		entry.Info("telemetry")
	case logrus.TraceLevel:
		entry.Trace("telemetry")
	default:
		entry.Debug("telemetry")
	}
}

func normalizeLogger(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger == nil {
		return discardLogger()
	}
	return logger
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
