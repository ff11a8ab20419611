package log

import "testing"

func TestNewProductionLoggerImplementsLogger(t *testing.T) {
	l := NewProductionLogger()
	l.Info("smoke test", "component", "log")
	l.Debug("debug line")
	derived := l.With("request_id", "abc123")
	derived.Warn("derived logger still logs")
}
