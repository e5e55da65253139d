package logging

import "go.uber.org/zap"

// zapLogger adapts a *zap.SugaredLogger, scoped to a module field, to
// the Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l *zapLogger) Debug(msg string) { l.s.Debug(msg) }
func (l *zapLogger) Info(msg string)  { l.s.Info(msg) }
func (l *zapLogger) Warn(msg string)  { l.s.Warn(msg) }
func (l *zapLogger) Error(msg string) { l.s.Error(msg) }

func (l *zapLogger) Debugw(msg string, kv ...interface{}) {
	l.s.Debugw(msg, kv...)
}

// NewZapFactory builds a LoggerFactory backed by base, tagging every
// emitted log line with a "module" field. This is what the CLI installs
// on its root context once --log-level is parsed.
func NewZapFactory(base *zap.Logger) LoggerFactory {
	return func(module string) Logger {
		return &zapLogger{s: base.Sugar().With("module", module)}
	}
}
