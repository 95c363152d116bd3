package contract

import (
	"context"
	"strings"

	"github.com/kbukum/apicontract/logger"
)

// Sink receives decode diagnostics. Implementations must not block.
type Sink interface {
	DecodeFailed(ctx context.Context, d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, d Diagnostic)

// DecodeFailed calls f.
func (f SinkFunc) DecodeFailed(ctx context.Context, d Diagnostic) { f(ctx, d) }

// NopSink discards diagnostics.
var NopSink Sink = SinkFunc(func(context.Context, Diagnostic) {})

type logSink struct {
	log *logger.Logger
}

// LogSink writes one warning line per diagnostic to l.
func LogSink(l *logger.Logger) Sink {
	return &logSink{log: l}
}

func (s *logSink) DecodeFailed(_ context.Context, d Diagnostic) {
	fields := logger.RequestFields(d.Method, d.Path)
	fields[logger.FieldDecodeKind] = d.Kind.String()
	fields[logger.FieldCodingPath] = strings.Join(d.CodingPath, " -> ")
	s.log.Warn("decoding error: "+d.String(), fields)
}
