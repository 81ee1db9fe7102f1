package core

import "context"

// Telemetry is the tracing contract consumed by the orchestration
// packages. The telemetry package provides the OpenTelemetry
// implementation; NoOpTelemetry keeps tracing optional.
type Telemetry interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
	Shutdown(ctx context.Context) error
}

// Span represents one traced operation.
type Span interface {
	End()
	SetAttribute(key string, value interface{})
	AddEvent(name string)
	RecordError(err error)
}

// NoOpTelemetry discards all spans.
type NoOpTelemetry struct{}

func (n *NoOpTelemetry) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	return ctx, &noopSpan{}
}

func (n *NoOpTelemetry) Shutdown(ctx context.Context) error { return nil }

type noopSpan struct{}

func (s *noopSpan) End()                                       {}
func (s *noopSpan) SetAttribute(key string, value interface{}) {}
func (s *noopSpan) AddEvent(name string)                       {}
func (s *noopSpan) RecordError(err error)                      {}
