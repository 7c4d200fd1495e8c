package defaults

import (
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	TraceProvider = noop.NewTracerProvider()
)
