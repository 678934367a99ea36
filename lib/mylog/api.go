package mylog

import "context"

type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// New creates a logger for the named component. The implementation depends on the runtime environment.
var New func(componentName string) Logger

type Logger interface {
	// Log writes a single entry. The traceLabel ties entries of the same aggregate (session, activity) together.
	Log(c context.Context, traceLabel string, severity Severity, format string, a ...any)
}
