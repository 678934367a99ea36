package mylog

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newStandardLogger
	}
}

type standardLogger struct {
	componentName string
	out           io.Writer
}

func newStandardLogger(componentName string) Logger {
	return NewWriterLogger(componentName, os.Stderr)
}

// NewWriterLogger writes human-readable lines to out
func NewWriterLogger(componentName string, out io.Writer) Logger {
	return standardLogger{
		componentName: componentName,
		out:           out,
	}
}

func (l standardLogger) Log(c context.Context, traceLabel string, severity Severity, format string, a ...any) {
	fmt.Fprintf(l.out, "%s - %-5s - %s - %s - %s\n",
		time.Now().UTC().Format(time.RFC3339), severity, l.componentName, traceLabel, fmt.Sprintf(format, a...))
}
