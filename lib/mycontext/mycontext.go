package mycontext

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// CtxTraceContext is a context key for the cloud trace of the incoming request (used by mylog)
type CtxTraceContext struct{}

type ctxUserID struct{}

// ContextFromHTTPRequest derives a context from the request that carries the cloud trace
func ContextFromHTTPRequest(r *http.Request) context.Context {
	trace := ""

	traceParts := strings.Split(r.Header.Get("X-Cloud-Trace-Context"), "/")
	if len(traceParts) > 0 && len(traceParts[0]) > 0 {
		trace = fmt.Sprintf("projects/%s/traces/%s", os.Getenv("GOOGLE_CLOUD_PROJECT"), traceParts[0])
	}

	return context.WithValue(r.Context(), CtxTraceContext{}, trace)
}

func TraceFromContext(c context.Context) string {
	trace, ok := c.Value(CtxTraceContext{}).(string)
	if !ok {
		return ""
	}
	return trace
}

func WithUserID(c context.Context, userID string) context.Context {
	return context.WithValue(c, ctxUserID{}, userID)
}

// UserIDFromContext returns the authenticated user, if any
func UserIDFromContext(c context.Context) (string, bool) {
	userID, ok := c.Value(ctxUserID{}).(string)
	return userID, ok && userID != ""
}
