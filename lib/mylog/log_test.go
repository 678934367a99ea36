package mylog

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWriterLogger("catalog", buf)

	logger.Log(context.TODO(), "sess-1", SeverityWarn, "upstream %s returned %d", "cart-add", 500)

	line := buf.String()
	assert.Contains(t, line, "WARN")
	assert.Contains(t, line, "catalog - sess-1 - upstream cart-add returned 500")
}

func TestStructuredEntry(t *testing.T) {
	e := entry{
		Component: "checkout",
		Labels:    labels("sess-1"),
		Severity:  string(SeverityInfo),
		Message:   "checkout: started",
	}

	decoded := map[string]any{}
	err := json.Unmarshal([]byte(e.String()), &decoded)
	assert.NoError(t, err)
	assert.Equal(t, "INFO", decoded["severity"])
	assert.Equal(t, map[string]any{"aggregate": "sess-1"}, decoded["logging.googleapis.com/labels"])
	assert.Nil(t, labels(""))
}
