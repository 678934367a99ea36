package myhttpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/bookingbackend/lib/mylog"
)

func TestSend(t *testing.T) {
	logger := mylog.NewWriterLogger("httpclient", io.Discard)

	t.Run("Round trip with headers and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Equal(t, "abc", r.Header.Get("X-Custom"))
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, `{"a":1}`, string(body))

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		sut := NewJSONHTTPClient(time.Second, logger)
		status, body, err := sut.Send(context.TODO(), http.MethodPost, server.URL+"/x", map[string]string{"X-Custom": "abc"}, []byte(`{"a":1}`))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, status)
		assert.Equal(t, `{"ok":true}`, string(body))
	})

	t.Run("Non-success status is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`bad signature`))
		}))
		defer server.Close()

		sut := NewJSONHTTPClient(time.Second, logger)
		status, body, err := sut.Send(context.TODO(), http.MethodGet, server.URL, nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "bad signature", string(body))
	})

	t.Run("Timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		sut := NewJSONHTTPClient(20*time.Millisecond, logger)
		status, _, err := sut.Send(context.TODO(), http.MethodGet, server.URL, nil, nil)
		assert.Error(t, err)
		assert.Equal(t, 0, status)
	})
}
