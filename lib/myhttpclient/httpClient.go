package myhttpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MarcGrol/bookingbackend/lib/mylog"
)

const (
	defaultTimeout = 10 * time.Second
)

type jsonHTTPClient struct {
	client *http.Client
	logger mylog.Logger
}

// NewJSONHTTPClient creates a sender whose every request is bounded by timeout
func NewJSONHTTPClient(timeout time.Duration, logger mylog.Logger) HTTPSender {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &jsonHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (hc *jsonHTTPClient) Send(c context.Context, method string, url string, headers map[string]string, body []byte) (int, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(c, method, url, bodyReader)
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error creating http request for %s %s: %s", method, url, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	for name, value := range headers {
		httpReq.Header.Set(name, value)
	}

	// Headers are not logged: they carry credentials
	hc.logger.Log(c, "", mylog.SeverityDebug, "HTTP request: %s %s", method, url)

	started := time.Now()
	httpResp, err := hc.client.Do(httpReq)
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error sending %s %s: %s", method, url, err)
	}
	defer httpResp.Body.Close()

	respPayload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error reading response %s %s: %s", method, url, err)
	}

	hc.logger.Log(c, "", mylog.SeverityDebug, "HTTP resp: %s %s -> %d (%s)", method, url, httpResp.StatusCode, time.Since(started))

	return httpResp.StatusCode, respPayload, nil
}
