package export

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Transport delivers one serialized document and reports the HTTP
// status the collector answered with. A non-nil error means the request
// never produced a status (connection refused, timeout, canceled
// context) and the status value is meaningless.
type Transport interface {
	Send(ctx context.Context, body []byte) (int, error)
}

// HTTPTransport posts documents to {endpoint}/v1/traces.
type HTTPTransport struct {
	client  *resty.Client
	url     string
	headers map[string]string
}

// NewHTTPTransport builds a transport for the collector at endpoint.
// The static headers are merged into every request. Retry is handled by
// the Exporter, so the underlying client never retries on its own.
func NewHTTPTransport(endpoint string, timeout time.Duration, headers map[string]string) *HTTPTransport {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)

	return &HTTPTransport{
		client:  client,
		url:     strings.TrimRight(endpoint, "/") + "/v1/traces",
		headers: headers,
	}
}

func (t *HTTPTransport) Send(ctx context.Context, body []byte) (int, error) {
	req := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	for k, v := range t.headers {
		req.SetHeader(k, v)
	}

	resp, err := req.Post(t.url)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode(), nil
}
