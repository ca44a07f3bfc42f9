package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Path is the streaming chat endpoint, relative to the base URL.
const Path = "/api/chat/stream"

// StatusError is returned when the endpoint answers with anything but 200.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("stream connection failed: %s", e.Status)
}

// Request is one user turn.
type Request struct {
	ID         string
	Message    string
	ShowStages bool
}

type Client struct {
	http     *http.Client
	endpoint string
	log      zerolog.Logger
}

// New returns a client for the chat endpoint under base. timeout bounds the
// wait for the response headers only; the body stays open for as long as the
// answer takes to stream and type out, and a stalled body is ended by
// cancelling ctx.
func New(base *url.URL, headers map[string]string, timeout time.Duration, log zerolog.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout

	// Create http client
	client := &http.Client{
		Transport: AuthMiddleware{
			Headers: headers,
			Proxied: transport,
		},
	}

	return &Client{
		http:     client,
		endpoint: base.JoinPath(Path).String(),
		log:      log,
	}
}

// Stream posts the message and consumes the response until the body ends.
// Any non-nil error means the turn failed at the transport level.
func (c *Client) Stream(ctx context.Context, req Request, h Handler) error {
	body, err := json.Marshal(map[string]string{"message": req.Message})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if req.ID != "" {
		httpReq.Header.Set("X-Request-ID", req.ID)
	}

	log := c.log.With().Str("request_id", req.ID).Logger()
	log.Debug().Str("endpoint", c.endpoint).Bool("stages", req.ShowStages).Msg("opening stream")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("post %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
		}
	}

	h.Open()

	if err := Consume(ctx, resp.Body, req.ShowStages, h, log); err != nil {
		return err
	}

	log.Debug().Msg("stream closed")
	return nil
}

// AuthMiddleware adds fixed headers, usually credentials for a proxy in
// front of the backend, to every request.
type AuthMiddleware struct {
	Headers map[string]string
	Proxied http.RoundTripper
}

func (am AuthMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range am.Headers {
		req.Header.Add(k, v)
	}

	return am.Proxied.RoundTrip(req)
}
