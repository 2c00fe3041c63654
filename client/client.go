// Package client sends documents built by package selection to a GraphQL
// endpoint over HTTP and decodes the responses.
//
// Operation and request events go to the process wide event bus of the
// gqlclient command. Library users trace a client with WithTracer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hanpama/gqlclient/internal/eventbus"
	"github.com/hanpama/gqlclient/internal/events"
	"github.com/hanpama/gqlclient/internal/otel"
	"github.com/hanpama/gqlclient/internal/reqid"
	"github.com/hanpama/gqlclient/selection"
)

// TransportError reports a failure to obtain a GraphQL response from the
// endpoint: connection errors, cancellation, oversized bodies and non-2xx
// responses whose body is not a GraphQL response.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

var errBodyTooLarge = errors.New("response body too large")

// Client posts GraphQL documents. It is safe for concurrent use.
type Client struct {
	opts Options
	// bus carries events to the client's own tracer, nil without one.
	bus *eventbus.Bus
}

// New returns a Client configured by opts.
func New(opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Client{opts: o}
	if o.Tracer != nil {
		c.bus = eventbus.New()
		otel.Attach(c.bus, o.Tracer)
	}
	return c
}

func publish[T any](ctx context.Context, c *Client, e T) {
	eventbus.Publish(ctx, e)
	if c.bus != nil {
		eventbus.Emit(ctx, c.bus, e)
	}
}

// Do posts doc to endpoint and returns the response body.
func (c *Client) Do(ctx context.Context, endpoint string, doc selection.WireDocument) ([]byte, error) {
	ctx, id := reqid.Ensure(ctx)
	if _, ok := ctx.Deadline(); !ok && c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	for name, values := range c.opts.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/graphql-response+json, application/json")
	}
	req.Header.Set(reqid.Header, reqid.Format(id))

	start := time.Now()
	publish(ctx, c, events.RequestStart{Request: req})
	body, status, err := c.roundTrip(req)
	publish(ctx, c, events.RequestFinish{
		Request:  req,
		Status:   status,
		Bytes:    len(body),
		Err:      err,
		Duration: time.Since(start),
	})
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: status, Err: err}
	}
	return body, nil
}

func (c *Client) roundTrip(req *http.Request) ([]byte, int, error) {
	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodyBytes+1))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if int64(len(body)) > c.opts.MaxBodyBytes {
		return nil, resp.StatusCode, errBodyTooLarge
	}
	if resp.StatusCode/100 != 2 && !isGraphQLResponse(body) {
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return body, resp.StatusCode, nil
}

// isGraphQLResponse reports whether body carries data or errors, as servers
// following the GraphQL over HTTP draft do on 4xx responses.
func isGraphQLResponse(body []byte) bool {
	r, err := selection.ParseResponse(body)
	return err == nil && (len(r.Errors) > 0 || len(r.Data) > 0)
}
