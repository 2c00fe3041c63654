package client

import (
	"context"
	"errors"
	"time"

	"github.com/hanpama/gqlclient/internal/events"
	"github.com/hanpama/gqlclient/internal/reqid"
	"github.com/hanpama/gqlclient/selection"
)

// Request is a built document bound to an endpoint and the decoder of its
// response.
type Request[A any] struct {
	Endpoint string
	Document selection.WireDocument

	decode func(body []byte) (A, error)
}

// ToRequest builds s and binds it to endpoint.
func ToRequest[O selection.Root, A any](s selection.Selection[O, A], endpoint string, opts ...selection.BuildOption) (*Request[A], error) {
	doc, err := selection.Build(s, opts...)
	if err != nil {
		return nil, err
	}
	return &Request[A]{
		Endpoint: endpoint,
		Document: doc,
		decode:   func(body []byte) (A, error) { return selection.DecodeResponse(s, body) },
	}, nil
}

// Send posts the request with c and decodes the response.
func (r *Request[A]) Send(ctx context.Context, c *Client) (A, error) {
	ctx, _ = reqid.Ensure(ctx)
	start := time.Now()
	publish(ctx, c, events.OperationStart{
		Endpoint:      r.Endpoint,
		OperationName: r.Document.OperationName,
		OperationType: r.Document.Operation,
		Query:         r.Document.Query,
	})

	v, err := r.send(ctx, c)

	finish := events.OperationFinish{
		Endpoint:      r.Endpoint,
		OperationName: r.Document.OperationName,
		OperationType: r.Document.Operation,
		Err:           err,
		Duration:      time.Since(start),
	}
	var se *selection.ServerError
	if errors.As(err, &se) {
		finish.ServerErrors = len(se.Errors)
	}
	publish(ctx, c, finish)
	return v, err
}

func (r *Request[A]) send(ctx context.Context, c *Client) (A, error) {
	body, err := c.Do(ctx, r.Endpoint, r.Document)
	if err != nil {
		var zero A
		return zero, err
	}
	return r.decode(body)
}

// Execute builds s, sends it to endpoint and decodes the response.
func Execute[O selection.Root, A any](ctx context.Context, c *Client, endpoint string, s selection.Selection[O, A], opts ...selection.BuildOption) (A, error) {
	req, err := ToRequest(s, endpoint, opts...)
	if err != nil {
		var zero A
		return zero, err
	}
	return req.Send(ctx, c)
}
