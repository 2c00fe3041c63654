package events

import (
	"net/http"
	"time"
)

// RequestStart is emitted before an HTTP request is sent to an endpoint.
type RequestStart struct {
	Request *http.Request
}

// RequestFinish is emitted when the response body was read or the request
// failed. Status is zero when no response was received.
type RequestFinish struct {
	Request  *http.Request
	Status   int
	Bytes    int
	Err      error
	Duration time.Duration
}
