package selection

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Response is a GraphQL response body.
type Response struct {
	Data       json.RawMessage `json:"data,omitempty"`
	Errors     gqlerror.List   `json:"errors,omitempty"`
	Extensions map[string]any  `json:"extensions,omitempty"`
}

// ParseResponse parses a response body. A body that is not a JSON object
// fails with an error matching ErrDecode.
func ParseResponse(body []byte) (*Response, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var r Response
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: invalid response body: %v", ErrDecode, err)
	}
	return &r, nil
}

// Decode decodes the data object of a response with s.
func Decode[O, A any](s Selection[O, A], data map[string]any) (A, error) {
	if s.err != nil {
		var zero A
		return zero, s.err
	}
	return s.run(nil, data)
}

// DecodeResponse parses body and decodes its data with s. A non-empty errors
// list is returned as a ServerError without decoding data.
func DecodeResponse[O, A any](s Selection[O, A], body []byte) (A, error) {
	var zero A
	r, err := ParseResponse(body)
	if err != nil {
		return zero, err
	}
	if len(r.Errors) > 0 {
		return zero, &ServerError{Errors: r.Errors, Data: r.Data}
	}
	if len(r.Data) == 0 || bytes.Equal(bytes.TrimSpace(r.Data), []byte("null")) {
		return zero, &MissingFieldError{Path: Path{"data"}, Field: "data"}
	}
	dec := json.NewDecoder(bytes.NewReader(r.Data))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return zero, &TypeMismatchError{Path: Path{"data"}, Expected: "object", Actual: jsonKindOf(r.Data)}
	}
	return Decode(s, data)
}

func jsonKindOf(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "invalid JSON"
	}
	return jsonKind(v)
}
