package selection

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// ErrDecode is matched by every error reported while decoding a response.
var ErrDecode = errors.New("selection: decode failed")

var errEmptySelection = errors.New("selection: empty selection")

// MissingFieldError reports a required field absent from the response.
type MissingFieldError struct {
	Path  Path
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q at %s", e.Field, e.Path)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrDecode }

// UnexpectedNullError reports a null where the selection requires a value.
type UnexpectedNullError struct {
	Path Path
	// Field is the response key holding the null, empty for list elements.
	Field string
}

func (e *UnexpectedNullError) Error() string {
	return fmt.Sprintf("unexpected null at %s", e.Path)
}

func (e *UnexpectedNullError) Is(target error) bool { return target == ErrDecode }

// UnknownVariantError reports a __typename no variant of OnType handles.
type UnknownVariantError struct {
	Path     Path
	TypeName string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant %q at %s", e.TypeName, e.Path)
}

func (e *UnknownVariantError) Is(target error) bool { return target == ErrDecode }

// TransformError wraps the failure of a MapErr transform.
type TransformError struct {
	Path Path
	Err  error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform at %s: %v", e.Path, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

func (e *TransformError) Is(target error) bool { return target == ErrDecode }

// TypeMismatchError reports a response value of the wrong JSON shape.
type TypeMismatchError struct {
	Path     Path
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch at %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrDecode }

// EncodingError reports an argument value that does not fit its declared
// GraphQL type.
type EncodingError struct {
	Argument string
	// Path is the position inside the argument value, e.g. "filter.ids[2]".
	Path     string
	Expected string
	Actual   string
}

func (e *EncodingError) Error() string {
	loc := e.Argument
	if e.Path != "" {
		loc += "." + e.Path
	}
	return fmt.Sprintf("encode argument %s: expected %s, got %s", loc, e.Expected, e.Actual)
}

// ServerError carries the errors list of a GraphQL response. Data holds the
// raw data member, if any, which is not decoded.
type ServerError struct {
	Errors gqlerror.List
	Data   json.RawMessage
}

func (e *ServerError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Message)
	}
	return "server error: " + strings.Join(msgs, "; ")
}

func isNullAt(err error, p Path) bool {
	var ne *UnexpectedNullError
	return errors.As(err, &ne) && ne.Path.equal(p)
}
