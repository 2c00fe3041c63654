// Package selection implements typed, composable GraphQL selections and the
// pipeline that turns them into wire documents and decodes responses back
// into Go values.
//
// # Overview
//
// A Selection[O, A] requests a set of fields on the GraphQL type O and
// decodes the response object of that type into an A. O is a phantom origin
// tag: generated code declares one empty struct per object, interface and
// union type, and the roots map to RootQuery and RootMutation. Because the
// origin is part of the Go type, combining selections that target different
// types is rejected by the compiler.
//
// Selections are built from accessors emitted by the code generator
// (cmd/gqlclient) and composed with:
//
//   - Field: a leaf or object field with its decode rule and arguments.
//   - Combine: two selections on the same origin, decoded into a Pair.
//   - Map, MapErr, Map2, Map3, Map4: transforms of decoded results.
//   - OnType and On: dispatch on the server reported __typename for unions
//     and interfaces.
//
// Internally a selection is a flat ordered list of request nodes plus a
// decode function. Combine concatenates the lists, so the emitted query text
// is the same for every grouping of a chain of combinations; only the shape
// of the decoded Pair differs.
//
// # Requests
//
// Build walks the nodes once, in declaration order, and produces a
// WireDocument. Arguments are rendered inline as GraphQL literals, or, with
// UseVariables, as one variable per bound argument with the values carried
// in the ordered Variables payload. Building is deterministic: the same
// selection and options always yield byte-identical documents.
//
// # Responses
//
// Decode and DecodeResponse walk the selection and the response object in
// lock-step, keyed by response key (alias or field name). Decoding stops at
// the first failure and reports it as one of MissingFieldError,
// UnexpectedNullError, TypeMismatchError, UnknownVariantError or
// TransformError, each carrying the response Path. Every decode failure
// matches ErrDecode. A response whose errors list is non-empty yields a
// ServerError and its data is not decoded.
//
// Nothing in this package performs I/O or holds shared mutable state; see
// package client for the HTTP transport.
package selection
