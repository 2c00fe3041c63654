package events

import "time"

// OperationStart is emitted before a GraphQL operation is sent.
type OperationStart struct {
	Endpoint      string
	OperationName string
	// OperationType is "query" or "mutation".
	OperationType string
	Query         string
}

// OperationFinish is emitted after the response of an operation was decoded
// or the operation failed.
type OperationFinish struct {
	Endpoint      string
	OperationName string
	OperationType string
	// ServerErrors is the number of entries in the response errors list.
	ServerErrors int
	Err          error
	Duration     time.Duration
}
