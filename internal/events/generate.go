package events

import "time"

// GenerateStart is emitted when the code generator starts on a schema.
type GenerateStart struct {
	Schema  string
	Package string
}

// GenerateFinish is emitted after generation completed or failed.
type GenerateFinish struct {
	Schema   string
	Package  string
	Types    int
	Bytes    int
	Err      error
	Duration time.Duration
}
