// Package starwars is a client for the Star Wars example schema, generated
// with cmd/gqlclient.
package starwars

//go:generate go run ../../cmd/gqlclient generate -schema schema.graphql -out client_gen.go
