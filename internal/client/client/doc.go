// Package client is the gRPC client of the Family Vault API.
//
// GRPCClient speaks the JSON codec registered by package rpc, injects the
// owner access token from a TokenStore on every call, refreshes it once when
// the server reports it expired, and maps status codes back to the sentinel
// errors of package common so callers can use errors.Is.
//
// Every call is bounded by the configured request timeout.
package client
