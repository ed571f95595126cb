// Package rpc is the wire contract of the familyvault.Vault gRPC service,
// shared by the server and the client. Messages are plain Go structs carried
// by a JSON codec registered under the "json" content subtype, so no
// generated code is involved.
package rpc
