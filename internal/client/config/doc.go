// Package config loads the settings of the Family Vault command-line client.
//
// Values are layered: defaults from (*Config).LoadDefaults, then an optional
// JSON or YAML file named by -c/-config or FAMILYVAULT_CONFIG, then flags.
//
//	-a   server gRPC address
//	-t   request timeout, seconds or a Go duration
//	-o   download directory
//	-l   log level
//
// File example:
//
//	server_endpoint_addr: 127.0.0.1:50051
//	request_timeout: 10s
//	download_dir: downloads
//	log_level: warn
package config
