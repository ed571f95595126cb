package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/flagx"
	"github.com/dmitrijs2005/familyvault/internal/timex"
)

// parseFlags overlays cfg with the server flags found in os.Args and panics
// on a malformed value. Duration flags take a number of minutes or a Go
// duration.
func parseFlags(cfg *Config) {
	if err := applyFlags(cfg, os.Args[1:]); err != nil {
		panic(err)
	}
}

func applyFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.EndpointAddrGRPC, "a", cfg.EndpointAddrGRPC, "gRPC listen address")
	fs.StringVar(&cfg.EndpointAddrHTTP, "http", cfg.EndpointAddrHTTP, "HTTP function endpoints listen address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "JWT signing secret")
	fs.Var(timex.FlagValue(&cfg.AccessTokenValidityDuration, time.Minute), "t", "access token lifetime")
	fs.Var(timex.FlagValue(&cfg.RefreshTokenValidityDuration, time.Minute), "r", "refresh token lifetime")
	fs.Var(timex.FlagValue(&cfg.OTPValidity, time.Minute), "otp-ttl", "one-time password lifetime")
	fs.IntVar(&cfg.MaxOTPAttempts, "otp-attempts", cfg.MaxOTPAttempts, "failed code attempts before a code is discarded")

	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 access key")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 secret key")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 endpoint")

	fs.StringVar(&cfg.SMTPHost, "smtp", cfg.SMTPHost, "SMTP relay host, empty logs mail instead")
	fs.StringVar(&cfg.PublicBaseURL, "public-url", cfg.PublicBaseURL, "external URL used in invitation links")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return flagx.ParseKnown(fs, args)
}
