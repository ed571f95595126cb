package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/flagx"
	"github.com/dmitrijs2005/familyvault/internal/timex"
)

// parseFlags overlays cfg with the client flags found in os.Args and panics
// on a malformed value.
func parseFlags(cfg *Config) {
	if err := applyFlags(cfg, os.Args[1:]); err != nil {
		panic(err)
	}
}

func applyFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "server gRPC address")
	fs.Var(timex.FlagValue(&cfg.RequestTimeout, time.Second), "t", "request timeout")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return flagx.ParseKnown(fs, args)
}
