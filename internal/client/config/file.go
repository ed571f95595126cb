package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/familyvault/internal/flagx"
	"github.com/dmitrijs2005/familyvault/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Zero values leave the
// corresponding Config field untouched.
type FileConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	DownloadDir        string         `json:"download_dir" yaml:"download_dir"`
	LogLevel           string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with values from the file named by -c/-config (or
// FAMILYVAULT_CONFIG). Files ending in .yaml or .yml are decoded as YAML,
// everything else as JSON. Panics on read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	if fc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	}
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.DownloadDir != "" {
		cfg.DownloadDir = fc.DownloadDir
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
}
