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

// FileConfig is the on-disk form of Config. Durations use timex.Duration so
// both "10m" and integer nanoseconds are accepted. Zero values leave the
// corresponding Config field untouched.
type FileConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	EndpointAddrHTTP             string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	NomineeTokenValidityDuration timex.Duration `json:"nominee_token_validity_duration" yaml:"nominee_token_validity_duration"`
	OTPValidity                  timex.Duration `json:"otp_validity" yaml:"otp_validity"`
	MaxOTPAttempts               int            `json:"max_otp_attempts" yaml:"max_otp_attempts"`
	S3RootUser                   string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                     string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	SMTPHost                     string         `json:"smtp_host" yaml:"smtp_host"`
	SMTPPort                     int            `json:"smtp_port" yaml:"smtp_port"`
	SMTPUser                     string         `json:"smtp_user" yaml:"smtp_user"`
	SMTPPassword                 string         `json:"smtp_password" yaml:"smtp_password"`
	SMTPTimeout                  timex.Duration `json:"smtp_timeout" yaml:"smtp_timeout"`
	MailFrom                     string         `json:"mail_from" yaml:"mail_from"`
	MailReplyTo                  string         `json:"mail_reply_to" yaml:"mail_reply_to"`
	PublicBaseURL                string         `json:"public_base_url" yaml:"public_base_url"`
	NomineeEmailDomain           string         `json:"nominee_email_domain" yaml:"nominee_email_domain"`
	LogLevel                     string         `json:"log_level" yaml:"log_level"`
}

// parseFile loads configuration values from the file named by -c/-config
// (or FAMILYVAULT_CONFIG) into config. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
//
// If the file cannot be read or decoded, the function panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.MailReplyTo, c.MailReplyTo)
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	setString(&config.NomineeEmailDomain, c.NomineeEmailDomain)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.NomineeTokenValidityDuration.Duration != 0 {
		config.NomineeTokenValidityDuration = c.NomineeTokenValidityDuration.Duration
	}
	if c.OTPValidity.Duration != 0 {
		config.OTPValidity = c.OTPValidity.Duration
	}
	if c.MaxOTPAttempts != 0 {
		config.MaxOTPAttempts = c.MaxOTPAttempts
	}
	if c.SMTPTimeout.Duration != 0 {
		config.SMTPTimeout = c.SMTPTimeout.Duration
	}
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
}
