package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/afactura/internal/logging"
)

// S3 configures the optional off-site backup copy.
type S3 struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Enabled reports whether a bucket is configured.
func (s S3) Enabled() bool {
	return s.Bucket != ""
}

// Config holds runtime settings.
type Config struct {
	DatabasePath string
	BackupDir    string
	ExportDir    string

	LogLevel  string
	LogFormat string

	DefaultUser   string
	InvoiceSeries string

	AuditQueueSize    int
	AuditWriteTimeout time.Duration

	S3 S3
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "afactura.db"
	c.BackupDir = "backups"
	c.ExportDir = "exports"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.DefaultUser = "Admin"
	c.InvoiceSeries = "2025A"
	c.AuditQueueSize = 64
	c.AuditWriteTimeout = 5 * time.Second
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database path is empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.AuditQueueSize <= 0 {
		return fmt.Errorf("audit queue size must be positive, got %d", c.AuditQueueSize)
	}
	if c.AuditWriteTimeout <= 0 {
		return fmt.Errorf("audit write timeout must be positive, got %s", c.AuditWriteTimeout)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config in args (if any), then the flags in args. Later sources win.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
