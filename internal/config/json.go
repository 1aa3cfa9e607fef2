package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/afactura/internal/flagx"
	"github.com/dmitrijs2005/afactura/internal/timex"
)

// JsonConfig is the on-disk form of Config. Zero values leave the current
// setting unchanged.
type JsonConfig struct {
	DatabasePath      string         `json:"database_path"`
	BackupDir         string         `json:"backup_dir"`
	ExportDir         string         `json:"export_dir"`
	LogLevel          string         `json:"log_level"`
	LogFormat         string         `json:"log_format"`
	DefaultUser       string         `json:"default_user"`
	InvoiceSeries     string         `json:"invoice_series"`
	AuditQueueSize    int            `json:"audit_queue_size"`
	AuditWriteTimeout timex.Duration `json:"audit_write_timeout"`
	S3                JsonS3         `json:"s3"`
}

type JsonS3 struct {
	Bucket    string `json:"bucket"`
	Prefix    string `json:"prefix"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with the file named by -c or -config.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.BackupDir, jc.BackupDir)
	setString(&cfg.ExportDir, jc.ExportDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.DefaultUser, jc.DefaultUser)
	setString(&cfg.InvoiceSeries, jc.InvoiceSeries)
	if jc.AuditQueueSize != 0 {
		cfg.AuditQueueSize = jc.AuditQueueSize
	}
	if jc.AuditWriteTimeout.Duration != 0 {
		cfg.AuditWriteTimeout = jc.AuditWriteTimeout.Duration
	}

	setString(&cfg.S3.Bucket, jc.S3.Bucket)
	setString(&cfg.S3.Prefix, jc.S3.Prefix)
	setString(&cfg.S3.Region, jc.S3.Region)
	setString(&cfg.S3.Endpoint, jc.S3.Endpoint)
	setString(&cfg.S3.AccessKey, jc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, jc.S3.SecretKey)
	return nil
}
