// Package config loads runtime configuration for afactura.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-db string            SQLite database file
//	-backup-dir string    directory for encrypted backups
//	-export-dir string    directory for XML/JSON exports
//	-log-level string     debug, info, warn or error
//	-log-format string    text or json
//	-user string          username suggested at the login prompt
//	-series string        default invoice series
//	-s3-bucket string     also upload backups to this bucket
//	-s3-prefix string     key prefix inside the bucket
//	-s3-region string     bucket region
//	-s3-endpoint string   custom S3 endpoint (MinIO and the like)
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "5s" or integer
// nanoseconds:
//
//	{
//	  "database_path": "afactura.db",
//	  "backup_dir": "backups",
//	  "export_dir": "exports",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "default_user": "Admin",
//	  "invoice_series": "2025A",
//	  "audit_queue_size": 64,
//	  "audit_write_timeout": "5s",
//	  "s3": {"bucket": "", "prefix": "", "region": "", "endpoint": "",
//	         "access_key": "", "secret_key": ""}
//	}
//
// S3 keys are only read from the file. When they are empty the AWS SDK
// default credential chain applies.
//
// Key derivation and cipher parameters are fixed in code and cannot be
// configured.
package config
