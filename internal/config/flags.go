package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/afactura/internal/flagx"
)

var knownFlags = []string{
	"-db", "-backup-dir", "-export-dir",
	"-log-level", "-log-format",
	"-user", "-series",
	"-s3-bucket", "-s3-prefix", "-s3-region", "-s3-endpoint",
}

// parseFlags overlays cfg with the command-line flags it knows about.
// Other arguments are ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("afactura", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "SQLite database file")
	fs.StringVar(&cfg.BackupDir, "backup-dir", cfg.BackupDir, "directory for encrypted backups")
	fs.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "directory for XML/JSON exports")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")
	fs.StringVar(&cfg.DefaultUser, "user", cfg.DefaultUser, "username suggested at login")
	fs.StringVar(&cfg.InvoiceSeries, "series", cfg.InvoiceSeries, "default invoice series")
	fs.StringVar(&cfg.S3.Bucket, "s3-bucket", cfg.S3.Bucket, "upload backups to this S3 bucket")
	fs.StringVar(&cfg.S3.Prefix, "s3-prefix", cfg.S3.Prefix, "S3 key prefix")
	fs.StringVar(&cfg.S3.Region, "s3-region", cfg.S3.Region, "S3 region")
	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", cfg.S3.Endpoint, "custom S3 endpoint")

	return fs.Parse(flagx.FilterArgs(args, knownFlags))
}
