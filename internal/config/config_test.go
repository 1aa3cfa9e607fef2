package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "afactura.db", c.DatabasePath)
	assert.Equal(t, "2025A", c.InvoiceSeries)
	assert.Equal(t, 64, c.AuditQueueSize)
	assert.Equal(t, 5*time.Second, c.AuditWriteTimeout)
	assert.False(t, c.S3.Enabled())
	require.NoError(t, c.Validate())
}

func TestLoadConfig_NoArgsGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	want := defaults()
	if diff := cmp.Diff(&want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func writeJSON(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "afactura.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeJSON(t, `{
		"database_path": "from-json.db",
		"log_level": "debug",
		"audit_write_timeout": "2s",
		"audit_queue_size": 8,
		"s3": {"bucket": "json-bucket", "access_key": "AK", "secret_key": "SK"}
	}`)

	cfg, err := LoadConfig([]string{"-c", path, "-db", "from-flag.db", "-s3-prefix", "tenant"})
	require.NoError(t, err)

	want := defaults()
	want.DatabasePath = "from-flag.db"
	want.LogLevel = "debug"
	want.AuditWriteTimeout = 2 * time.Second
	want.AuditQueueSize = 8
	want.S3 = S3{Bucket: "json-bucket", Prefix: "tenant", AccessKey: "AK", SecretKey: "SK"}

	if diff := cmp.Diff(&want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, cfg.S3.Enabled())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-config", writeJSON(t, `{"audit_write_timeout": "later"}`)})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-log-level", "loud"})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-log-format", "xml"})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-c", writeJSON(t, `{"audit_queue_size": -1}`)})
	require.Error(t, err)
}

func TestParseFlags_IgnoresUnknown(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseFlags(&cfg, []string{"-x", "1", "-series", "2026B", "restore", "file.enc"}))
	assert.Equal(t, "2026B", cfg.InvoiceSeries)
}
