package export

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/afactura/internal/filex"
	"github.com/dmitrijs2005/afactura/internal/models"
)

type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "xml" or "json", case-insensitively. Empty means XML.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXML:
		return FormatXML, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Render produces the export of inv in format f.
func Render(f Format, inv models.Invoice, company models.CompanyProfile, now time.Time) ([]byte, error) {
	switch f {
	case FormatXML:
		return XML(inv, company, now)
	case FormatJSON:
		return JSON(inv, company, now)
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// FileName is "<series>_<number>.<ext>", with path separators in the
// series replaced.
func FileName(inv models.Invoice, f Format) string {
	series := strings.NewReplacer("/", "-", `\`, "-").Replace(inv.Series)
	return series + "_" + strconv.Itoa(inv.Number) + "." + string(f)
}

// WriteFile stores an export under dir and returns its path.
func WriteFile(dir, name string, data []byte) (string, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}
	p := filepath.Join(abs, name)
	if err := filex.WriteFileAtomic(p, data, 0o644); err != nil {
		return "", err
	}
	return p, nil
}
