package export

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	exportNow = time.Date(2025, 4, 2, 15, 4, 5, 0, time.UTC)
	company   = models.CompanyProfile{
		Name:    "Kwanza & Filhos, Lda",
		NIF:     "5000000001",
		Address: "Rua <Principal> 1",
		Regime:  models.RegimeGeneral,
	}
)

func sampleInvoice() models.Invoice {
	inv := models.Invoice{
		ID:            "inv-1",
		Series:        "2025A",
		Number:        7,
		Type:          models.DocInvoice,
		Date:          time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 4, 14, 10, 30, 0, 0, time.UTC),
		ClientID:      "c2",
		ClientName:    "Empresa Exemplo SA",
		ClientNIF:     "5401112221",
		Currency:      models.Currency,
		Status:        models.StatusIssued,
		PaymentMethod: models.PaymentBankTransfer,
		Items: []models.InvoiceItem{
			{ID: "it-1", Description: "Consultoria", Quantity: 2, UnitPrice: 1000, TaxRate: models.TaxStandard},
			{ID: "it-2", Description: "Cesta básica", Quantity: 1.5, UnitPrice: 200, TaxRate: models.TaxExempt},
			{ID: "it-3", Description: "Livros", Quantity: 1, UnitPrice: 100, TaxRate: models.TaxReduced},
		},
		AuditTrail: []models.AuditLog{
			{Action: "CREATED", User: "ana", Timestamp: time.Date(2025, 3, 15, 10, 30, 1, 0, time.UTC), Detail: "Invoice created"},
		},
	}
	inv.Recalculate()
	return inv
}

type parsedLine struct {
	TaxCode            string `xml:"Tax>TaxCode"`
	TaxPercentage      int    `xml:"Tax>TaxPercentage"`
	TaxExemptionReason string `xml:"TaxExemptionReason"`
	CreditAmount       string `xml:"CreditAmount"`
	Quantity           string `xml:"Quantity"`
}

type parsed struct {
	XMLName     xml.Name
	CompanyName string `xml:"Header>CompanyName"`
	Address     string `xml:"Header>CompanyAddress>AddressDetail"`
	FiscalYear  int    `xml:"Header>FiscalYear"`
	Invoice     struct {
		InvoiceNo     string       `xml:"InvoiceNo"`
		Status        string       `xml:"DocumentStatus>InvoiceStatus"`
		StatusDate    string       `xml:"DocumentStatus>InvoiceStatusDate"`
		StatusSource  string       `xml:"DocumentStatus>SourceID"`
		Hash          string       `xml:"Hash"`
		Period        int          `xml:"Period"`
		Lines         []parsedLine `xml:"Line"`
		GrossTotal    string       `xml:"DocumentTotals>GrossTotal"`
		TaxPayable    string       `xml:"DocumentTotals>TaxPayable"`
		NetTotal      string       `xml:"DocumentTotals>NetTotal"`
		SystemEntered string       `xml:"SystemEntryDate"`
	} `xml:"SourceDocuments>SalesInvoices>Invoice"`
}

func TestXML(t *testing.T) {
	out, err := XML(sampleInvoice(), company, exportNow)
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, s, `<AuditFile xmlns="urn:OECD:StandardAuditFile-Tax:AO_1.01_01">`)
	assert.Contains(t, s, "Kwanza &amp; Filhos, Lda")
	assert.Contains(t, s, "Rua &lt;Principal&gt; 1")

	var p parsed
	require.NoError(t, xml.Unmarshal(out, &p))
	assert.Equal(t, Namespace, p.XMLName.Space)
	assert.Equal(t, "Kwanza & Filhos, Lda", p.CompanyName)
	assert.Equal(t, "Rua <Principal> 1", p.Address)
	assert.Equal(t, 2025, p.FiscalYear)

	inv := p.Invoice
	assert.Equal(t, "2025A/7", inv.InvoiceNo)
	assert.Equal(t, "N", inv.Status)
	assert.Equal(t, "2025-04-02T15:04:05.000Z", inv.StatusDate)
	assert.Equal(t, "ana", inv.StatusSource)
	assert.Equal(t, "0", inv.Hash)
	assert.Equal(t, 3, inv.Period)
	assert.Equal(t, "2025-03-15T10:30:00.000Z", inv.SystemEntered)

	require.Len(t, inv.Lines, 3)
	assert.Equal(t, "NOR", inv.Lines[0].TaxCode)
	assert.Equal(t, "2000.00", inv.Lines[0].CreditAmount)
	assert.Empty(t, inv.Lines[0].TaxExemptionReason)
	assert.Equal(t, "ISE", inv.Lines[1].TaxCode)
	assert.Equal(t, "1.5", inv.Lines[1].Quantity)
	assert.Equal(t, models.DefaultExemptionReason, inv.Lines[1].TaxExemptionReason)
	assert.Equal(t, "RED", inv.Lines[2].TaxCode)
	assert.Equal(t, 7, inv.Lines[2].TaxPercentage)

	// 2000 + 300 + 100 net; 280 + 0 + 7 tax
	assert.Equal(t, "2400.00", inv.NetTotal)
	assert.Equal(t, "287.00", inv.TaxPayable)
	assert.Equal(t, "2687.00", inv.GrossTotal)
}

func TestXML_CancelledAndHashed(t *testing.T) {
	inv := sampleInvoice()
	inv.Status = models.StatusCancelled
	inv.Hash = "abc123"
	inv.AuditTrail = nil
	inv.Items[1].ExemptionReason = "M02 - Transmissão de bens e serviço não sujeita"

	out, err := XML(inv, company, exportNow)
	require.NoError(t, err)

	var p parsed
	require.NoError(t, xml.Unmarshal(out, &p))
	assert.Equal(t, "A", p.Invoice.Status)
	assert.Equal(t, "abc123", p.Invoice.Hash)
	assert.Equal(t, "System", p.Invoice.StatusSource)
	assert.Equal(t, "M02 - Transmissão de bens e serviço não sujeita", p.Invoice.Lines[1].TaxExemptionReason)
}

func TestJSON(t *testing.T) {
	out, err := JSON(sampleInvoice(), company, exportNow)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"header\": {")

	var got map[string]map[string]any
	// lines is an array; decode it separately
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &raw))
	assert.ElementsMatch(t, []string{"header", "customer", "document", "lines", "totals", "audit"}, keys(raw))

	delete(raw, "lines")
	trimmed, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(trimmed, &got))

	assert.Equal(t, "2025A/7", got["header"]["invoiceNo"])
	assert.Nil(t, got["header"]["hash"])
	assert.Equal(t, "Emitida", got["header"]["status"])
	assert.Equal(t, "5401112221", got["customer"]["nif"])
	_, hasAddress := got["customer"]["address"]
	assert.False(t, hasAddress)
	assert.Equal(t, "Transferência", got["document"]["paymentMethod"])
	assert.Equal(t, 2687.0, got["totals"]["grossTotal"])
	assert.Equal(t, "2025-03-15T10:30:01Z", got["audit"]["createdAt"])
	assert.Equal(t, "AFACTURA", got["audit"]["source"])
}

func TestJSON_NoTrailUsesNow(t *testing.T) {
	inv := sampleInvoice()
	inv.AuditTrail = nil
	inv.Hash = "h"

	out, err := JSON(inv, company, exportNow)
	require.NoError(t, err)

	var p jsonPayload
	require.NoError(t, json.Unmarshal(out, &p))
	assert.True(t, p.Audit.CreatedAt.Equal(exportNow))
	require.NotNil(t, p.Header.Hash)
	assert.Equal(t, "h", *p.Header.Hash)
	require.Len(t, p.Lines, 3)
	assert.Equal(t, 2, p.Lines[1].LineNumber)
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXML, f)

	f, err = ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("pdf")
	require.Error(t, err)

	_, err = Render(Format("pdf"), sampleInvoice(), company, exportNow)
	require.Error(t, err)
}

func TestFileNameAndWrite(t *testing.T) {
	inv := sampleInvoice()
	inv.Series = "FT 2025/A"
	assert.Equal(t, "FT 2025-A_7.json", FileName(inv, FormatJSON))

	dir := filepath.Join(t.TempDir(), "exports")
	p, err := WriteFile(dir, FileName(inv, FormatXML), []byte("<x/>"))
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "<x/>", string(data))
}
