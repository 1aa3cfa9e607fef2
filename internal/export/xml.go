// Package export renders invoices for submission to the tax authority:
// a SAF-T (AO) 1.01_01 XML audit file and an equivalent JSON payload.
package export

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/afactura/internal/models"
)

const (
	AuditFileVersion = "1.01_01"
	Namespace        = "urn:OECD:StandardAuditFile-Tax:AO_1.01_01"
	BusinessName     = "AFACTURA"
)

// amount renders with exactly two decimals.
type amount float64

func (a amount) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', 2, 64)), nil
}

// quantity renders without exponent or trailing zeros.
type quantity float64

func (q quantity) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(q), 'f', -1, 64)), nil
}

type auditFile struct {
	XMLName         xml.Name        `xml:"urn:OECD:StandardAuditFile-Tax:AO_1.01_01 AuditFile"`
	Header          header          `xml:"Header"`
	SourceDocuments sourceDocuments `xml:"SourceDocuments"`
}

type header struct {
	AuditFileVersion      string         `xml:"AuditFileVersion"`
	CompanyID             string         `xml:"CompanyID"`
	TaxRegistrationNumber string         `xml:"TaxRegistrationNumber"`
	TaxAccountingBasis    string         `xml:"TaxAccountingBasis"`
	CompanyName           string         `xml:"CompanyName"`
	BusinessName          string         `xml:"BusinessName"`
	CompanyAddress        companyAddress `xml:"CompanyAddress"`
	FiscalYear            int            `xml:"FiscalYear"`
	StartDate             string         `xml:"StartDate"`
	EndDate               string         `xml:"EndDate"`
	CurrencyCode          string         `xml:"CurrencyCode"`
}

type companyAddress struct {
	AddressDetail string `xml:"AddressDetail"`
	City          string `xml:"City"`
	Country       string `xml:"Country"`
}

type sourceDocuments struct {
	Invoices []xmlInvoice `xml:"SalesInvoices>Invoice"`
}

type xmlInvoice struct {
	InvoiceNo       string         `xml:"InvoiceNo"`
	DocumentStatus  documentStatus `xml:"DocumentStatus"`
	Hash            string         `xml:"Hash"`
	HashControl     string         `xml:"HashControl"`
	Period          int            `xml:"Period"`
	InvoiceDate     string         `xml:"InvoiceDate"`
	InvoiceType     string         `xml:"InvoiceType"`
	SourceID        string         `xml:"SourceID"`
	SystemEntryDate string         `xml:"SystemEntryDate"`
	CustomerID      string         `xml:"CustomerID"`
	Lines           []line         `xml:"Line"`
	DocumentTotals  documentTotals `xml:"DocumentTotals"`
}

type documentStatus struct {
	InvoiceStatus     string `xml:"InvoiceStatus"`
	InvoiceStatusDate string `xml:"InvoiceStatusDate"`
	SourceID          string `xml:"SourceID"`
	SourceBilling     string `xml:"SourceBilling"`
}

type line struct {
	LineNumber         int      `xml:"LineNumber"`
	ProductCode        string   `xml:"ProductCode"`
	ProductDescription string   `xml:"ProductDescription"`
	Quantity           quantity `xml:"Quantity"`
	UnitOfMeasure      string   `xml:"UnitOfMeasure"`
	UnitPrice          amount   `xml:"UnitPrice"`
	TaxPointDate       string   `xml:"TaxPointDate"`
	Description        string   `xml:"Description"`
	CreditAmount       amount   `xml:"CreditAmount"`
	Tax                tax      `xml:"Tax"`
	TaxExemptionReason string   `xml:"TaxExemptionReason,omitempty"`
	SettlementAmount   amount   `xml:"SettlementAmount"`
}

type tax struct {
	TaxType          string `xml:"TaxType"`
	TaxCountryRegion string `xml:"TaxCountryRegion"`
	TaxCode          string `xml:"TaxCode"`
	TaxPercentage    int    `xml:"TaxPercentage"`
}

type documentTotals struct {
	TaxPayable amount `xml:"TaxPayable"`
	NetTotal   amount `xml:"NetTotal"`
	GrossTotal amount `xml:"GrossTotal"`
}

const (
	dateLayout    = "2006-01-02"
	isoLayout     = "2006-01-02T15:04:05.000Z"
	defaultSource = "System"
)

func sourceUser(inv models.Invoice) string {
	if len(inv.AuditTrail) > 0 && inv.AuditTrail[0].User != "" {
		return inv.AuditTrail[0].User
	}
	return defaultSource
}

// XML renders inv as a single-invoice SAF-T (AO) audit file. now stamps
// the document status date.
func XML(inv models.Invoice, company models.CompanyProfile, now time.Time) ([]byte, error) {
	date := inv.Date.UTC()
	day := date.Format(dateLayout)

	status := "N"
	if inv.Status == models.StatusCancelled {
		status = "A"
	}
	hash := inv.Hash
	if hash == "" {
		hash = "0"
	}

	lines := make([]line, 0, len(inv.Items))
	for i, it := range inv.Items {
		l := line{
			LineNumber:         i + 1,
			ProductCode:        it.ID,
			ProductDescription: it.Description,
			Quantity:           quantity(it.Quantity),
			UnitOfMeasure:      "UN",
			UnitPrice:          amount(it.UnitPrice),
			TaxPointDate:       day,
			Description:        it.Description,
			CreditAmount:       amount(it.Total),
			Tax: tax{
				TaxType:          "IVA",
				TaxCountryRegion: "AO",
				TaxCode:          it.TaxRate.Code(),
				TaxPercentage:    int(it.TaxRate),
			},
		}
		if it.TaxRate == models.TaxExempt {
			l.TaxExemptionReason = it.ExemptionReason
			if l.TaxExemptionReason == "" {
				l.TaxExemptionReason = models.DefaultExemptionReason
			}
		}
		lines = append(lines, l)
	}

	doc := auditFile{
		Header: header{
			AuditFileVersion:      AuditFileVersion,
			CompanyID:             company.NIF,
			TaxRegistrationNumber: company.NIF,
			TaxAccountingBasis:    "F",
			CompanyName:           company.Name,
			BusinessName:          BusinessName,
			CompanyAddress: companyAddress{
				AddressDetail: company.Address,
				City:          "Luanda",
				Country:       "AO",
			},
			FiscalYear:   date.Year(),
			StartDate:    day,
			EndDate:      day,
			CurrencyCode: models.Currency,
		},
		SourceDocuments: sourceDocuments{Invoices: []xmlInvoice{{
			InvoiceNo: inv.DocumentNo(),
			DocumentStatus: documentStatus{
				InvoiceStatus:     status,
				InvoiceStatusDate: now.UTC().Format(isoLayout),
				SourceID:          sourceUser(inv),
				SourceBilling:     "P",
			},
			Hash:            hash,
			HashControl:     "1",
			Period:          int(date.Month()),
			InvoiceDate:     day,
			InvoiceType:     string(inv.Type),
			SourceID:        inv.ID,
			SystemEntryDate: date.Format(isoLayout),
			CustomerID:      inv.ClientID,
			Lines:           lines,
			DocumentTotals: documentTotals{
				TaxPayable: amount(inv.TaxTotal),
				NetTotal:   amount(inv.Subtotal),
				GrossTotal: amount(inv.Total),
			},
		}}},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
