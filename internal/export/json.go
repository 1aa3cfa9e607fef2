package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/afactura/internal/models"
)

// Source identifies this program in JSON exports.
const Source = "AFACTURA"

type jsonPayload struct {
	Header   jsonHeader   `json:"header"`
	Customer jsonCustomer `json:"customer"`
	Document jsonDocument `json:"document"`
	Lines    []jsonLine   `json:"lines"`
	Totals   jsonTotals   `json:"totals"`
	Audit    jsonAudit    `json:"audit"`
}

type jsonHeader struct {
	AuditFileVersion string  `json:"auditFileVersion"`
	CompanyID        string  `json:"companyId"`
	CompanyName      string  `json:"companyName"`
	InvoiceNo        string  `json:"invoiceNo"`
	Hash             *string `json:"hash"`
	Status           string  `json:"status"`
	Currency         string  `json:"currency"`
}

type jsonCustomer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	NIF     string `json:"nif"`
	Address string `json:"address,omitempty"`
}

type jsonDocument struct {
	Type          string    `json:"type"`
	Date          time.Time `json:"date"`
	DueDate       time.Time `json:"dueDate"`
	PaymentMethod string    `json:"paymentMethod"`
}

type jsonLine struct {
	LineNumber      int     `json:"lineNumber"`
	ProductCode     string  `json:"productCode"`
	Description     string  `json:"description"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	TaxRate         int     `json:"taxRate"`
	ExemptionReason string  `json:"exemptionReason,omitempty"`
	Total           float64 `json:"total"`
}

type jsonTotals struct {
	TaxPayable float64 `json:"taxPayable"`
	NetTotal   float64 `json:"netTotal"`
	GrossTotal float64 `json:"grossTotal"`
}

type jsonAudit struct {
	CreatedAt time.Time `json:"createdAt"`
	Source    string    `json:"source"`
}

// JSON renders inv as an indented JSON document. The creation time comes
// from the invoice's own trail, or now when it has none.
func JSON(inv models.Invoice, company models.CompanyProfile, now time.Time) ([]byte, error) {
	var hash *string
	if inv.Hash != "" {
		h := inv.Hash
		hash = &h
	}

	lines := make([]jsonLine, 0, len(inv.Items))
	for i, it := range inv.Items {
		lines = append(lines, jsonLine{
			LineNumber:      i + 1,
			ProductCode:     it.ID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			TaxRate:         int(it.TaxRate),
			ExemptionReason: it.ExemptionReason,
			Total:           it.Total,
		})
	}

	created := now.UTC()
	if len(inv.AuditTrail) > 0 {
		created = inv.AuditTrail[0].Timestamp.UTC()
	}

	p := jsonPayload{
		Header: jsonHeader{
			AuditFileVersion: AuditFileVersion,
			CompanyID:        company.NIF,
			CompanyName:      company.Name,
			InvoiceNo:        inv.DocumentNo(),
			Hash:             hash,
			Status:           string(inv.Status),
			Currency:         inv.Currency,
		},
		Customer: jsonCustomer{
			ID:      inv.ClientID,
			Name:    inv.ClientName,
			NIF:     inv.ClientNIF,
			Address: inv.ClientAddress,
		},
		Document: jsonDocument{
			Type:          string(inv.Type),
			Date:          inv.Date.UTC(),
			DueDate:       inv.DueDate.UTC(),
			PaymentMethod: string(inv.PaymentMethod),
		},
		Lines: lines,
		Totals: jsonTotals{
			TaxPayable: inv.TaxTotal,
			NetTotal:   inv.Subtotal,
			GrossTotal: inv.Total,
		},
		Audit: jsonAudit{CreatedAt: created, Source: Source},
	}

	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return out, nil
}
