package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Currency is the only currency invoices are issued in.
const Currency = "AOA"

// TaxRate is an IVA percentage.
type TaxRate int

const (
	TaxStandard TaxRate = 14
	TaxReduced  TaxRate = 7
	TaxExempt   TaxRate = 0
)

func (r TaxRate) Valid() bool {
	return r == TaxStandard || r == TaxReduced || r == TaxExempt
}

// Code is the SAF-T tax code for the rate.
func (r TaxRate) Code() string {
	switch r {
	case TaxStandard:
		return "NOR"
	case TaxExempt:
		return "ISE"
	default:
		return "RED"
	}
}

type InvoiceStatus string

const (
	StatusDraft       InvoiceStatus = "Rascunho"
	StatusIssued      InvoiceStatus = "Emitida"
	StatusSentAGT     InvoiceStatus = "Enviada AGT"
	StatusAcceptedAGT InvoiceStatus = "Aceite AGT"
	StatusCancelled   InvoiceStatus = "Anulada"
	StatusPaid        InvoiceStatus = "Paga"
)

var statusAliases = map[string]InvoiceStatus{
	"draft":     StatusDraft,
	"issued":    StatusIssued,
	"sent":      StatusSentAGT,
	"accepted":  StatusAcceptedAGT,
	"cancelled": StatusCancelled,
	"paid":      StatusPaid,
}

// ParseInvoiceStatus accepts either the stored value ("Emitida") or an
// English alias ("issued").
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	s = strings.TrimSpace(s)
	if st, ok := statusAliases[strings.ToLower(s)]; ok {
		return st, nil
	}
	for _, st := range statusAliases {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown invoice status %q", s)
}

var statusTransitions = map[InvoiceStatus][]InvoiceStatus{
	StatusDraft:       {StatusIssued, StatusCancelled},
	StatusIssued:      {StatusSentAGT, StatusPaid, StatusCancelled},
	StatusSentAGT:     {StatusAcceptedAGT, StatusCancelled},
	StatusAcceptedAGT: {StatusPaid, StatusCancelled},
}

// CanTransition reports whether an invoice may move from s to next.
// Paid and cancelled invoices are final.
func (s InvoiceStatus) CanTransition(next InvoiceStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Numerário"
	PaymentBankTransfer PaymentMethod = "Transferência"
	PaymentMulticaixa   PaymentMethod = "Multicaixa"
	PaymentCreditCard   PaymentMethod = "Cartão Crédito"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentBankTransfer, PaymentMulticaixa, PaymentCreditCard}

type DocumentType string

const (
	DocInvoice    DocumentType = "FT"
	DocReceipt    DocumentType = "RC"
	DocCreditNote DocumentType = "NC"
	DocDebitNote  DocumentType = "ND"
)

func (d DocumentType) Valid() bool {
	switch d {
	case DocInvoice, DocReceipt, DocCreditNote, DocDebitNote:
		return true
	}
	return false
}

// ExemptionReasons are the AGT exemption codes offered for 0% lines.
var ExemptionReasons = []string{
	"M02 - Transmissão de bens e serviço não sujeita",
	"M04 - Isento Artigo 12.º alínea a) do CIVA",
	"M10 - Isento Artigo 12.º alínea e) do CIVA",
	"M11 - Regime de não sujeição",
}

// DefaultExemptionReason is exported for exempt lines without a reason.
const DefaultExemptionReason = "Isento Artigo 12.º alínea a)"

type InvoiceItem struct {
	ID              string  `json:"id"`
	Description     string  `json:"description"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	TaxRate         TaxRate `json:"taxRate"`
	ExemptionReason string  `json:"exemptionReason,omitempty"`
	Total           float64 `json:"total"`
}

// Tax is the IVA amount of the line.
func (it InvoiceItem) Tax() float64 {
	return it.Total * float64(it.TaxRate) / 100
}

type Invoice struct {
	ID                   string        `json:"id"`
	Series               string        `json:"series"`
	Number               int           `json:"number"`
	Type                 DocumentType  `json:"type"`
	Date                 time.Time     `json:"date"`
	DueDate              time.Time     `json:"dueDate"`
	ClientID             string        `json:"clientId"`
	ClientName           string        `json:"clientName"`
	ClientNIF            string        `json:"clientNif"`
	ClientAddress        string        `json:"clientAddress,omitempty"`
	Items                []InvoiceItem `json:"items"`
	Subtotal             float64       `json:"subtotal"`
	TaxTotal             float64       `json:"taxTotal"`
	Total                float64       `json:"total"`
	Currency             string        `json:"currency"`
	Status               InvoiceStatus `json:"status"`
	PaymentMethod        PaymentMethod `json:"paymentMethod"`
	Hash                 string        `json:"hash,omitempty"`
	AGTProtocol          string        `json:"agtProtocol,omitempty"`
	AGTResponseTimestamp *time.Time    `json:"agtResponseTimestamp,omitempty"`
	AuditTrail           []AuditLog    `json:"auditTrail"`
}

// DocumentNo is the printable "<series>/<number>" identifier.
func (inv Invoice) DocumentNo() string {
	return fmt.Sprintf("%s/%d", inv.Series, inv.Number)
}

// Recalculate recomputes line totals and the invoice totals from the
// quantities, prices and rates of the items. Amounts are rounded to cents.
func (inv *Invoice) Recalculate() {
	var sub, tax float64
	for i := range inv.Items {
		it := &inv.Items[i]
		it.Total = RoundMoney(it.Quantity * it.UnitPrice)
		sub += it.Total
		tax += it.Tax()
	}
	inv.Subtotal = RoundMoney(sub)
	inv.TaxTotal = RoundMoney(tax)
	inv.Total = RoundMoney(inv.Subtotal + inv.TaxTotal)
}

// RoundMoney rounds v to 2 decimal places, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
