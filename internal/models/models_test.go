package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoice_Recalculate(t *testing.T) {
	inv := Invoice{Items: []InvoiceItem{
		{Description: "Consultoria Informática", Quantity: 10, UnitPrice: 25000, TaxRate: TaxStandard},
		{Description: "Livro", Quantity: 2, UnitPrice: 1500.5, TaxRate: TaxReduced},
		{Description: "Exportação", Quantity: 1, UnitPrice: 1000, TaxRate: TaxExempt},
	}}
	inv.Recalculate()

	assert.Equal(t, 250000.0, inv.Items[0].Total)
	assert.Equal(t, 3001.0, inv.Items[1].Total)
	assert.Equal(t, 254001.0, inv.Subtotal)
	// 35000 + 210.07
	assert.Equal(t, 35210.07, inv.TaxTotal)
	assert.Equal(t, 289211.07, inv.Total)
}

func TestTaxRate_Code(t *testing.T) {
	assert.Equal(t, "NOR", TaxStandard.Code())
	assert.Equal(t, "RED", TaxReduced.Code())
	assert.Equal(t, "ISE", TaxExempt.Code())
	assert.False(t, TaxRate(10).Valid())
}

func TestInvoiceStatus_Transitions(t *testing.T) {
	assert.True(t, StatusDraft.CanTransition(StatusIssued))
	assert.True(t, StatusIssued.CanTransition(StatusSentAGT))
	assert.True(t, StatusSentAGT.CanTransition(StatusAcceptedAGT))
	assert.True(t, StatusAcceptedAGT.CanTransition(StatusPaid))
	assert.False(t, StatusPaid.CanTransition(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransition(StatusIssued))
	assert.False(t, StatusDraft.CanTransition(StatusPaid))
}

func TestParseInvoiceStatus(t *testing.T) {
	st, err := ParseInvoiceStatus("issued")
	require.NoError(t, err)
	assert.Equal(t, StatusIssued, st)

	st, err = ParseInvoiceStatus("enviada agt")
	require.NoError(t, err)
	assert.Equal(t, StatusSentAGT, st)

	_, err = ParseInvoiceStatus("lost")
	assert.Error(t, err)
}

func TestClient_Matches(t *testing.T) {
	c := Client{Name: "Empresa Exemplo SA", NIF: "5401112221"}

	assert.True(t, c.Matches(""))
	assert.True(t, c.Matches("exemplo"))
	assert.True(t, c.Matches("11122"))
	assert.False(t, c.Matches("particular"))
}

func TestSetting_JSONShape(t *testing.T) {
	s := ProfileSetting(DefaultCompanyProfile())

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var generic map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.JSONEq(t, `"profile"`, string(generic["key"]))
	assert.Contains(t, string(generic["value"]), `"nif":"5001234567"`)

	var back Setting
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Profile)
	assert.Nil(t, back.Credentials)
	assert.Equal(t, DefaultCompanyProfile(), *back.Profile)
}

func TestSetting_UnknownKeyRejected(t *testing.T) {
	var s Setting
	err := json.Unmarshal([]byte(`{"key":"theme","value":"dark"}`), &s)
	assert.ErrorIs(t, err, ErrUnknownSetting)

	_, err = json.Marshal(Setting{Key: SettingProfile})
	assert.Error(t, err, "variant missing")
}

func TestTimestamp_FormatParse(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 123456789, time.FixedZone("WAT", 3600))

	s := FormatTimestamp(ts)
	assert.Equal(t, "2025-01-02T02:04:05.123456Z", s)

	back, err := ParseTimestamp(s)
	require.NoError(t, err)
	assert.True(t, back.Equal(ts.Truncate(time.Microsecond)))

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}
