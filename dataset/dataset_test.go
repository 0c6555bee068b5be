package dataset

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/equitywise"
	"github.com/etnz/equitywise/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
# vests
{"command":"vest","on":"2022-01-10","grant":"RSU-1001","quantity":100,"fmv":50,"rate":75,"withheld":1200}
{"command":"sell","on":"2024-02-01","quantity":60,"price":80,"order":"ORD-17"}
{"command":"rate","on":"2022-01-10","value":75}
{"command":"rate","on":"2024-02-01","value":83}
{"command":"price","on":"2024-02-01","ticker":"ADBE","value":"80"}
{"command":"remit","on":"2024-02-05","reference":"IRM/USD4790@83.4GST236","usd":4790,"rate":83.4,"charges":236,"received":399250}
`

func TestDecode(t *testing.T) {
	ds, err := Decode("sample", strings.NewReader(sample))
	require.NoError(t, err)
	require.NoError(t, ds.Validate())

	require.Len(t, ds.Vests, 1)
	v := ds.Vests[0]
	assert.Equal(t, date.New(2022, 1, 10), v.Date)
	assert.Equal(t, "RSU-1001", v.Grant)
	assert.True(t, v.Income().Equal(equitywise.INR(375000)), "income %v", v.Income())
	assert.True(t, v.TaxesWithheld.Equal(equitywise.USD(1200)))

	require.Len(t, ds.Sales, 1)
	assert.Equal(t, "ORD-17", ds.Sales[0].Order)
	assert.True(t, ds.Sales[0].GrossProceeds().Equal(equitywise.USD(4800)))

	assert.Len(t, ds.Rates, 2)
	assert.Len(t, ds.Prices[""], 1)
	assert.Equal(t, "ADBE", ds.Ticker(""))

	require.Len(t, ds.Remittances, 1)
	assert.True(t, ds.Remittances[0].Charges.Equal(equitywise.INR(236)))
}

func TestDecode_Errors(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"not json", `{"command":"vest"`, "sample:1: not a correct json"},
		{"unknown command", `{"command":"buy","on":"2024-01-01"}`, `unknown command: "buy"`},
		{"missing date", `{"command":"rate","value":83}`, `missing the property "on"`},
		{"missing attributes", `{"command":"vest","on":"2024-01-01","quantity":1}`, "vest requires fmv, rate"},
		{"bad date", `{"command":"rate","on":"01/01/2024","value":83}`, "invalid date"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode("sample", strings.NewReader(tc.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDecode_ReportsEveryLine(t *testing.T) {
	in := `{"command":"buy","on":"2024-01-01"}
{"command":"rate","on":"2024-01-01","value":83}
{"command":"sell","on":"2024-01-01"}`
	_, err := Decode("sample", strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample:1:")
	assert.Contains(t, err.Error(), "sample:3:")
}

func TestValidate(t *testing.T) {
	in := `{"command":"rate","on":"2024-01-01","value":83}
{"command":"rate","on":"2024-01-01","value":83.1}
{"command":"price","on":"2024-01-01","value":0}
{"command":"vest","on":"2024-01-01","quantity":0,"fmv":1,"rate":83}`
	ds, err := Decode("sample", strings.NewReader(in))
	require.NoError(t, err)

	err = ds.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, equitywise.ErrInvalidDate), "duplicate rate date: %v", err)
	assert.True(t, errors.Is(err, equitywise.ErrInvalidQuantity), "zero price and quantity: %v", err)
}

func TestEncode_RoundTrip(t *testing.T) {
	ds, err := Decode("sample", strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ds))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, `{"command":"vest","on":"2022-01-10","grant":"RSU-1001","quantity":100,"fmv":50,"rate":75,"withheld":1200}`, lines[0])
	assert.Contains(t, lines[len(lines)-1], `"command":"remit"`)

	back, err := Decode("encoded", &buf)
	require.NoError(t, err)
	assert.Len(t, back.Vests, 1)
	assert.Len(t, back.Sales, 1)
	assert.Len(t, back.Rates, 2)
	assert.Equal(t, "ADBE", back.Ticker(""))
}

func TestLoad_Folder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.jsonl"), []byte(sample), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "more.jsonl"), []byte(`{"command":"rate","on":"2024-02-02","value":83.1}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	ds, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, ds.Rates, 3)
}

func TestDataset_Engine(t *testing.T) {
	ds, err := Decode("sample", strings.NewReader(sample))
	require.NoError(t, err)
	e, err := ds.Engine(equitywise.DefaultConfig(), equitywise.WithCalendarYears())
	require.NoError(t, err)

	res, err := e.Compute(context.Background(), ds.Vests, ds.Sales)
	require.NoError(t, err)
	require.Len(t, res.Gains, 1)
	assert.True(t, res.Gains[0].GainINR.Equal(equitywise.INR(173400)), "gain %v", res.Gains[0].GainINR)

	recs, err := e.Reconcile(ds.Remittances)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	// 4790 × 83.4 − 236 = 399250.
	assert.True(t, recs[0].Accurate)
}
