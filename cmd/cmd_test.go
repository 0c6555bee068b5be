package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/equitywise/dataset"
	"github.com/etnz/equitywise/date"
	"github.com/google/subcommands"
)

const records = `{"command":"vest","on":"2022-01-10","grant":"RSU-1001","quantity":100,"fmv":50,"rate":75}
{"command":"sell","on":"2024-02-01","quantity":60,"price":80}
{"command":"rate","on":"2022-01-10","value":75}
{"command":"rate","on":"2024-02-01","value":83}
{"command":"price","on":"2021-12-31","ticker":"ADBE","value":50}
`

// monthEnds returns rate and price records on every month end sample of year.
func monthEnds(year int) string {
	var b strings.Builder
	for _, on := range date.MonthEnds(year) {
		fmt.Fprintf(&b, `{"command":"rate","on":"%s","value":83}`+"\n", on)
		fmt.Fprintf(&b, `{"command":"price","on":"%s","value":80}`+"\n", on)
	}
	return b.String()
}

// setup writes the dataset and a configuration using it in a temporary
// folder, and captures the output of the commands.
func setup(t *testing.T, content string) (dir string, out, errs *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	ds := filepath.Join(dir, "dataset.jsonl")
	if err := os.WriteFile(ds, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	toml := fmt.Sprintf("dataset = %q\narchive = %q\n", ds, filepath.Join(dir, "archive.db"))
	cfg := filepath.Join(dir, "equitywise.toml")
	if err := os.WriteFile(cfg, []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}

	oldConfig, oldRaw, oldOut, oldErr, oldToday := *configFile, *rawOutput, stdout, stderr, today
	out, errs = &bytes.Buffer{}, &bytes.Buffer{}
	*configFile, *rawOutput, stdout, stderr = cfg, true, out, errs
	today = func() date.Date { return date.MustParse("2024-12-31") }
	t.Cleanup(func() {
		*configFile, *rawOutput, stdout, stderr, today = oldConfig, oldRaw, oldOut, oldErr, oldToday
	})
	return dir, out, errs
}

// run parses args for the command and executes it.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s %v: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

func TestRSUCmd(t *testing.T) {
	_, out, errs := setup(t, records)

	if status := run(t, &rsuCmd{}, "-fy", "FY2023-24", "-detailed"); status != subcommands.ExitSuccess {
		t.Fatalf("rsu = %v, stderr:\n%s", status, errs)
	}
	for _, want := range []string{"# RSU Report FY2023-24", "| Long term | +₹173,400.00 |", "## Sales"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("rsu output misses %q:\n%s", want, out)
		}
	}

	if status := run(t, &rsuCmd{}, "-fy", "2024-25"); status != subcommands.ExitUsageError {
		t.Errorf("rsu -fy 2024-25 = %v, want a usage error", status)
	}
}

func TestGainsCmd(t *testing.T) {
	_, out, _ := setup(t, records)
	if status := run(t, &gainsCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("gains = %v", status)
	}
	if !strings.Contains(out.String(), "| 2024-02-01 | default | RSU-1001 | 2022-01-10 | 60 | 752 | LONG_TERM |") {
		t.Errorf("gains output:\n%s", out)
	}
}

func TestCheckCmd(t *testing.T) {
	// Prices are missing for every calendar year with holdings, 2022 to 2024.
	_, out, _ := setup(t, records)
	if status := run(t, &checkCmd{}); status != subcommands.ExitSuccess {
		t.Errorf("check = %v, want success", status)
	}
	if !strings.Contains(out.String(), "1 vest(s), 1 sale(s), 2 rate(s), 1 price stream(s), 0 remittance(s): 3 issue(s)") {
		t.Errorf("check output:\n%s", out)
	}
	if status := run(t, &checkCmd{}, "-strict"); status != subcommands.ExitFailure {
		t.Errorf("check -strict = %v, want failure", status)
	}
}

func TestCheckCmd_InvalidDataset(t *testing.T) {
	_, _, errs := setup(t, records+`{"command":"rate","on":"2024-02-01","value":84}`+"\n")
	if status := run(t, &checkCmd{}); status != subcommands.ExitFailure {
		t.Errorf("check = %v, want failure", status)
	}
	if !strings.Contains(errs.String(), "duplicate observation on 2024-02-01") {
		t.Errorf("stderr:\n%s", errs)
	}
}

func TestFACmd_Chart(t *testing.T) {
	dir, out, errs := setup(t, records+monthEnds(2024))
	chart := filepath.Join(dir, "balance.png")

	if status := run(t, &faCmd{}, "-cy", "2024", "-chart", chart); status != subcommands.ExitSuccess {
		t.Fatalf("fa = %v, stderr:\n%s", status, errs)
	}
	// 100 shares on January 1 at $80 and 83 INR per USD.
	if !strings.Contains(out.String(), "Declaration: **required**, the peak balance ₹664,000.00") {
		t.Errorf("fa output:\n%s", out)
	}
	png, err := os.ReadFile(chart)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("chart is not a PNG")
	}
}

func TestFACmd_FollowsHoldings(t *testing.T) {
	// The last event is in 2024 but 40 shares are still held in 2025.
	_, out, errs := setup(t, records)
	today = func() date.Date { return date.MustParse("2025-06-30") }
	if status := run(t, &faCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("fa = %v, stderr:\n%s", status, errs)
	}
	for _, cy := range []string{"# Foreign Assets CY2022", "# Foreign Assets CY2024", "# Foreign Assets CY2025"} {
		if !strings.Contains(out.String(), cy) {
			t.Errorf("fa output misses %q:\n%s", cy, out)
		}
	}
}

func TestReconcileCmd(t *testing.T) {
	_, out, _ := setup(t, records+`{"command":"remit","on":"2024-02-05","reference":"WIRE-1","expected":4800,"usd":4800,"rate":83,"charges":400,"received":398000}`+"\n")
	if status := run(t, &reconcileCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("reconcile = %v", status)
	}
	// 4800 × 83 = 398400, net of charges 398000.
	if !strings.Contains(out.String(), "| 2024-02-05 | WIRE-1 |") || strings.Contains(out.String(), "mismatch") {
		t.Errorf("reconcile output:\n%s", out)
	}
}

func TestArchiveCmd(t *testing.T) {
	_, out, errs := setup(t, records)
	if status := run(t, &archiveCmd{}, "-label", "filed"); status != subcommands.ExitSuccess {
		t.Fatalf("archive = %v, stderr:\n%s", status, errs)
	}
	out.Reset()
	if status := run(t, &archiveCmd{}, "-list"); status != subcommands.ExitSuccess {
		t.Fatalf("archive -list = %v", status)
	}
	if !strings.Contains(out.String(), "\tfiled\t1 vest(s)\t1 sale(s)\t0 failure(s)") {
		t.Errorf("archive -list output:\n%s", out)
	}
}

func TestImportCmd(t *testing.T) {
	dir, _, errs := setup(t, records)
	export := filepath.Join(dir, "rates.json")
	// 2024-03-01 and 2024-03-04 as Unix timestamps, with a missing value.
	json := `{"t":[1709251200,1709337600,1709510400],"c":[83.1,null,82.9]}`
	if err := os.WriteFile(export, []byte(json), 0644); err != nil {
		t.Fatal(err)
	}

	if status := run(t, &importCmd{}, "-rate", "-dates", "$.t", "-values", "$.c", export); status != subcommands.ExitSuccess {
		t.Fatalf("import = %v, stderr:\n%s", status, errs)
	}
	ds, err := dataset.Load(filepath.Join(dir, "dataset.jsonl"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, want := len(ds.Rates), 4; got != want {
		t.Errorf("rates after import = %d, want %d", got, want)
	}
	if got, want := len(ds.Vests), 1; got != want {
		t.Errorf("vests after import = %d, want %d", got, want)
	}

	if status := run(t, &importCmd{}, "-rate", "-price", "-dates", "$.t", "-values", "$.c", export); status != subcommands.ExitUsageError {
		t.Errorf("import -rate -price = %v, want a usage error", status)
	}
}

func TestTopicCmd(t *testing.T) {
	_, out, _ := setup(t, records)
	if status := run(t, &topicCmd{}, "-list"); status != subcommands.ExitSuccess {
		t.Fatalf("topic -list = %v", status)
	}
	if !strings.Contains(out.String(), "fa\tForeign Assets\n") {
		t.Errorf("topic -list output:\n%s", out)
	}
	out.Reset()
	if status := run(t, &topicCmd{}, "dataset"); status != subcommands.ExitSuccess {
		t.Fatalf("topic dataset = %v", status)
	}
	if !strings.HasPrefix(out.String(), "# Dataset") {
		t.Errorf("topic dataset output:\n%s", out)
	}
}
