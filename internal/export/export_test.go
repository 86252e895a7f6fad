package export

import (
	"strings"
	"testing"
)

func record(pairs ...Field) Record {
	return Record{Fields: pairs}
}

func TestCSVHeaderFromFirstRecordOrder(t *testing.T) {
	records := []Record{
		record(Field{"address", "0xabc"}, Field{"pnl_usd_total", 150.5}, Field{"tokens", "CAKE"}),
		record(Field{"address", "0xdef"}, Field{"pnl_usd_total", 42.0}, Field{"tokens", "BNB"}),
	}
	out, err := CSV(records)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out, "\n")
	if lines[0] != "address,pnl_usd_total,tokens" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "0xabc,150.5,CAKE" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d", len(lines))
	}
}

func TestCSVQuotesFieldsContainingCommas(t *testing.T) {
	records := []Record{
		record(Field{"name", `Token, "The" One`}, Field{"value", 1.0}),
	}
	out, err := CSV(records)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out, "\n")
	want := `"Token, ""The"" One",1`
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestCSVLeavesCommaFreeStringsUnquoted(t *testing.T) {
	records := []Record{record(Field{"name", `has "quotes" only`})}
	out, err := CSV(records)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out, "\n")
	if lines[1] != `has "quotes" only` {
		t.Errorf("row = %q, quotes should stay untouched without a comma", lines[1])
	}
}

func TestCSVEmptyInput(t *testing.T) {
	if _, err := CSV(nil); err == nil {
		t.Error("expected an error for empty input")
	}
}

func TestJSONIndented(t *testing.T) {
	out, err := JSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "\n") {
		t.Errorf("expected indented output, got %q", out)
	}
}
