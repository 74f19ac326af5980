package analyze

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func sheetBytes(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cellRef, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestExtractMetrics(t *testing.T) {
	r := sheetBytes(t, [][]interface{}{
		{"Month", "Revenue", "Net Profit", "Margin %"},
		{"Jan 2024", "₹1,00,000", "₹20,000", "20%"},
		{"Feb 2024", "150000", "45000", "30%"},
	})

	m, err := ExtractMetrics(r)
	if err != nil {
		t.Fatalf("ExtractMetrics: %v", err)
	}
	if len(m.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(m.Records))
	}

	first := m.Records[0]
	if first.Period != "Jan 2024" {
		t.Errorf("Period = %q, want %q", first.Period, "Jan 2024")
	}
	if first.Revenue != 100000 {
		t.Errorf("Revenue = %v, want 100000", first.Revenue)
	}
	if first.Profit != 20000 {
		t.Errorf("Profit = %v, want 20000", first.Profit)
	}
	if first.Margin != 0.2 {
		t.Errorf("Margin = %v, want 0.2", first.Margin)
	}
}

func TestExtractMetricsNoFinancialColumns(t *testing.T) {
	r := sheetBytes(t, [][]interface{}{
		{"Name", "Address"},
		{"store-1", "somewhere"},
	})

	if _, err := ExtractMetrics(r); err == nil {
		t.Error("expected error for sheet without financial columns")
	}
}

func TestExtractMetricsEmptySheet(t *testing.T) {
	r := sheetBytes(t, [][]interface{}{
		{"Revenue"},
	})
	if _, err := ExtractMetrics(r); err == nil {
		t.Error("expected error for sheet without data rows")
	}
}

func TestExtractMetricsBadFile(t *testing.T) {
	if _, err := ExtractMetrics(strings.NewReader("not a spreadsheet")); err == nil {
		t.Error("expected error for invalid xlsx content")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1000", 1000},
		{"₹1,00,000", 100000},
		{"$2,500.50", 2500.50},
		{"25%", 0.25},
		{" 1 000 ", 1000},
		{"", 0},
		{"n/a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseNumber(tt.in); got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{25000000, "₹2.50 Cr"},
		{10000000, "₹1.00 Cr"},
		{250000, "₹2.50 L"},
		{100000, "₹1.00 L"},
		{99999, "₹99999.00"},
		{0, "₹0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatCurrency(tt.in); got != tt.want {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildContext(t *testing.T) {
	m := &Metrics{
		SheetName: "Sheet1",
		Records: []Record{
			{Period: "Jan 2024", Revenue: 25000000, Profit: 5000000, Margin: 0.2},
		},
	}

	out := BuildContext("report.xlsx", m)
	for _, want := range []string{"report.xlsx", "Jan 2024", "₹2.50 Cr", "20.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("context missing %q:\n%s", want, out)
		}
	}
}
