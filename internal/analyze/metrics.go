package analyze

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is one data row extracted from a spreadsheet.
type Record struct {
	Period  string
	Revenue float64
	Profit  float64
	Margin  float64
}

// Metrics is the tabular financial data extracted from one spreadsheet.
type Metrics struct {
	SheetName string
	Records   []Record
}

var (
	revenuePattern = regexp.MustCompile(`(?i)(revenue|sales|income|turnover)`)
	profitPattern  = regexp.MustCompile(`(?i)(profit|earnings|ebitda|net income)`)
	periodPattern  = regexp.MustCompile(`(?i)(period|date|month|quarter|year)`)
	marginPattern  = regexp.MustCompile(`(?i)(margin|profit %|markup)`)
)

// ExtractMetrics reads an xlsx document and pulls out period, revenue,
// profit and margin columns identified by their header names. Only the
// first sheet is read.
func ExtractMetrics(r io.Reader) (*Metrics, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", sheet)
	}

	periodCol, revenueCol, profitCol, marginCol := -1, -1, -1, -1
	for i, header := range rows[0] {
		switch {
		case periodCol < 0 && periodPattern.MatchString(header):
			periodCol = i
		case marginCol < 0 && marginPattern.MatchString(header):
			marginCol = i
		case profitCol < 0 && profitPattern.MatchString(header):
			profitCol = i
		case revenueCol < 0 && revenuePattern.MatchString(header):
			revenueCol = i
		}
	}
	if revenueCol < 0 && profitCol < 0 {
		return nil, fmt.Errorf("sheet %s has no recognizable financial columns", sheet)
	}

	metrics := &Metrics{SheetName: sheet}
	for _, row := range rows[1:] {
		rec := Record{}
		if periodCol >= 0 {
			rec.Period = cell(row, periodCol)
		}
		if revenueCol >= 0 {
			rec.Revenue = ParseNumber(cell(row, revenueCol))
		}
		if profitCol >= 0 {
			rec.Profit = ParseNumber(cell(row, profitCol))
		}
		if marginCol >= 0 {
			rec.Margin = ParseNumber(cell(row, marginCol))
		}
		if rec.Period == "" && rec.Revenue == 0 && rec.Profit == 0 {
			continue
		}
		metrics.Records = append(metrics.Records, rec)
	}

	return metrics, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// ParseNumber parses a currency or percentage cell value. Currency symbols,
// commas and spaces are stripped; a trailing percent sign divides by 100.
// Unparsable values yield 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	percent := strings.HasSuffix(s, "%")
	replacer := strings.NewReplacer("₹", "", "$", "", ",", "", " ", "", "%", "")
	cleaned := replacer.Replace(s)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	if percent {
		return v / 100
	}
	return v
}

// FormatCurrency renders an amount in Indian crore/lakh notation.
func FormatCurrency(v float64) string {
	switch {
	case v >= 1e7:
		return fmt.Sprintf("₹%.2f Cr", v/1e7)
	case v >= 1e5:
		return fmt.Sprintf("₹%.2f L", v/1e5)
	default:
		return fmt.Sprintf("₹%.2f", v)
	}
}

// BuildContext renders extracted metrics as the data context sent to the
// analysis model.
func BuildContext(filename string, m *Metrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s (sheet %s)\n", filename, m.SheetName)
	for _, rec := range m.Records {
		if rec.Period != "" {
			fmt.Fprintf(&b, "Period %s: ", rec.Period)
		}
		fmt.Fprintf(&b, "revenue %s, profit %s", FormatCurrency(rec.Revenue), FormatCurrency(rec.Profit))
		if rec.Margin != 0 {
			fmt.Fprintf(&b, ", margin %.1f%%", rec.Margin*100)
		}
		b.WriteString("\n")
	}
	return b.String()
}
