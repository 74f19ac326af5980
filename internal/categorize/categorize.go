package categorize

import (
	"regexp"
	"slices"
	"strings"
)

// CategoryPath is the destination path segments derived from one filename.
type CategoryPath struct {
	// DatePath is "YYYY/MonthName" when a date could be inferred from the
	// filename, or "No-Date" otherwise.
	DatePath    string
	Category    string
	SubCategory string
}

// Path joins the segments into a folder path.
func (p CategoryPath) Path() string {
	return p.DatePath + "/" + p.Category + "/" + p.SubCategory
}

const (
	// NoDate is the DatePath used when no date can be inferred.
	NoDate = "No-Date"

	defaultCategory    = "Other"
	defaultSubCategory = "General"
)

// businessUnits are acronyms that name a category directly; the matched
// acronym is upper-cased and used verbatim.
var businessUnits = []string{"ebo", "mbo", "lfs", "fofo"}

type categoryRule struct {
	category string
	priority int
	patterns []string
}

// categoryRules are evaluated in descending priority; the first matching
// pattern wins. Business units at priority 100 are handled separately.
var categoryRules = []categoryRule{
	{"Financial", 90, []string{"inventory", "receivable", "deposit", "payment", "invoice", "balance sheet", "p&l", "profit", "loss"}},
	{"Reports", 80, []string{"mis", "report", "analysis", "summary", "review", "performance"}},
	{"Sales", 70, []string{"sale", "revenue", "transaction", "store wise", "like to like", "ltl", "sssg"}},
	{"Metrics", 60, []string{"count", "metrics", "kpi", "statistics", "footfall", "conversion"}},
}

type subCategoryRule struct {
	category    string
	subCategory string
	priority    int
	patterns    []string
}

// subCategoryRules only apply within their declared category.
var subCategoryRules = []subCategoryRule{
	{"Financial", "Assets", 90, []string{"inventory", "receivable", "stock"}},
	{"Financial", "Transactions", 90, []string{"deposit", "payment"}},
	{"Reports", "MIS", 90, []string{"mis"}},
	{"Sales", "Comparisons", 80, []string{"like to like", "ltl", "comparison"}},
	{"Reports", "Analysis", 80, []string{"analysis", "detailed"}},
	{"Sales", "Store-Performance", 70, []string{"store wise", "storewise"}},
}

var wordSplit = regexp.MustCompile(`[\s_-]+`)

// Categorize derives the destination path segments for a filename. It is
// pure and deterministic: equal filenames always yield equal paths.
func Categorize(filename string) CategoryPath {
	normalized := strings.ToLower(filename)
	words := wordSplit.Split(normalized, -1)

	category := resolveCategory(normalized, words)
	return CategoryPath{
		DatePath:    inferDatePath(normalized),
		Category:    category,
		SubCategory: resolveSubCategory(normalized, words, category),
	}
}

func matches(normalized string, words []string, pattern string) bool {
	return slices.Contains(words, pattern) || strings.Contains(normalized, pattern)
}

func resolveCategory(normalized string, words []string) string {
	for _, unit := range businessUnits {
		if matches(normalized, words, unit) {
			return strings.ToUpper(unit)
		}
	}
	for _, rule := range categoryRules {
		for _, p := range rule.patterns {
			if matches(normalized, words, p) {
				return rule.category
			}
		}
	}
	return defaultCategory
}

func resolveSubCategory(normalized string, words []string, category string) string {
	for _, rule := range subCategoryRules {
		if rule.category != category {
			continue
		}
		for _, p := range rule.patterns {
			if matches(normalized, words, p) {
				return rule.subCategory
			}
		}
	}
	return defaultSubCategory
}

// monthTokens maps month abbreviations and full names to the folder name.
// Only whole tokens are looked up here, so an abbreviation inside an
// unrelated word ("summary", "marketing") never counts as a month.
var monthTokens = map[string]string{
	"jan": "January", "january": "January",
	"feb": "February", "february": "February",
	"mar": "March", "march": "March",
	"apr": "April", "april": "April",
	"may": "May",
	"jun": "June", "june": "June",
	"jul": "July", "july": "July",
	"aug": "August", "august": "August",
	"sep": "September", "september": "September",
	"oct": "October", "october": "October",
	"nov": "November", "november": "November",
	"dec": "December", "december": "December",
}

var numericMonths = map[string]string{
	"01": "January", "02": "February", "03": "March", "04": "April",
	"05": "May", "06": "June", "07": "July", "08": "August",
	"09": "September", "10": "October", "11": "November", "12": "December",
}

const monthAlternation = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec`

var (
	dateSplit      = regexp.MustCompile(`[\s_.-]+`)
	monthYearToken = regexp.MustCompile(`^(` + monthAlternation + `)(20\d{2}|\d{2})$`)
	yearMonthToken = regexp.MustCompile(`^(20\d{2})(` + monthAlternation + `)$`)
	yearOnly       = regexp.MustCompile(`^(20\d{2}|\d{2})$`)
	fullYear       = regexp.MustCompile(`^20\d{2}$`)
)

// inferDatePath extracts "YYYY/MonthName" from a lowercased filename. A
// month is recognized only as a whole token ("mar 2024", "2024_mar") or
// fused with the year in one token ("mar2024", "march24"); numeric months
// need a full four-digit year ("08-2024").
func inferDatePath(normalized string) string {
	tokens := dateSplit.Split(normalized, -1)
	for i, tok := range tokens {
		if m := monthYearToken.FindStringSubmatch(tok); m != nil {
			return expandYear(m[2]) + "/" + monthTokens[m[1]]
		}
		if m := yearMonthToken.FindStringSubmatch(tok); m != nil {
			return m[1] + "/" + monthTokens[m[2]]
		}
		if i+1 >= len(tokens) {
			continue
		}
		next := tokens[i+1]
		if month, ok := monthTokens[tok]; ok && yearOnly.MatchString(next) {
			return expandYear(next) + "/" + month
		}
		if month, ok := monthTokens[next]; ok && yearOnly.MatchString(tok) {
			return expandYear(tok) + "/" + month
		}
		if month, ok := numericMonths[tok]; ok && fullYear.MatchString(next) {
			return next + "/" + month
		}
	}
	return NoDate
}

func expandYear(year string) string {
	if len(year) == 2 {
		return "20" + year
	}
	return year
}
