// Package categorize maps attachment filenames to destination folder paths.
//
// Categorization is pure string matching over a fixed, priority-ordered
// pattern table: business-unit acronyms first, then financial, reporting,
// sales and metrics vocabulary. A date segment ("YYYY/MonthName") is inferred
// from month and year tokens in the filename when present.
package categorize
