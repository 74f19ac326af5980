// Package harvest finds attachment-bearing Gmail messages for a sender
// criterion and normalizes them for downstream organizing.
//
// The id search is all-or-nothing; per-message detail fetches run as a
// bounded concurrent batch where individual failures only degrade the
// result. Results are ordered newest first with a deterministic total order.
package harvest
