// Package analyze extracts financial metrics from xlsx spreadsheets stored
// in Google Drive and answers natural-language questions about them using
// the OpenAI chat API.
package analyze
