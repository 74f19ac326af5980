// Package common provides shared helpers for MCP tool implementations:
// account selection from tool arguments and instrumentation wrappers that
// record metrics and spans around tool handlers.
package common
