// Package resources provides MCP resources for exposing user data.
// Resources are read-only data sources that MCP clients can fetch, such as
// the authenticated account's mailbox profile.
package resources
