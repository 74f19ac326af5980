// Package server provides the MCP server context and the dedicated
// metrics endpoint for the mailsift application.
//
// # Key Components
//
// ServerContext manages Gmail and Drive API clients with lazy
// initialization and caching. It supports multiple accounts; a client is
// created on first use for any account that has a stored OAuth token.
//
// MetricsServer serves Prometheus metrics on a dedicated port, keeping
// operational metrics off the MCP stdio transport.
package server
