// Package cmd implements the command-line interface for mailsift.
//
// This package provides the following commands:
//   - auth: Manage Google OAuth authorization (url, save, status)
//   - search: Find emails with attachments matching a criterion
//   - organize: File matching attachments into a Google Drive folder
//   - analyze: Answer a question about spreadsheets in a Drive folder
//   - serve: Start the MCP server to provide tools for AI assistants
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd
