// Package attachment_tools provides MCP tools for finding, organizing and
// analyzing email attachments.
//
// The package registers three tools:
//   - mail_search_attachments: search Gmail for emails with attachments from
//     a sender email, domain, or company name
//   - mail_organize_attachments: download the matching attachments and upload
//     them into a Google Drive folder, optionally grouped by date or category
//   - drive_analyze_folder: answer a natural-language question about the
//     financial spreadsheets in a Drive folder
//
// All tools take an optional account argument to select between multiple
// authorized Google accounts. When no token is stored for the account the
// tools return instructions for completing the OAuth flow via the
// google_get_auth_url and google_save_auth_code tools.
package attachment_tools
