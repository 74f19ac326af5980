package attachment_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/prasadk/mailsift/internal/analyze"
	"github.com/prasadk/mailsift/internal/criterion"
	"github.com/prasadk/mailsift/internal/drive"
	"github.com/prasadk/mailsift/internal/gmail"
	"github.com/prasadk/mailsift/internal/google"
	"github.com/prasadk/mailsift/internal/harvest"
	"github.com/prasadk/mailsift/internal/instrumentation"
	"github.com/prasadk/mailsift/internal/organize"
	"github.com/prasadk/mailsift/internal/server"
	"github.com/prasadk/mailsift/internal/tools/common"
)

// RegisterAttachmentTools registers the attachment search, organize and
// analyze tools with the MCP server
func RegisterAttachmentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Search attachments tool
	searchTool := mcp.NewTool("mail_search_attachments",
		mcp.WithDescription("Search Gmail for emails with attachments from a sender email, domain, or company name"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("criterion",
			mcp.Required(),
			mcp.Description("Sender email (user@example.com), domain (example.com), or company name (e.g. 'Gruhas')"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService(
		"mail_search_attachments", instrumentation.ServiceGmail, "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchAttachments(ctx, request, sc)
		}))

	// Organize attachments tool
	organizeTool := mcp.NewTool("mail_organize_attachments",
		mcp.WithDescription("Download all attachments matching a sender criterion and upload them into a Google Drive folder"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("criterion",
			mcp.Required(),
			mcp.Description("Sender email (user@example.com), domain (example.com), or company name (e.g. 'Gruhas')"),
		),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Name of the Drive folder to create or reuse at the Drive root"),
		),
		mcp.WithString("mode",
			mcp.Description("Folder layout: 'flat' (default), 'dated' (Year/Month subfolders), or 'categorized' (Year/Month/BusinessUnit/Category)"),
		),
	)

	s.AddTool(organizeTool, common.InstrumentedToolHandlerWithService(
		"mail_organize_attachments", instrumentation.ServiceDrive, "upload", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleOrganizeAttachments(ctx, request, sc)
		}))

	// Analyze folder tool
	analyzeTool := mcp.NewTool("drive_analyze_folder",
		mcp.WithDescription("Analyze the financial spreadsheets in a Google Drive folder and answer a natural-language question about them"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("folderId",
			mcp.Required(),
			mcp.Description("The ID of the Drive folder containing xlsx spreadsheets"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The question to answer about the spreadsheets (e.g. 'how did revenue develop?')"),
		),
	)

	s.AddTool(analyzeTool, common.InstrumentedToolHandlerWithService(
		"drive_analyze_folder", instrumentation.ServiceDrive, "analyze", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAnalyzeFolder(ctx, request, sc)
		}))

	return nil
}

// authRequiredMessage builds the instructions returned when an account has
// no stored OAuth token
func authRequiredMessage(account string) string {
	authURL := google.GetAuthURLForAccount(account)
	return fmt.Sprintf(`Google OAuth token not found. To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Gmail and Drive
4. Copy the authorization code

5. Provide the authorization code to your AI agent
   The agent will use the google_save_auth_code tool to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, authURL)
}

// gmailClientForRequest returns the Gmail client for the account, or an error
// result explaining how to authorize
func gmailClientForRequest(ctx context.Context, sc *server.ServerContext, account string) (*gmail.Client, *mcp.CallToolResult) {
	client := sc.GmailClientForAccount(account)
	if client != nil {
		return client, nil
	}

	if !google.HasTokenForAccount(account) {
		return nil, mcp.NewToolResultError(authRequiredMessage(account))
	}

	client, err := gmail.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to create Gmail client: %v", err))
	}
	sc.SetGmailClientForAccount(account, client)
	return client, nil
}

// driveClientForRequest returns the Drive client for the account, or an error
// result explaining how to authorize
func driveClientForRequest(ctx context.Context, sc *server.ServerContext, account string) (*drive.Client, *mcp.CallToolResult) {
	client := sc.DriveClientForAccount(account)
	if client != nil {
		return client, nil
	}

	if !google.HasTokenForAccount(account) {
		return nil, mcp.NewToolResultError(authRequiredMessage(account))
	}

	client, err := drive.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to create Drive client: %v", err))
	}
	sc.SetDriveClientForAccount(account, client)
	return client, nil
}

func handleSearchAttachments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	raw, ok := args["criterion"].(string)
	if !ok || raw == "" {
		return mcp.NewToolResultError("criterion is required"), nil
	}

	crit, err := criterion.Resolve(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid criterion: %v", err)), nil
	}

	account := common.GetAccountFromArgs(args)
	client, errResult := gmailClientForRequest(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	svc := harvest.NewService(client, sc.Logger(), sc.Metrics())
	result, err := svc.Search(ctx, crit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search attachments: %v", err)), nil
	}

	if len(result.Emails) == 0 {
		return mcp.NewToolResultText("No emails with attachments found"), nil
	}

	// Convert emails to JSON for structured output
	type attachmentOutput struct {
		Filename string `json:"filename"`
		MimeType string `json:"mimeType"`
		Size     int64  `json:"size"`
	}
	type emailOutput struct {
		MessageID   string             `json:"messageId"`
		From        string             `json:"from"`
		Subject     string             `json:"subject"`
		Date        string             `json:"date"`
		Attachments []attachmentOutput `json:"attachments"`
	}

	outputs := make([]emailOutput, len(result.Emails))
	for i, email := range result.Emails {
		atts := make([]attachmentOutput, len(email.Attachments))
		for j, att := range email.Attachments {
			atts[j] = attachmentOutput{
				Filename: att.Filename,
				MimeType: att.MimeType,
				Size:     att.Size,
			}
		}
		outputs[i] = emailOutput{
			MessageID:   email.ID,
			From:        fmt.Sprintf("%s <%s>", email.FromName, email.FromEmail),
			Subject:     email.Subject,
			Date:        email.DisplayDate,
			Attachments: atts,
		}
	}

	jsonBytes, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format output: %v", err)), nil
	}

	header := fmt.Sprintf("Found %d email(s) with attachments", len(result.Emails))
	if result.Degraded > 0 {
		header += fmt.Sprintf(" (%d message(s) skipped due to fetch failures)", result.Degraded)
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s:\n%s", header, string(jsonBytes))), nil
}

func handleOrganizeAttachments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	raw, ok := args["criterion"].(string)
	if !ok || raw == "" {
		return mcp.NewToolResultError("criterion is required"), nil
	}

	destination, ok := args["destination"].(string)
	if !ok || destination == "" {
		return mcp.NewToolResultError("destination is required"), nil
	}

	modeArg := ""
	if modeVal, ok := args["mode"].(string); ok {
		modeArg = modeVal
	}
	mode, err := organize.ParseMode(modeArg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid mode: %v", err)), nil
	}

	crit, err := criterion.Resolve(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid criterion: %v", err)), nil
	}

	account := common.GetAccountFromArgs(args)
	gmailClient, errResult := gmailClientForRequest(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}
	driveClient, errResult := driveClientForRequest(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	svc := harvest.NewService(gmailClient, sc.Logger(), sc.Metrics())
	harvested, err := svc.Search(ctx, crit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search attachments: %v", err)), nil
	}

	organizer := organize.NewOrganizer(driveClient, gmailClient, sc.Logger(), sc.Metrics())
	result, err := organizer.Run(ctx, harvested.Emails, destination, mode, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to organize attachments: %v", err)), nil
	}

	summary := fmt.Sprintf("Organized %d of %d attachment(s) into folder %q (mode: %s)",
		result.Uploaded, result.Total, destination, mode)
	if result.Failed > 0 {
		summary += fmt.Sprintf("\n%d attachment(s) failed; see the server log for details", result.Failed)
	}
	if harvested.Degraded > 0 {
		summary += fmt.Sprintf("\n%d message(s) skipped due to fetch failures", harvested.Degraded)
	}
	summary += fmt.Sprintf("\nDrive folder ID: %s", result.RootFolderID)

	return mcp.NewToolResultText(summary), nil
}

func handleAnalyzeFolder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	folderID, ok := args["folderId"].(string)
	if !ok || folderID == "" {
		return mcp.NewToolResultError("folderId is required"), nil
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	account := common.GetAccountFromArgs(args)
	driveClient, errResult := driveClientForRequest(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	analyzer, err := analyze.NewClient()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create analysis client: %v", err)), nil
	}

	svc := analyze.NewService(driveClient, analyzer, sc.Logger())
	answer, err := svc.AnalyzeFolder(ctx, folderID, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to analyze folder: %v", err)), nil
	}

	return mcp.NewToolResultText(answer), nil
}
