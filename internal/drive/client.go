package drive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/prasadk/mailsift/internal/google"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// SpreadsheetMimeType is the MIME type for xlsx files
	SpreadsheetMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	fileFields = "id, name, mimeType, size, createdTime, modifiedTime, webViewLink, parents"
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
	account string // The account this client is associated with
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return google.HasToken()
}

// NewClientForAccount creates a new Google Drive client with OAuth2 authentication for a specific account
// Returns an error if no valid token exists - use HasTokenForAccount() to check first
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s. Please authorize access first: %w", account, err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service: driveService,
		account: account,
	}, nil
}

// NewClient creates a new Google Drive client with OAuth2 authentication for the default account
// Returns an error if no valid token exists - use HasToken() to check first
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// CreateFolder creates a new folder in Google Drive
func (c *Client) CreateFolder(ctx context.Context, name string, parentFolders []string) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	file := &drive.File{
		Name:     name,
		MimeType: FolderMimeType,
	}
	if len(parentFolders) > 0 {
		file.Parents = parentFolders
	}

	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create folder %s: %w", name, err)
	}

	return convertToFileInfo(driveFile), nil
}

// RenameFile changes a file or folder name, keeping everything else intact
func (c *Client) RenameFile(ctx context.Context, fileID, newName string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if newName == "" {
		return nil, fmt.Errorf("new name is required")
	}

	driveFile, err := c.service.Files.Update(fileID, &drive.File{Name: newName}).
		Context(ctx).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to rename file %s: %w", fileID, err)
	}

	return convertToFileInfo(driveFile), nil
}

// MoveFile moves a file between folders via addParents/removeParents
func (c *Client) MoveFile(ctx context.Context, fileID string, addParents, removeParents []string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	call := c.service.Files.Update(fileID, &drive.File{}).
		Context(ctx).
		Fields(fileFields)

	if len(addParents) > 0 {
		call = call.AddParents(strings.Join(addParents, ","))
	}
	if len(removeParents) > 0 {
		call = call.RemoveParents(strings.Join(removeParents, ","))
	}

	driveFile, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to move file %s: %w", fileID, err)
	}

	return convertToFileInfo(driveFile), nil
}

// UploadFile uploads a file to Google Drive
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader, options *UploadOptions) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if content == nil {
		return nil, fmt.Errorf("file content is required")
	}

	file := &drive.File{
		Name: name,
	}
	if options != nil {
		if len(options.ParentFolders) > 0 {
			file.Parents = options.ParentFolders
		}
		if options.MimeType != "" {
			file.MimeType = options.MimeType
		}
	}

	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		Media(content, googleapi.ContentType(file.MimeType)).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file %s: %w", name, err)
	}

	return convertToFileInfo(driveFile), nil
}

// ListFolders lists non-trashed folders, optionally restricted to a parent
func (c *Client) ListFolders(ctx context.Context, parentID string) ([]*FileInfo, error) {
	query := fmt.Sprintf("mimeType='%s' and trashed=false", FolderMimeType)
	if parentID != "" {
		query += fmt.Sprintf(" and '%s' in parents", parentID)
	}
	return c.listAll(ctx, query)
}

// ListSpreadsheets lists non-trashed xlsx files inside a folder
func (c *Client) ListSpreadsheets(ctx context.Context, folderID string) ([]*FileInfo, error) {
	if folderID == "" {
		return nil, fmt.Errorf("folderID is required")
	}
	query := fmt.Sprintf("mimeType='%s' and '%s' in parents and trashed=false",
		SpreadsheetMimeType, folderID)
	return c.listAll(ctx, query)
}

// listAll pages through a Files.List query until exhausted
func (c *Client) listAll(ctx context.Context, query string) ([]*FileInfo, error) {
	var files []*FileInfo
	pageToken := ""
	for {
		call := c.service.Files.List().
			Context(ctx).
			Q(query).
			Fields(googleapi.Field("nextPageToken, files(" + fileFields + ")"))
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		fileList, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}
		for _, f := range fileList.Files {
			files = append(files, convertToFileInfo(f))
		}
		if fileList.NextPageToken == "" {
			return files, nil
		}
		pageToken = fileList.NextPageToken
	}
}

// GetFile retrieves metadata for a specific file
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	file, err := c.service.Files.Get(fileID).
		Context(ctx).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	return convertToFileInfo(file), nil
}

// DownloadFile downloads the content of a file
func (c *Client) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	resp, err := c.service.Files.Get(fileID).
		Context(ctx).
		Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}

	return resp.Body, nil
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
	}

	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			fileInfo.CreatedTime = t
		}
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}

	return fileInfo
}
