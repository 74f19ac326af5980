// Package drive provides a client for interacting with the Google Drive API.
//
// This package covers the Drive surface mailsift needs for reorganizing
// attachments:
//   - Creating and renaming folders
//   - Uploading files into folders
//   - Listing folders and spreadsheets
//   - Moving files between folders
//   - Downloading file content (for spreadsheet analysis)
//
// The client supports multi-account functionality; each instance is bound to
// a specific account. OAuth tokens come from the google package.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := drive.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	folder, err := client.CreateFolder(ctx, "Attachments", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_, err = client.UploadFile(ctx, "report.xlsx", bytes.NewReader(content), &drive.UploadOptions{
//	    ParentFolders: []string{folder.ID},
//	})
package drive
