// Package gmail provides a client for interacting with the Gmail API.
//
// This package covers the read-only Gmail surface mailsift needs:
//   - Searching messages by query with full pagination
//   - Fetching message details and normalizing them into EmailDetail values
//   - Walking nested MIME part trees to collect attachments
//   - Downloading attachment content (base64url decoded, size capped)
//
// The client supports multi-account authentication using the Google OAuth2
// flow; tokens are loaded from the file system (~/.cache/mailsift/).
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ids, err := client.SearchMessages("from:*@example.com has:attachment")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, id := range ids {
//	    detail, err := client.FetchEmailDetail(id)
//	    ...
//	}
package gmail
