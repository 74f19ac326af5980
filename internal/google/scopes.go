package google

// DefaultOAuthScopes are the Google OAuth scopes mailsift requires.
//
// The scopes provide access to:
//   - Gmail: read-only (searching messages and downloading attachments)
//   - Google Drive: full access (creating folders, uploading files)
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Gmail scope (read-only; mailsift never modifies the mailbox)
	"https://www.googleapis.com/auth/gmail.readonly",

	// Google Drive scope (folder creation, renames and uploads)
	"https://www.googleapis.com/auth/drive",
}
