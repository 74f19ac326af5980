// Package google handles OAuth2 authentication for the Google APIs used by
// mailsift (Gmail and Drive). Tokens are cached on disk per account so a user
// only has to authorize once per account.
package google
