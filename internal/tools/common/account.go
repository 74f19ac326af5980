package common

import (
	"github.com/prasadk/mailsift/internal/google"
)

// GetAccountFromArgs extracts the account name from request arguments.
// Falls back to the default account when no account is given.
func GetAccountFromArgs(args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return google.DefaultAccount
}
