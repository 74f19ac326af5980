package cmd

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/prasadk/mailsift/internal/server"
)

func TestRegisterAllTools(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	ctx := context.Background()
	serverContext, err := server.NewServerContext(ctx, nil)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() {
		_ = serverContext.Shutdown()
	})

	mcpSrv := mcpserver.NewMCPServer("mailsift", "test",
		mcpserver.WithToolCapabilities(true),
	)

	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		t.Fatalf("registerAllTools() error = %v", err)
	}

	registered := make(map[string]bool)
	for _, st := range mcpSrv.ListTools() {
		registered[st.Tool.Name] = true
	}

	expected := []string{
		"mail_search_attachments",
		"mail_organize_attachments",
		"drive_analyze_folder",
		"google_get_auth_url",
		"google_save_auth_code",
	}
	for _, name := range expected {
		if !registered[name] {
			t.Errorf("tool %q not registered", name)
		}
	}
	if len(registered) != len(expected) {
		t.Errorf("registered %d tools, want %d: %v", len(registered), len(expected), registered)
	}
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"mail_search_attachments", "Mail Tools"},
		{"mail_organize_attachments", "Mail Tools"},
		{"drive_analyze_folder", "Google Drive Tools"},
		{"google_get_auth_url", "Google Auth Tools"},
		{"something_else", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getCategoryFromToolName(tt.name); got != tt.expected {
				t.Errorf("getCategoryFromToolName(%q) = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}
