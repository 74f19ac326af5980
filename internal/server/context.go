package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prasadk/mailsift/internal/drive"
	"github.com/prasadk/mailsift/internal/gmail"
	"github.com/prasadk/mailsift/internal/google"
	"github.com/prasadk/mailsift/internal/instrumentation"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx          context.Context
	cancel       context.CancelFunc
	gmailClients map[string]*gmail.Client // Maps account name to Gmail client
	driveClients map[string]*drive.Client // Maps account name to Drive client
	metrics      *instrumentation.Metrics
	logger       *slog.Logger
	mu           sync.RWMutex
	shutdown     bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, logger *slog.Logger) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if logger == nil {
		logger = slog.Default()
	}

	// Initialize client maps
	gmailClients := make(map[string]*gmail.Client)
	driveClients := make(map[string]*drive.Client)

	// Try to create default clients, but don't fail if the token is missing.
	// Clients will be lazily initialized when first needed.
	if google.HasToken() {
		gmailClient, err := gmail.NewClientForAccount(shutdownCtx, google.DefaultAccount)
		if err != nil {
			logger.Warn("failed to create Gmail client for default account", "error", err)
		} else {
			gmailClients[google.DefaultAccount] = gmailClient
		}

		driveClient, err := drive.NewClientForAccount(shutdownCtx, google.DefaultAccount)
		if err != nil {
			logger.Warn("failed to create Drive client for default account", "error", err)
		} else {
			driveClients[google.DefaultAccount] = driveClient
		}
	}

	return &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		gmailClients: gmailClients,
		driveClients: driveClients,
		logger:       logger,
		shutdown:     false,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// SetMetrics sets the metrics recorder used by tool handlers.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// Metrics returns the metrics recorder. May be nil when instrumentation
// is disabled; *instrumentation.Metrics is nil-safe.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// GmailClientForAccount returns the Gmail client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) GmailClientForAccount(account string) *gmail.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Check if client already exists
	if client, ok := sc.gmailClients[account]; ok {
		return client
	}

	// Try to create client if token exists
	if !google.HasTokenForAccount(account) {
		return nil
	}

	client, err := gmail.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Gmail client", "account", account, "error", err)
		return nil
	}

	sc.gmailClients[account] = client
	return client
}

// GmailClient returns the Gmail client for the default account
func (sc *ServerContext) GmailClient() *gmail.Client {
	return sc.GmailClientForAccount(google.DefaultAccount)
}

// SetGmailClientForAccount sets the Gmail client for a specific account
func (sc *ServerContext) SetGmailClientForAccount(account string, client *gmail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.gmailClients[account] = client
}

// DriveClientForAccount returns the Drive client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) DriveClientForAccount(account string) *drive.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Check if client already exists
	if client, ok := sc.driveClients[account]; ok {
		return client
	}

	// Try to create client if token exists
	if !google.HasTokenForAccount(account) {
		return nil
	}

	client, err := drive.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Drive client", "account", account, "error", err)
		return nil
	}

	sc.driveClients[account] = client
	return client
}

// DriveClient returns the Drive client for the default account
func (sc *ServerContext) DriveClient() *drive.Client {
	return sc.DriveClientForAccount(google.DefaultAccount)
}

// SetDriveClientForAccount sets the Drive client for a specific account
func (sc *ServerContext) SetDriveClientForAccount(account string, client *drive.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.driveClients[account] = client
}

// ResetClientsForAccount drops the cached clients for an account so the
// next use picks up a freshly saved token.
func (sc *ServerContext) ResetClientsForAccount(account string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	delete(sc.gmailClients, account)
	delete(sc.driveClients, account)
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
