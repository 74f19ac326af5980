package analyze

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/prasadk/mailsift/internal/drive"
	"github.com/prasadk/mailsift/internal/logging"
)

// FolderStore is the Drive surface the analyzer needs. *drive.Client
// satisfies it.
type FolderStore interface {
	ListSpreadsheets(ctx context.Context, folderID string) ([]*drive.FileInfo, error)
	DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// Analyzer answers questions about a prepared data context. *Client
// satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, dataContext, query string) (string, error)
}

// Service analyzes every spreadsheet in a Drive folder.
type Service struct {
	files    FolderStore
	analyzer Analyzer
	logger   *slog.Logger
}

// NewService creates an analysis service. logger may be nil.
func NewService(files FolderStore, analyzer Analyzer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{files: files, analyzer: analyzer, logger: logger}
}

// AnalyzeFolder downloads every xlsx file in the folder, extracts its
// financial metrics and asks the analysis model the query once per file.
// Files are analyzed concurrently; a failing file degrades to an error line
// in the combined output instead of failing the whole call.
func (s *Service) AnalyzeFolder(ctx context.Context, folderID, query string) (string, error) {
	if folderID == "" {
		return "", fmt.Errorf("folderID is required")
	}
	if query == "" {
		return "", fmt.Errorf("query is required")
	}

	logger := logging.WithOperation(s.logger, "analyze.folder")

	files, err := s.files.ListSpreadsheets(ctx, folderID)
	if err != nil {
		return "", fmt.Errorf("failed to list spreadsheets: %w", err)
	}
	if len(files) == 0 {
		return "No spreadsheets found in the folder.", nil
	}

	sections := make([]string, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file *drive.FileInfo) {
			defer wg.Done()
			answer, err := s.analyzeFile(ctx, file, query)
			if err != nil {
				logger.Warn("spreadsheet analysis failed",
					logging.Filename(file.Name), logging.Err(err))
				sections[i] = fmt.Sprintf("## %s\nanalysis failed: %v", file.Name, err)
				return
			}
			sections[i] = fmt.Sprintf("## %s\n%s", file.Name, answer)
		}(i, file)
	}
	wg.Wait()

	return strings.Join(sections, "\n\n"), nil
}

func (s *Service) analyzeFile(ctx context.Context, file *drive.FileInfo, query string) (string, error) {
	rc, err := s.files.DownloadFile(ctx, file.ID)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	metrics, err := ExtractMetrics(rc)
	if err != nil {
		return "", err
	}

	return s.analyzer.Analyze(ctx, BuildContext(file.Name, metrics), query)
}
