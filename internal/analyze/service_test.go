package analyze

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/prasadk/mailsift/internal/drive"
	"github.com/xuri/excelize/v2"
)

type fakeFolderStore struct {
	files    []*drive.FileInfo
	listErr  error
	contents map[string][]byte
	failDL   map[string]bool
}

func (f *fakeFolderStore) ListSpreadsheets(ctx context.Context, folderID string) ([]*drive.FileInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files, nil
}

func (f *fakeFolderStore) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if f.failDL[fileID] {
		return nil, fmt.Errorf("download %s failed", fileID)
	}
	return io.NopCloser(bytes.NewReader(f.contents[fileID])), nil
}

type fakeAnalyzer struct {
	answer string
	err    error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, dataContext, query string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func xlsxContent(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Month", "Revenue"}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Jan", "1000"}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAnalyzeFolder(t *testing.T) {
	content := xlsxContent(t)
	store := &fakeFolderStore{
		files: []*drive.FileInfo{
			{ID: "f1", Name: "jan.xlsx"},
			{ID: "f2", Name: "feb.xlsx"},
		},
		contents: map[string][]byte{"f1": content, "f2": content},
	}
	svc := NewService(store, &fakeAnalyzer{answer: "revenue grew"}, nil)

	out, err := svc.AnalyzeFolder(context.Background(), "folder-1", "how did revenue develop?")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"## jan.xlsx", "## feb.xlsx", "revenue grew"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeFolderPerFileFailureDegrades(t *testing.T) {
	content := xlsxContent(t)
	store := &fakeFolderStore{
		files: []*drive.FileInfo{
			{ID: "f1", Name: "good.xlsx"},
			{ID: "f2", Name: "broken.xlsx"},
		},
		contents: map[string][]byte{"f1": content},
		failDL:   map[string]bool{"f2": true},
	}
	svc := NewService(store, &fakeAnalyzer{answer: "fine"}, nil)

	out, err := svc.AnalyzeFolder(context.Background(), "folder-1", "q")
	if err != nil {
		t.Fatalf("one broken file must not fail the whole folder: %v", err)
	}
	if !strings.Contains(out, "## good.xlsx\nfine") {
		t.Errorf("output missing healthy file section:\n%s", out)
	}
	if !strings.Contains(out, "## broken.xlsx\nanalysis failed") {
		t.Errorf("output missing degraded file section:\n%s", out)
	}
}

func TestAnalyzeFolderListFailureIsFatal(t *testing.T) {
	store := &fakeFolderStore{listErr: errors.New("permission denied")}
	svc := NewService(store, &fakeAnalyzer{}, nil)

	if _, err := svc.AnalyzeFolder(context.Background(), "folder-1", "q"); err == nil {
		t.Error("expected error when folder listing fails")
	}
}

func TestAnalyzeFolderEmpty(t *testing.T) {
	svc := NewService(&fakeFolderStore{}, &fakeAnalyzer{}, nil)

	out, err := svc.AnalyzeFolder(context.Background(), "folder-1", "q")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No spreadsheets") {
		t.Errorf("output = %q, want empty-folder notice", out)
	}
}

func TestAnalyzeFolderValidation(t *testing.T) {
	svc := NewService(&fakeFolderStore{}, &fakeAnalyzer{}, nil)
	if _, err := svc.AnalyzeFolder(context.Background(), "", "q"); err == nil {
		t.Error("expected error for empty folderID")
	}
	if _, err := svc.AnalyzeFolder(context.Background(), "folder-1", ""); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(); err == nil {
		t.Error("expected error without OPENAI_API_KEY")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	if _, err := NewClient(); err != nil {
		t.Errorf("NewClient with key: %v", err)
	}
}
