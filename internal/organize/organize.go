package organize

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/prasadk/mailsift/internal/categorize"
	"github.com/prasadk/mailsift/internal/drive"
	"github.com/prasadk/mailsift/internal/gmail"
	"github.com/prasadk/mailsift/internal/instrumentation"
	"github.com/prasadk/mailsift/internal/logging"
)

// NoDateFolder holds attachments of emails whose Date header never parsed
// (dated mode only).
const NoDateFolder = "No-Date"

// FileStore is the Drive surface the organizer needs. *drive.Client
// satisfies it.
type FileStore interface {
	CreateFolder(ctx context.Context, name string, parentFolders []string) (*drive.FileInfo, error)
	RenameFile(ctx context.Context, fileID, newName string) (*drive.FileInfo, error)
	UploadFile(ctx context.Context, name string, content io.Reader, options *drive.UploadOptions) (*drive.FileInfo, error)
}

// AttachmentSource fetches attachment content. *gmail.Client satisfies it.
type AttachmentSource interface {
	GetAttachment(messageID, attachmentID string) ([]byte, error)
}

// Mode selects the destination folder layout.
type Mode int

const (
	// ModeFlat uploads everything directly under the destination folder.
	ModeFlat Mode = iota
	// ModeDated nests year/month subfolders derived from each email's date.
	ModeDated
	// ModeCategorized nests date/category/subcategory subfolders derived
	// from each attachment's filename.
	ModeCategorized
)

// ParseMode converts a mode name from CLI or tool input.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "flat":
		return ModeFlat, nil
	case "dated":
		return ModeDated, nil
	case "categorized":
		return ModeCategorized, nil
	}
	return 0, fmt.Errorf("unknown mode %q: must be flat, dated or categorized", s)
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeFlat:
		return "flat"
	case ModeDated:
		return "dated"
	case ModeCategorized:
		return "categorized"
	default:
		return "unknown"
	}
}

// Progress reports how many upload attempts have finished. Processed is
// non-decreasing and reaches Total exactly once, at run completion.
type Progress struct {
	Processed int
	Total     int
}

// Result summarizes one organize run. Completion of the run does not imply
// per-item success; consult Failed.
type Result struct {
	RootFolderID string
	Uploaded     int
	Failed       int
	Total        int
}

// Organizer uploads harvested attachments into a Drive folder hierarchy.
// A single Organizer may serve multiple runs, but two concurrent runs
// against the same destination are not supported.
type Organizer struct {
	files   FileStore
	mail    AttachmentSource
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewOrganizer creates an organizer. logger and metrics may be nil.
func NewOrganizer(files FileStore, mail AttachmentSource, logger *slog.Logger, metrics *instrumentation.Metrics) *Organizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Organizer{files: files, mail: mail, logger: logger, metrics: metrics}
}

// folderKey identifies a folder within one run's cache.
type folderKey struct {
	parentID string
	name     string
}

// run holds the per-run mutable state: the folder cache and the progress
// counter. Neither survives the run.
type run struct {
	org        *Organizer
	logger     *slog.Logger
	folders    map[folderKey]string
	progress   Progress
	onProgress func(Progress)
	result     *Result
}

// Run creates the destination hierarchy and uploads every attachment of the
// given emails, sequentially. Root folder creation failure is fatal; any
// later per-item failure is logged, counted and skipped.
func (o *Organizer) Run(ctx context.Context, emails []*gmail.EmailDetail, destName string, mode Mode, onProgress func(Progress)) (*Result, error) {
	if destName == "" {
		return nil, fmt.Errorf("destination folder name is required")
	}

	total := 0
	for _, e := range emails {
		total += len(e.Attachments)
	}

	logger := logging.WithOperation(o.logger, "organize.run")
	r := &run{
		org:        o,
		logger:     logger,
		folders:    make(map[folderKey]string),
		progress:   Progress{Total: total},
		onProgress: onProgress,
		result:     &Result{Total: total},
	}

	rootID, err := r.ensureFolder(ctx, destName, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create destination folder: %w", err)
	}
	r.result.RootFolderID = rootID

	if total == 0 {
		r.emitProgress(ctx)
		return r.result, nil
	}

	switch mode {
	case ModeDated:
		r.runDated(ctx, emails, rootID)
	case ModeCategorized:
		r.runCategorized(ctx, emails, rootID)
	default:
		r.runFlat(ctx, emails, rootID)
	}

	logger.Info("organize complete",
		slog.String("mode", mode.String()),
		slog.Int("uploaded", r.result.Uploaded),
		slog.Int("failed", r.result.Failed),
		slog.Int("total", r.result.Total))

	return r.result, nil
}

func (r *run) runFlat(ctx context.Context, emails []*gmail.EmailDetail, rootID string) {
	for _, e := range emails {
		for _, att := range e.Attachments {
			r.upload(ctx, att, rootID)
		}
	}
}

// runDated groups attachments into root/year/"NN - MonthName" folders. Years
// appear in email encounter order, months ascending. Month folders are
// created with the bare two-digit number and then renamed so that stores
// sorting folders by name list them chronologically.
func (r *run) runDated(ctx context.Context, emails []*gmail.EmailDetail, rootID string) {
	var yearOrder []string
	months := make(map[string]map[int][]*gmail.Attachment)
	var noDate []*gmail.Attachment

	for _, e := range emails {
		t, ok := e.ParsedTime()
		if !ok {
			noDate = append(noDate, e.Attachments...)
			continue
		}
		year := fmt.Sprintf("%d", t.Year())
		if _, seen := months[year]; !seen {
			yearOrder = append(yearOrder, year)
			months[year] = make(map[int][]*gmail.Attachment)
		}
		m := int(t.Month())
		months[year][m] = append(months[year][m], e.Attachments...)
	}

	for _, year := range yearOrder {
		yearID, err := r.ensureFolder(ctx, year, rootID)
		if err != nil {
			r.logger.Warn("skipping year, folder creation failed",
				logging.Folder(year), logging.Err(err))
			for _, atts := range months[year] {
				r.failAll(ctx, atts)
			}
			continue
		}

		keys := make([]int, 0, len(months[year]))
		for m := range months[year] {
			keys = append(keys, m)
		}
		sort.Ints(keys)

		for _, m := range keys {
			monthID, err := r.ensureMonthFolder(ctx, m, yearID)
			if err != nil {
				r.logger.Warn("skipping month, folder creation failed",
					logging.Folder(fmt.Sprintf("%s/%02d", year, m)), logging.Err(err))
				r.failAll(ctx, months[year][m])
				continue
			}
			for _, att := range months[year][m] {
				r.upload(ctx, att, monthID)
			}
		}
	}

	if len(noDate) > 0 {
		folderID, err := r.ensureFolder(ctx, NoDateFolder, rootID)
		if err != nil {
			r.logger.Warn("skipping undated attachments, folder creation failed",
				logging.Folder(NoDateFolder), logging.Err(err))
			r.failAll(ctx, noDate)
			return
		}
		for _, att := range noDate {
			r.upload(ctx, att, folderID)
		}
	}
}

// runCategorized uploads each attachment under the path derived from its
// filename: datePath/category/subcategory.
func (r *run) runCategorized(ctx context.Context, emails []*gmail.EmailDetail, rootID string) {
	for _, e := range emails {
		for _, att := range e.Attachments {
			path := categorize.Categorize(att.Filename)
			parentID := rootID
			ok := true
			for _, segment := range strings.Split(path.Path(), "/") {
				id, err := r.ensureFolder(ctx, segment, parentID)
				if err != nil {
					r.logger.Warn("skipping attachment, folder creation failed",
						logging.Folder(segment), logging.Err(err))
					r.fail(ctx)
					ok = false
					break
				}
				parentID = id
			}
			if ok {
				r.upload(ctx, att, parentID)
			}
		}
	}
}

// ensureFolder creates a folder at most once per (parent, name) pair for
// the duration of the run.
func (r *run) ensureFolder(ctx context.Context, name, parentID string) (string, error) {
	key := folderKey{parentID: parentID, name: name}
	if id, ok := r.folders[key]; ok {
		return id, nil
	}

	var parents []string
	if parentID != "" {
		parents = []string{parentID}
	}
	info, err := r.org.files.CreateFolder(ctx, name, parents)
	if err != nil {
		return "", err
	}
	r.folders[key] = info.ID
	return info.ID, nil
}

// ensureMonthFolder creates a month folder named "NN" and renames it to
// "NN - MonthName". The cache key uses the bare number so the rename
// happens at most once per run.
func (r *run) ensureMonthFolder(ctx context.Context, month int, yearID string) (string, error) {
	numeric := fmt.Sprintf("%02d", month)
	key := folderKey{parentID: yearID, name: numeric}
	if id, ok := r.folders[key]; ok {
		return id, nil
	}

	info, err := r.org.files.CreateFolder(ctx, numeric, []string{yearID})
	if err != nil {
		return "", err
	}

	display := fmt.Sprintf("%s - %s", numeric, monthName(month))
	if _, err := r.org.files.RenameFile(ctx, info.ID, display); err != nil {
		// The folder exists and is usable; keep the numeric name.
		r.logger.Warn("month folder rename failed",
			logging.Folder(display), logging.Err(err))
	}

	r.folders[key] = info.ID
	return info.ID, nil
}

// upload fetches one attachment and uploads it, then advances progress
// regardless of outcome. Inline attachments already carry their content and
// need no fetch.
func (r *run) upload(ctx context.Context, att *gmail.Attachment, folderID string) {
	data := att.Data
	if att.AttachmentID != "" {
		var err error
		data, err = r.org.mail.GetAttachment(att.MessageID, att.AttachmentID)
		if err != nil {
			r.logger.Warn("attachment fetch failed",
				logging.MessageID(att.MessageID), logging.Filename(att.Filename), logging.Err(err))
			r.fail(ctx)
			return
		}
	}

	name := gmail.SanitizeFilename(att.Filename)
	opts := &drive.UploadOptions{
		ParentFolders: []string{folderID},
		MimeType:      att.MimeType,
	}
	if _, err := r.org.files.UploadFile(ctx, name, bytes.NewReader(data), opts); err != nil {
		r.logger.Warn("attachment upload failed",
			logging.Filename(att.Filename), logging.Err(err))
		r.fail(ctx)
		return
	}

	r.result.Uploaded++
	r.org.metrics.RecordAttachmentOrganized(ctx, logging.StatusSuccess)
	r.advance(ctx)
}

// fail records one failed attempt and advances progress. Callers log the
// cause before calling.
func (r *run) fail(ctx context.Context) {
	r.result.Failed++
	r.org.metrics.RecordAttachmentOrganized(ctx, logging.StatusError)
	r.advance(ctx)
}

// failAll records a group of attachments as failed, advancing progress for
// each so the counter still reaches Total.
func (r *run) failAll(ctx context.Context, atts []*gmail.Attachment) {
	for range atts {
		r.fail(ctx)
	}
}

func (r *run) advance(ctx context.Context) {
	r.progress.Processed++
	r.emitProgress(ctx)
}

func (r *run) emitProgress(ctx context.Context) {
	r.org.metrics.RecordOrganizeProgress(ctx, int64(r.progress.Processed), int64(r.progress.Total))
	if r.onProgress != nil {
		r.onProgress(r.progress)
	}
}

// monthName returns the English month name for a 1-based month number.
func monthName(m int) string {
	names := []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	if m < 1 || m > 12 {
		return "Unknown"
	}
	return names[m-1]
}
