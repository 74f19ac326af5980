package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/prasadk/mailsift/internal/criterion"
	"github.com/prasadk/mailsift/internal/gmail"
	"github.com/prasadk/mailsift/internal/instrumentation"
	"github.com/prasadk/mailsift/internal/logging"
)

// defaultConcurrency bounds parallel message detail fetches.
const defaultConcurrency = 5

// MailStore is the Gmail surface the harvester needs. *gmail.Client
// satisfies it.
type MailStore interface {
	SearchMessages(query string) ([]string, error)
	FetchEmailDetail(messageID string) (*gmail.EmailDetail, error)
}

// Result is the outcome of one harvest. Degraded counts messages whose
// detail fetch failed; those messages are absent from Emails but the rest of
// the batch is unaffected.
type Result struct {
	Emails   []*gmail.EmailDetail
	Degraded int
}

// Service harvests attachment-bearing messages matching a criterion.
type Service struct {
	mail        MailStore
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
	concurrency int
}

// NewService creates a harvest service. logger and metrics may be nil.
func NewService(mail MailStore, logger *slog.Logger, metrics *instrumentation.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		mail:        mail,
		logger:      logger,
		metrics:     metrics,
		concurrency: defaultConcurrency,
	}
}

// Search finds all messages matching the criterion that carry attachments
// and returns their normalized details, newest first.
//
// The id search is all-or-nothing: a failed page aborts the whole call.
// Detail fetches run concurrently and fail independently; failures are
// logged, counted in Result.Degraded and never cancel sibling fetches.
func (s *Service) Search(ctx context.Context, c criterion.Criterion) (*Result, error) {
	query := c.Predicate() + " has:attachment"
	logger := logging.WithOperation(s.logger, "harvest.search")
	logger.Debug("searching messages", logging.Query(query))

	ids, err := s.mail.SearchMessages(query)
	if err != nil {
		return nil, fmt.Errorf("message search failed: %w", err)
	}
	if len(ids) == 0 {
		return &Result{}, nil
	}

	details := make([]*gmail.EmailDetail, len(ids))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, id := range ids {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()

			detail, err := s.mail.FetchEmailDetail(id)
			if err != nil {
				logger.Warn("skipping message, detail fetch failed",
					logging.MessageID(id), logging.Err(err))
				return
			}
			details[i] = detail
		}(i, id)
	}
	wg.Wait()

	result := &Result{}
	for _, d := range details {
		if d == nil {
			result.Degraded++
			continue
		}
		result.Emails = append(result.Emails, d)
	}
	sortEmails(result.Emails)

	s.metrics.RecordMessagesHarvested(ctx, int64(len(result.Emails)), int64(result.Degraded))
	logger.Info("harvest complete",
		slog.Int("messages", len(result.Emails)),
		slog.Int("degraded", result.Degraded))

	return result, nil
}

// sortEmails orders newest first. Emails whose Date header could not be
// parsed sort after every dated email; ties break on message id so the
// order is a deterministic total order.
func sortEmails(emails []*gmail.EmailDetail) {
	sort.SliceStable(emails, func(i, j int) bool {
		a, b := emails[i], emails[j]
		if a.DateValid != b.DateValid {
			return a.DateValid
		}
		if a.DateValid && a.SortKey != b.SortKey {
			return a.SortKey > b.SortKey
		}
		return a.ID < b.ID
	})
}
