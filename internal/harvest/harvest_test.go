package harvest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prasadk/mailsift/internal/criterion"
	"github.com/prasadk/mailsift/internal/gmail"
)

type fakeMailStore struct {
	mu        sync.Mutex
	searchErr error
	queries   []string
	ids       []string
	details   map[string]*gmail.EmailDetail
	failIDs   map[string]bool
	fetches   int
}

func (f *fakeMailStore) SearchMessages(query string) ([]string, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.ids, nil
}

func (f *fakeMailStore) FetchEmailDetail(id string) (*gmail.EmailDetail, error) {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()
	if f.failIDs[id] {
		return nil, fmt.Errorf("fetch %s failed", id)
	}
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return &gmail.EmailDetail{ID: id}, nil
}

func mustResolve(t *testing.T, raw string) criterion.Criterion {
	t.Helper()
	c, err := criterion.Resolve(raw)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSearchComposesQuery(t *testing.T) {
	store := &fakeMailStore{}
	svc := NewService(store, nil, nil)

	_, err := svc.Search(context.Background(), mustResolve(t, "gruhas.com"))
	if err != nil {
		t.Fatal(err)
	}

	want := "from:*@gruhas.com has:attachment"
	if len(store.queries) != 1 || store.queries[0] != want {
		t.Errorf("query = %v, want [%q]", store.queries, want)
	}
}

func TestSearchFailsWhollyOnSearchError(t *testing.T) {
	store := &fakeMailStore{searchErr: errors.New("quota exceeded")}
	svc := NewService(store, nil, nil)

	if _, err := svc.Search(context.Background(), mustResolve(t, "gruhas.com")); err == nil {
		t.Fatal("expected error when the id search fails")
	}
}

func TestSearchEmptyResult(t *testing.T) {
	store := &fakeMailStore{}
	svc := NewService(store, nil, nil)

	result, err := svc.Search(context.Background(), mustResolve(t, "jane@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Emails) != 0 || result.Degraded != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestSearchIsolatesDetailFailures(t *testing.T) {
	store := &fakeMailStore{
		ids:     []string{"m1", "m2", "m3", "m4"},
		failIDs: map[string]bool{"m2": true, "m4": true},
		details: map[string]*gmail.EmailDetail{
			"m1": {ID: "m1", SortKey: 100, DateValid: true},
			"m3": {ID: "m3", SortKey: 300, DateValid: true},
		},
	}
	svc := NewService(store, nil, nil)

	result, err := svc.Search(context.Background(), mustResolve(t, "gruhas.com"))
	if err != nil {
		t.Fatalf("per-message failures must not fail the batch: %v", err)
	}
	if result.Degraded != 2 {
		t.Errorf("Degraded = %d, want 2", result.Degraded)
	}
	if len(result.Emails) != 2 {
		t.Fatalf("got %d emails, want 2", len(result.Emails))
	}
	if store.fetches != 4 {
		t.Errorf("fetches = %d, want 4 (failures must not cancel siblings)", store.fetches)
	}
}

func TestSearchSortsNewestFirst(t *testing.T) {
	store := &fakeMailStore{
		ids: []string{"m1", "m2", "m3"},
		details: map[string]*gmail.EmailDetail{
			"m1": {ID: "m1", SortKey: 100, DateValid: true},
			"m2": {ID: "m2", SortKey: 300, DateValid: true},
			"m3": {ID: "m3", SortKey: 200, DateValid: true},
		},
	}
	svc := NewService(store, nil, nil)

	result, err := svc.Search(context.Background(), mustResolve(t, "gruhas.com"))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"m2", "m3", "m1"}
	for i, e := range result.Emails {
		if e.ID != want[i] {
			t.Errorf("emails[%d] = %s, want %s", i, e.ID, want[i])
		}
	}
}

func TestSearchUnparsableDatesSortLast(t *testing.T) {
	store := &fakeMailStore{
		ids: []string{"m1", "m2", "m3", "m4"},
		details: map[string]*gmail.EmailDetail{
			"m1": {ID: "m1", DateValid: false},
			"m2": {ID: "m2", SortKey: 100, DateValid: true},
			"m3": {ID: "m3", DateValid: false},
			"m4": {ID: "m4", SortKey: 200, DateValid: true},
		},
	}
	svc := NewService(store, nil, nil)

	result, err := svc.Search(context.Background(), mustResolve(t, "gruhas.com"))
	if err != nil {
		t.Fatal(err)
	}

	// Dated emails first (newest first), then undated ordered by id.
	want := []string{"m4", "m2", "m1", "m3"}
	for i, e := range result.Emails {
		if e.ID != want[i] {
			t.Errorf("emails[%d] = %s, want %s", i, e.ID, want[i])
		}
	}
}

func TestSearchDeterministicTieBreak(t *testing.T) {
	store := &fakeMailStore{
		ids: []string{"mB", "mA"},
		details: map[string]*gmail.EmailDetail{
			"mA": {ID: "mA", SortKey: 100, DateValid: true},
			"mB": {ID: "mB", SortKey: 100, DateValid: true},
		},
	}
	svc := NewService(store, nil, nil)

	for range 5 {
		result, err := svc.Search(context.Background(), mustResolve(t, "gruhas.com"))
		if err != nil {
			t.Fatal(err)
		}
		if result.Emails[0].ID != "mA" || result.Emails[1].ID != "mB" {
			t.Fatalf("tie-break order not deterministic: %s, %s",
				result.Emails[0].ID, result.Emails[1].ID)
		}
	}
}

func TestSearchContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ids := make([]string, 100)
	for i := range ids {
		ids[i] = fmt.Sprintf("m%d", i)
	}
	store := &fakeMailStore{ids: ids}
	svc := NewService(store, nil, nil)

	if _, err := svc.Search(ctx, mustResolve(t, "gruhas.com")); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
