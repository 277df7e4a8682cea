package usecase

import (
	"context"
	"errors"
	"fmt"
	"mercadona-parser-service/internal/core/domain"
	"net/http"
	"sync"
)

// stubCatalog отвечает 200 только для заданных ID и отдает заранее заготовленные товары по складам
type stubCatalog struct {
	mu sync.Mutex

	valid      map[string]map[int]bool
	products   map[string]map[int][]string
	failProbe  map[int]bool
	failFetch  map[int]bool
	probeCalls int
	fetchCalls int
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		valid:     map[string]map[int]bool{},
		products:  map[string]map[int][]string{},
		failProbe: map[int]bool{},
		failFetch: map[int]bool{},
	}
}

func (s *stubCatalog) addCategory(warehouse string, categoryID int, productIDs ...string) {
	if s.valid[warehouse] == nil {
		s.valid[warehouse] = map[int]bool{}
		s.products[warehouse] = map[int][]string{}
	}
	s.valid[warehouse][categoryID] = true
	s.products[warehouse][categoryID] = productIDs
}

func (s *stubCatalog) ProbeCategory(_ context.Context, categoryID int, warehouse, _ string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeCalls++

	if s.failProbe[categoryID] {
		return 0, errors.New("connection reset by peer")
	}
	if s.valid[warehouse][categoryID] {
		return http.StatusOK, nil
	}
	return http.StatusNotFound, nil
}

func (s *stubCatalog) FetchCategoryProducts(_ context.Context, categoryID int, warehouse, _ string) ([]domain.ProductRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchCalls++

	if s.failFetch[categoryID] {
		return nil, fmt.Errorf("unexpected status %d", http.StatusInternalServerError)
	}

	ids := s.products[warehouse][categoryID]
	records := make([]domain.ProductRecord, 0, len(ids))
	for _, id := range ids {
		id := id
		name := "Producto " + id
		records = append(records, domain.ProductRecord{ProductID: &id, Name: &name})
	}
	return records, nil
}

type memorySnapshotWriter struct {
	written []domain.Snapshot
	err     error
}

func (w *memorySnapshotWriter) Write(_ context.Context, snapshot domain.Snapshot) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.written = append(w.written, snapshot)
	return fmt.Sprintf("mem/%s_%s.csv", snapshot.Scope.RegionKey, snapshot.Date.Format(domain.DateLayout)), nil
}

type recordingArchive struct {
	name     string
	err      error
	archived int
}

func (a *recordingArchive) Name() string { return a.name }

func (a *recordingArchive) Archive(_ context.Context, snapshot domain.Snapshot, _ string) error {
	if a.err != nil {
		return a.err
	}
	a.archived += len(snapshot.Records)
	return nil
}

type recordingNotifier struct {
	summaries []domain.SnapshotSummary
	err       error
}

func (n *recordingNotifier) NotifySnapshotWritten(_ context.Context, summary domain.SnapshotSummary) error {
	n.summaries = append(n.summaries, summary)
	return n.err
}

type memoryPriceReader struct {
	files map[string][]domain.PricePoint
	reads int
}

func (r *memoryPriceReader) ReadPrices(_ context.Context, path string) ([]domain.PricePoint, error) {
	r.reads++
	points, ok := r.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", path)
	}
	return points, nil
}
