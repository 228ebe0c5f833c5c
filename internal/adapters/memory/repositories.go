package memory

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"kmfi/internal/domain"
	"kmfi/internal/ingest"
	"kmfi/internal/ports"
	"kmfi/internal/scoring"
)

type storedRecord struct {
	companyID string
	raw       json.RawMessage
}

// Store keeps cycles, raw company records and snapshots in memory. Records
// are held undecoded, the way the Postgres adapter holds them in JSONB, and
// it satisfies the same repository ports.
type Store struct {
	mu        sync.RWMutex
	cycles    map[string]domain.Cycle
	records   map[string][]storedRecord
	snapshots []ports.CycleReport
}

func NewStore() *Store {
	return &Store{
		cycles:  make(map[string]domain.Cycle),
		records: make(map[string][]storedRecord),
	}
}

func (s *Store) PutCycle(c domain.Cycle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles[c.ID] = c
}

// PutRawCompanyRecords stores records as received, malformed ones included.
func (s *Store) PutRawCompanyRecords(cycleID string, raws ...json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, raw := range raws {
		s.records[cycleID] = append(s.records[cycleID], storedRecord{companyID: ingest.RecordID(raw), raw: raw})
	}
}

// LoadRecords reads a company records file into cycleID and returns how many
// records it held.
func (s *Store) LoadRecords(cycleID string, r io.Reader) (int, error) {
	raws, err := ingest.SplitRecords(r)
	if err != nil {
		return 0, err
	}
	s.PutRawCompanyRecords(cycleID, raws...)
	return len(raws), nil
}

func (s *Store) GetCycle(_ context.Context, cycleID string) (domain.Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cycles[cycleID]
	if !ok {
		return domain.Cycle{}, ports.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListCompanyRecords(_ context.Context, cycleID string) ([]ingest.CompanyRecord, []scoring.EntityError, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.cycles[cycleID]; !ok {
		return nil, nil, ports.ErrNotFound
	}
	stored := s.records[cycleID]
	out := make([]ingest.CompanyRecord, 0, len(stored))
	var failed []scoring.EntityError
	for _, sr := range stored {
		rec, err := ingest.DecodeCompany(sr.raw)
		if err != nil {
			failed = append(failed, scoring.EntityError{CompanyID: sr.companyID, Err: err})
			continue
		}
		out = append(out, rec)
	}
	return out, failed, nil
}

func (s *Store) GetCompanyRecord(_ context.Context, cycleID, companyID string) (ingest.CompanyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sr := range s.records[cycleID] {
		if sr.companyID == companyID {
			return ingest.DecodeCompany(sr.raw)
		}
	}
	return ingest.CompanyRecord{}, ports.ErrNotFound
}

func (s *Store) SaveSnapshot(_ context.Context, report ports.CycleReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, report)
	return nil
}

// Snapshots returns every saved report in save order.
func (s *Store) Snapshots() []ports.CycleReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ports.CycleReport, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}
