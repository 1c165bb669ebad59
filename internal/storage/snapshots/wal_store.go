// Package snapshots journals portfolio snapshots so the web stream and restarts can replay them.
package snapshots

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
	"github.com/vadiminshakov/martifolio/internal/domain"
)

const (
	defaultSnapshotDir   = "./wal/portfolio"
	snapshotSegmentLimit = 1000
	snapshotMaxSegments  = 100
	snapshotKeyPrefix    = "portfolio_snapshot_"
)

var errNotInitialized = errors.New("portfolio snapshot store is not initialized")

// WALStore appends one record per computation cycle.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultSnapshotDir
	}

	wal, err := gowal.NewWAL(gowal.Config{
		Dir:              dir,
		Prefix:           "portfolio_",
		SegmentThreshold: snapshotSegmentLimit,
		MaxSegments:      snapshotMaxSegments,
		IsInSyncDiskMode: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init portfolio snapshot WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends snapshot and returns its index.
func (s *WALStore) Save(snapshot domain.PortfolioSnapshot) (uint64, error) {
	if s == nil || s.wal == nil {
		return 0, errNotInitialized
	}
	if snapshot.CycleID == "" {
		return 0, errors.New("portfolio snapshot cycle id is required")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return 0, errors.Wrap(err, "marshal portfolio snapshot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(index, snapshotKeyPrefix+snapshot.CycleID, payload); err != nil {
		return 0, errors.Wrap(err, "write portfolio snapshot")
	}
	return index, nil
}

// SnapshotsAfter returns snapshots written after index, oldest first.
func (s *WALStore) SnapshotsAfter(index uint64) ([]domain.PortfolioSnapshotRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errNotInitialized
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.PortfolioSnapshotRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		record, ok, err := s.get(idx)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, record)
		}
	}

	return records, nil
}

// Latest returns the most recent snapshot, if any.
func (s *WALStore) Latest() (domain.PortfolioSnapshotRecord, bool, error) {
	if s == nil || s.wal == nil {
		return domain.PortfolioSnapshotRecord{}, false, errNotInitialized
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for idx := s.wal.CurrentIndex(); idx > 0; idx-- {
		record, ok, err := s.get(idx)
		if err != nil || ok {
			return record, ok, err
		}
	}
	return domain.PortfolioSnapshotRecord{}, false, nil
}

func (s *WALStore) get(idx uint64) (domain.PortfolioSnapshotRecord, bool, error) {
	key, payload, ok := s.wal.Get(idx)
	if !ok || !strings.HasPrefix(key, snapshotKeyPrefix) {
		return domain.PortfolioSnapshotRecord{}, false, nil
	}

	var snapshot domain.PortfolioSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return domain.PortfolioSnapshotRecord{}, false, errors.Wrapf(err, "decode portfolio snapshot %d", idx)
	}
	return domain.PortfolioSnapshotRecord{Index: idx, Snapshot: snapshot}, true, nil
}

func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errNotInitialized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
