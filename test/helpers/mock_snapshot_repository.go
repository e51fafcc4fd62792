package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/idleprofit-go/internal/application/common"
)

// MockSnapshotRepository keeps the latest payload of each feed in memory
type MockSnapshotRepository struct {
	mu        sync.RWMutex
	snapshots map[common.SnapshotKind]*common.StoredSnapshot
	Saves     int
}

// NewMockSnapshotRepository creates an empty mock snapshot repository
func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{snapshots: make(map[common.SnapshotKind]*common.StoredSnapshot)}
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snapshot *common.StoredSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshot.Kind] = snapshot
	m.Saves++
	return nil
}

func (m *MockSnapshotRepository) Latest(ctx context.Context, kind common.SnapshotKind) (*common.StoredSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot, ok := m.snapshots[kind]
	if !ok {
		return nil, common.ErrSnapshotNotFound
	}
	return snapshot, nil
}
