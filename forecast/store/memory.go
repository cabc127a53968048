// Package store provides SalesStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/labor-engine/forecast"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	entries map[salesKey]forecast.SalesEntry
}

type salesKey struct {
	LocationID forecast.LocationID
	Date       forecast.Date
	Kind       forecast.SalesKind
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[salesKey]forecast.SalesEntry)}
}

func (m *Memory) Get(_ context.Context, locationID forecast.LocationID, date forecast.Date, kind forecast.SalesKind) (*forecast.SalesEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[salesKey{LocationID: locationID, Date: date, Kind: kind}]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *Memory) LoadRange(_ context.Context, locationID forecast.LocationID, from, to forecast.Date, kind forecast.SalesKind) ([]forecast.SalesEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []forecast.SalesEntry
	for k, entry := range m.entries {
		if k.LocationID != locationID || k.Kind != kind {
			continue
		}
		if from.BeforeOrEqual(k.Date) && k.Date.BeforeOrEqual(to) {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// Put replaces the entry for the key or creates one.
func (m *Memory) Put(_ context.Context, entry forecast.SalesEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putLocked(entry)
	return nil
}

// PutBatch applies all entries under one lock. Callers validated already,
// so nothing here can fail partway.
func (m *Memory) PutBatch(_ context.Context, entries []forecast.SalesEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range entries {
		m.putLocked(entry)
	}
	return nil
}

func (m *Memory) putLocked(entry forecast.SalesEntry) {
	m.entries[salesKey{LocationID: entry.LocationID, Date: entry.Date, Kind: entry.Kind}] = entry
}

// Len reports the total entry count, handy in tests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
