package ops

import (
	"context"
	"sort"
	"sync"
)

type MemDB struct {
	mu      sync.RWMutex
	tallies map[string]map[string]int64
}

func NewMemDB() *MemDB {
	return &MemDB{
		tallies: make(map[string]map[string]int64),
	}
}

func (m *MemDB) IncrementTallies(_ context.Context, name string, counts map[string]int64) error {
	if len(counts) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tallies[name]
	if !ok {
		t = make(map[string]int64)
		m.tallies[name] = t
	}
	for k, c := range counts {
		t[k] += c
	}
	return nil
}

func (m *MemDB) GetTallies(_ context.Context, name string) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := make(map[string]int64, len(m.tallies[name]))
	for k, c := range m.tallies[name] {
		ret[k] = c
	}
	return ret, nil
}

func (m *MemDB) ListTallied(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := make([]string, 0, len(m.tallies))
	for name := range m.tallies {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret, nil
}

var _ TallyDB = (*MemDB)(nil)
