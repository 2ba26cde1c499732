package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory buckets entries by calendar day and purges every stale bucket
// wholesale before any access. Entries never expire mid-day and all vanish
// together at day rollover. Nothing survives a restart; the sqlite store is
// the durable alternative.
type Memory struct {
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]map[string][]byte // day -> username -> pdf
}

func NewMemory() *Memory {
	return &Memory{
		now:     time.Now,
		buckets: make(map[string]map[string][]byte),
	}
}

func (m *Memory) Get(_ context.Context, username string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := m.purgeLocked()
	pdf, ok := m.buckets[day][username]
	if !ok {
		return nil, ErrNotFound
	}
	return pdf, nil
}

func (m *Memory) Put(_ context.Context, username string, pdf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := m.purgeLocked()
	bucket := m.buckets[day]
	if bucket == nil {
		bucket = make(map[string][]byte)
		m.buckets[day] = bucket
	}
	bucket[username] = append([]byte(nil), pdf...)
	return nil
}

func (m *Memory) Owners(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := m.purgeLocked()
	owners := make([]string, 0, len(m.buckets[day]))
	for username := range m.buckets[day] {
		owners = append(owners, username)
	}
	sort.Strings(owners)
	return owners, nil
}

func (m *Memory) Close() error { return nil }

// purgeLocked drops every bucket from a previous day and returns today's key.
func (m *Memory) purgeLocked() string {
	day := m.now().Format("2006-01-02")
	for d := range m.buckets {
		if d != day {
			delete(m.buckets, d)
		}
	}
	return day
}
