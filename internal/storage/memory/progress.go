package memory

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/julianstephens/focuslit/internal/models"
)

type progressEntry struct {
	mu  sync.Mutex
	rec models.ProgressRecord
}

// progressIndex maps (user, day) to a single record. The index lock is held
// only to find or create an entry; the merge itself runs under the entry's
// own lock so writers to different keys never contend.
type progressIndex struct {
	mu      sync.RWMutex
	next    atomic.Int64
	entries map[models.ProgressKey]*progressEntry
}

func newProgressIndex() *progressIndex {
	return &progressIndex{entries: make(map[models.ProgressKey]*progressEntry)}
}

func (p *progressIndex) entry(key models.ProgressKey) *progressEntry {
	p.mu.RLock()
	e, ok := p.entries[key]
	p.mu.RUnlock()
	if ok {
		return e
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.entries[key]; ok {
		return e
	}
	rec := models.NewProgressRecord(key)
	rec.ID = p.next.Add(1)
	e = &progressEntry{rec: rec}
	p.entries[key] = e
	return e
}

func (p *progressIndex) upsert(key models.ProgressKey, delta models.ProgressDelta) models.ProgressRecord {
	e := p.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()
	delta.Apply(&e.rec)
	return e.rec
}

func (p *progressIndex) get(key models.ProgressKey) (models.ProgressRecord, bool) {
	p.mu.RLock()
	e, ok := p.entries[key]
	p.mu.RUnlock()
	if !ok {
		return models.ProgressRecord{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec, true
}

func (p *progressIndex) since(userID int64, since models.Day) []models.ProgressRecord {
	p.mu.RLock()
	var matched []*progressEntry
	for key, e := range p.entries {
		if key.UserID == userID && key.Day >= since {
			matched = append(matched, e)
		}
	}
	p.mu.RUnlock()

	out := make([]models.ProgressRecord, 0, len(matched))
	for _, e := range matched {
		e.mu.Lock()
		out = append(out, e.rec)
		e.mu.Unlock()
	}
	slices.SortFunc(out, func(a, b models.ProgressRecord) int {
		return a.Date.Compare(b.Date)
	})
	return out
}
