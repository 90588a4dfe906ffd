package globalchat

import (
	"sync"
	"time"
)

const (
	defaultMaxRecords = 5000
	defaultRecordAge  = 24 * time.Hour

	// How long a message id stays marked delete-pending. The platform
	// reports the bot's own deletions asynchronously, so entries must
	// outlive the delete calls themselves; they expire instead of
	// being cleared eagerly so a failed delete can never wedge the
	// suppression set.
	deletePendingTTL = 10 * time.Second
)

// Record is the correspondence table entry for one relayed message:
// where it came from, and the id of the copy posted into every other
// linked channel.
type Record struct {
	SourceCommunityID string
	SourceChannelID   string
	SourceMessageID   string
	Copies            map[string]string // destination channel id -> copy message id
	CreatedAt         time.Time
}

// Tracker holds relay correspondence records with a reverse index so
// that a reaction or deletion on any copy finds its siblings in O(1).
// It is a cache with bounded size and age, not a permanent log.
type Tracker struct {
	mu         sync.RWMutex
	records    map[string]*Record // keyed by source message id
	index      map[string]string  // any tracked message id -> source message id
	pending    map[string]time.Time
	maxRecords int
	maxAge     time.Duration
}

func NewTracker() *Tracker {
	return &Tracker{
		records:    make(map[string]*Record),
		index:      make(map[string]string),
		pending:    make(map[string]time.Time),
		maxRecords: defaultMaxRecords,
		maxAge:     defaultRecordAge,
	}
}

// AddCopy appends one successful delivery to the record for the source
// message, creating the record on the first success. Concurrent
// fan-out completions for the same source message serialize here, so
// partial completions never overwrite each other's entries.
func (t *Tracker) AddCopy(sourceCommunityID, sourceChannelID, sourceMessageID, destChannelID, copyMessageID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[sourceMessageID]
	if !ok {
		rec = &Record{
			SourceCommunityID: sourceCommunityID,
			SourceChannelID:   sourceChannelID,
			SourceMessageID:   sourceMessageID,
			Copies:            make(map[string]string),
			CreatedAt:         time.Now(),
		}
		t.records[sourceMessageID] = rec
		t.index[sourceMessageID] = sourceMessageID
		if len(t.records) > t.maxRecords {
			t.evictOldestLocked()
		}
	}
	rec.Copies[destChannelID] = copyMessageID
	t.index[copyMessageID] = sourceMessageID
}

// Lookup resolves any tracked message id (original or copy) to a
// snapshot of its correspondence record.
func (t *Tracker) Lookup(messageID string) (Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sourceID, ok := t.index[messageID]
	if !ok {
		return Record{}, false
	}
	rec, ok := t.records[sourceID]
	if !ok {
		return Record{}, false
	}
	snap := *rec
	snap.Copies = make(map[string]string, len(rec.Copies))
	for k, v := range rec.Copies {
		snap.Copies[k] = v
	}
	return snap, true
}

// IsTracked reports whether the message id belongs to any
// correspondence record.
func (t *Tracker) IsTracked(messageID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.index[messageID]
	return ok
}

// Remove drops the record a message belongs to, along with all of its
// index entries.
func (t *Tracker) Remove(messageID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sourceID, ok := t.index[messageID]
	if !ok {
		return
	}
	t.removeRecordLocked(sourceID)
}

// MarkDeletePending records that the engine is about to delete these
// message ids itself, so the deletion listener can tell the bot's own
// deletions apart from user-initiated ones.
func (t *Tracker) MarkDeletePending(messageIDs []string) {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range messageIDs {
		t.pending[id] = now
	}
}

// IsDeletePending reports whether a deletion of this message id was
// initiated by the engine within the pending TTL.
func (t *Tracker) IsDeletePending(messageID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	marked, ok := t.pending[messageID]
	if !ok {
		return false
	}
	if time.Since(marked) > deletePendingTTL {
		delete(t.pending, messageID)
		return false
	}
	return true
}

// Prune evicts expired records and pending-delete marks. Called from a
// maintenance ticker.
func (t *Tracker) Prune() {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, rec := range t.records {
		if now.Sub(rec.CreatedAt) > t.maxAge {
			t.removeRecordLocked(id)
		}
	}
	for id, marked := range t.pending {
		if now.Sub(marked) > deletePendingTTL {
			delete(t.pending, id)
		}
	}
}

// Len returns the number of live correspondence records.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

func (t *Tracker) removeRecordLocked(sourceID string) {
	rec, ok := t.records[sourceID]
	if !ok {
		return
	}
	delete(t.index, sourceID)
	for _, copyID := range rec.Copies {
		delete(t.index, copyID)
	}
	delete(t.records, sourceID)
}

func (t *Tracker) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, rec := range t.records {
		if oldestID == "" || rec.CreatedAt.Before(oldest) {
			oldestID = id
			oldest = rec.CreatedAt
		}
	}
	if oldestID != "" {
		t.removeRecordLocked(oldestID)
	}
}
