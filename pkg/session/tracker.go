// Package session tracks the detail-form edit session: which record is open,
// whether the operator changed anything, and what a save should send.
package session

import "sync"

// Tracker holds at most one active edit session. The detail form is the
// single writer; the refresh scheduler only reads, to know when it must keep
// its hands off the order list.
type Tracker struct {
	mu       sync.Mutex
	activeID string
	dirty    bool
	snapshot map[string]string
	open     bool
}

// New returns an idle tracker.
func New() *Tracker {
	return &Tracker{}
}

// Open starts an edit session for the given record, remembering the loaded
// values so a later save can send only what changed. An empty id marks a
// new, unsaved record. Opening replaces any prior session.
func (t *Tracker) Open(id string, snapshot map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open = true
	t.activeID = id
	t.dirty = false
	t.snapshot = make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		t.snapshot[k] = v
	}
}

// MarkDirty records that the operator changed something. No-op when no
// session is open.
func (t *Tracker) MarkDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.open {
		t.dirty = true
	}
}

// Close ends the session and clears the dirty flag.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open = false
	t.activeID = ""
	t.dirty = false
	t.snapshot = nil
}

// Active reports whether an edit session is open.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open
}

// ActiveID returns the open record's id, empty when idle or when the session
// is for a new record.
func (t *Tracker) ActiveID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeID
}

// Dirty reports whether the open session has unsaved changes.
func (t *Tracker) Dirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open && t.dirty
}

// Snapshot returns a copy of the values loaded when the session opened.
func (t *Tracker) Snapshot() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]string, len(t.snapshot))
	for k, v := range t.snapshot {
		out[k] = v
	}
	return out
}
