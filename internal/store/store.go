// Package store holds the in-memory todo collection.
//
// Records are addressed by their index in a contiguous, zero-based sequence.
// Deleting a record moves the last record into the freed slot, so the index of
// an unrelated record can change after a delete. Callers that need identity
// across deletes use the stable ID carried by every record.
package store

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/idilsaglam/todostore/internal/model"
)

// ErrNotFound is returned for any index outside [0, Count()).
// The message is matched verbatim by callers.
var ErrNotFound = errors.New("Todo does not exist")

// Snapshot is the serialisable state of a Store.
type Snapshot struct {
	NextID  uint64         `json:"next_id"`
	Records []model.Record `json:"records"`
}

// Store is a single-lock record collection. Every operation holds mu for its
// whole duration, so a reader never sees the intermediate state of a delete.
type Store struct {
	mu      sync.Mutex
	records []model.Record
	slots   map[uint64]int // id -> index
	nextID  uint64
	log     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes mutation debug logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		slots:  map[uint64]int{},
		nextID: 1,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromSnapshot rebuilds a store from snap. Records without an ID (files
// written before IDs existed) get fresh ones.
func FromSnapshot(snap Snapshot, opts ...Option) *Store {
	s := New(opts...)
	if snap.NextID > s.nextID {
		s.nextID = snap.NextID
	}
	for _, r := range snap.Records {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	s.records = make([]model.Record, 0, len(snap.Records))
	for _, r := range snap.Records {
		if _, dup := s.slots[r.ID]; r.ID == 0 || dup {
			r.ID = s.nextID
			s.nextID++
		}
		s.slots[r.ID] = len(s.records)
		s.records = append(s.records, r)
	}
	return s
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{NextID: s.nextID, Records: s.copyRecords()}
}

// Create appends a new pending record and returns its index.
// Empty title and description are accepted.
func (s *Store) Create(title, description string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := model.Record{ID: s.nextID, Title: title, Description: description}
	s.nextID++
	idx := len(s.records)
	s.records = append(s.records, r)
	s.slots[r.ID] = idx
	s.log.Debug("todo created", "index", idx, "id", r.ID)
	return idx
}

// Get returns the record at index.
func (s *Store) Get(index int) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid(index) {
		return model.Record{}, ErrNotFound
	}
	return s.records[index], nil
}

// All returns every record in index order.
func (s *Store) All() []model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyRecords()
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Update overwrites title and description in place. Done is untouched.
func (s *Store) Update(index int, title, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid(index) {
		return ErrNotFound
	}
	s.records[index].Title = title
	s.records[index].Description = description
	s.log.Debug("todo updated", "index", index, "id", s.records[index].ID)
	return nil
}

// MarkDone sets Done. Marking a done record again is not an error.
func (s *Store) MarkDone(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid(index) {
		return ErrNotFound
	}
	s.records[index].Done = true
	s.log.Debug("todo marked done", "index", index, "id", s.records[index].ID)
	return nil
}

// Delete removes the record at index by copying the last record into its
// slot and then dropping the last slot.
func (s *Store) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid(index) {
		return ErrNotFound
	}
	last := len(s.records) - 1
	removed := s.records[index].ID

	s.records[index] = s.records[last]
	s.slots[s.records[index].ID] = index
	s.records[last] = model.Record{}
	s.records = s.records[:last]
	delete(s.slots, removed)

	s.log.Debug("todo deleted", "index", index, "id", removed, "moved_from", last)
	return nil
}

// IndexOf returns the current index of the record with the given ID.
func (s *Store) IndexOf(id uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.slots[id]
	if !ok {
		return -1, ErrNotFound
	}
	return idx, nil
}

// GetByID returns the record with the given ID wherever it currently lives.
func (s *Store) GetByID(id uint64) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.slots[id]
	if !ok {
		return model.Record{}, ErrNotFound
	}
	return s.records[idx], nil
}

// Stats counts done and pending records.
func (s *Store) Stats() (done, pending int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

func (s *Store) valid(index int) bool {
	return index >= 0 && index < len(s.records)
}

func (s *Store) copyRecords() []model.Record {
	out := make([]model.Record, len(s.records))
	copy(out, s.records)
	return out
}
