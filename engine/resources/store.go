// Package resources implements the engine's typed resource store.
//
// Values of any type are stored under a string key inside a bucket chosen by
// their static type, so the same key can exist once per type. Every entry is
// an independently borrowable cell: many shared borrows or a single exclusive
// borrow at a time. Conflicts are reported immediately with ErrBorrowed, the
// store never blocks. Handles must be released, usually with defer.
//
//	resources.Add(store, "health", int32(42))
//	ref, err := resources.GetRef[int32](store, "health")
//	if err != nil {
//		return err
//	}
//	defer ref.Release()
package resources

import (
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store maps a type tag to keyed entries. A Store is meant to be driven from
// the frame loop goroutine; the internal mutex only keeps borrow bookkeeping
// consistent, it does not turn conflicts into waits.
type Store struct {
	mu      sync.Mutex
	buckets map[reflect.Type]map[string]*entry
	seq     uint64
}

type entry struct {
	key     string
	instant time.Time
	seq     uint64
	cell    *cell
}

// cell holds a *T for the bucket's T together with its borrow state.
type cell struct {
	value   any
	readers int
	writer  bool
}

func NewStore() *Store {
	return &Store{
		buckets: make(map[reflect.Type]map[string]*entry),
	}
}

// Add inserts value under key in the bucket of T, replacing any previous
// entry. The entry's position in iteration order becomes "now". Handles on a
// replaced entry stay valid and keep pointing to the old value.
func Add[T any](s *Store, key string, value T) {
	t := reflect.TypeFor[T]()
	p := new(T)
	*p = value

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[t]
	if !ok {
		bucket = make(map[string]*entry)
		s.buckets[t] = bucket
	}
	s.seq++
	bucket[key] = &entry{
		key:     key,
		instant: time.Now(),
		seq:     s.seq,
		cell:    &cell{value: p},
	}
}

// AddAnonymous inserts value under a generated key and returns the key.
func AddAnonymous[T any](s *Store, value T) string {
	key := uuid.NewString()
	Add(s, key, value)
	return key
}

// Remove deletes the entry of T under key. Borrowed entries are not removed.
func Remove[T any](s *Store, key string) error {
	t := reflect.TypeFor[T]()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.buckets[t][key]
	if !ok {
		return notFound(t, key)
	}
	if e.cell.writer || e.cell.readers > 0 {
		return borrowed(t, key)
	}
	delete(s.buckets[t], key)
	if len(s.buckets[t]) == 0 {
		delete(s.buckets, t)
	}
	return nil
}

// Contains reports whether an entry of T exists under key, borrowed or not.
func Contains[T any](s *Store, key string) bool {
	t := reflect.TypeFor[T]()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.buckets[t][key]
	return ok
}

// Len returns the number of entries of T.
func Len[T any](s *Store) int {
	t := reflect.TypeFor[T]()

	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.buckets[t])
}

// Keys returns the keys of T in iteration order.
func Keys[T any](s *Store) []string {
	t := reflect.TypeFor[T]()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.sortedLocked(t)
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return keys
}

// Clear drops every entry. Outstanding handles remain usable until released.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buckets = make(map[reflect.Type]map[string]*entry)
}

// GetRef takes a shared borrow of the entry of T under key. It fails with
// ErrNotFound when there is no such entry and with ErrBorrowed while the
// entry is exclusively borrowed.
func GetRef[T any](s *Store, key string) (*Ref[T], error) {
	t := reflect.TypeFor[T]()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.buckets[t][key]
	if !ok {
		return nil, notFound(t, key)
	}
	if !e.cell.tryShared() {
		return nil, borrowed(t, key)
	}
	return newRef[T](s, e), nil
}

// GetMut takes an exclusive borrow of the entry of T under key. It fails
// with ErrBorrowed while any other handle on the entry is live.
func GetMut[T any](s *Store, key string) (*RefMut[T], error) {
	t := reflect.TypeFor[T]()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.buckets[t][key]
	if !ok {
		return nil, notFound(t, key)
	}
	if !e.cell.tryExclusive() {
		return nil, borrowed(t, key)
	}
	return newRefMut[T](s, e), nil
}

// Query takes a shared borrow of every entry of T, ordered by insertion
// time. Either all entries are borrowed or none: if any entry is
// exclusively held the call fails with ErrBorrowed and holds nothing.
func Query[T any](s *Store) ([]*Ref[T], error) {
	t := reflect.TypeFor[T]()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.sortedLocked(t)
	if len(entries) == 0 {
		return nil, notFound(t, "")
	}
	for i, e := range entries {
		if !e.cell.tryShared() {
			for _, taken := range entries[:i] {
				taken.cell.releaseShared()
			}
			return nil, borrowed(t, e.key)
		}
	}
	refs := make([]*Ref[T], len(entries))
	for i, e := range entries {
		refs[i] = newRef[T](s, e)
	}
	return refs, nil
}

// QueryMut is Query with exclusive borrows. It fails with ErrBorrowed if any
// entry of T has a live handle of either kind.
func QueryMut[T any](s *Store) ([]*RefMut[T], error) {
	t := reflect.TypeFor[T]()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.sortedLocked(t)
	if len(entries) == 0 {
		return nil, notFound(t, "")
	}
	for i, e := range entries {
		if !e.cell.tryExclusive() {
			for _, taken := range entries[:i] {
				taken.cell.releaseExclusive()
			}
			return nil, borrowed(t, e.key)
		}
	}
	refs := make([]*RefMut[T], len(entries))
	for i, e := range entries {
		refs[i] = newRefMut[T](s, e)
	}
	return refs, nil
}

// With runs fn with a shared borrow of the entry of T under key and releases
// it on every exit path.
func With[T any](s *Store, key string, fn func(value T) error) error {
	ref, err := GetRef[T](s, key)
	if err != nil {
		return err
	}
	defer ref.Release()
	return fn(ref.Get())
}

// WithMut runs fn with an exclusive borrow of the entry of T under key and
// releases it on every exit path.
func WithMut[T any](s *Store, key string, fn func(value *T) error) error {
	ref, err := GetMut[T](s, key)
	if err != nil {
		return err
	}
	defer ref.Release()
	return fn(ref.Get())
}

// sortedLocked returns the entries of t by (instant, seq). The sequence
// breaks timestamp ties in insertion order. s.mu must be held.
func (s *Store) sortedLocked(t reflect.Type) []*entry {
	bucket := s.buckets[t]
	entries := make([]*entry, 0, len(bucket))
	for _, e := range bucket {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b *entry) int {
		if c := a.instant.Compare(b.instant); c != 0 {
			return c
		}
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	return entries
}

func (c *cell) tryShared() bool {
	if c.writer {
		return false
	}
	c.readers++
	return true
}

func (c *cell) tryExclusive() bool {
	if c.writer || c.readers > 0 {
		return false
	}
	c.writer = true
	return true
}

func (c *cell) releaseShared() {
	if c.readers > 0 {
		c.readers--
	}
}

func (c *cell) releaseExclusive() {
	c.writer = false
}
