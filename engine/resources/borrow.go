package resources

import (
	"fmt"
	"reflect"
)

// Ref is a shared borrow of one entry. Release it when done.
type Ref[T any] struct {
	store    *Store
	cell     *cell
	ptr      *T
	key      string
	released bool
}

// RefMut is an exclusive borrow of one entry. Release it when done.
type RefMut[T any] struct {
	store    *Store
	cell     *cell
	ptr      *T
	key      string
	released bool
}

func downcast[T any](e *entry) *T {
	p, ok := e.cell.value.(*T)
	if !ok {
		// The bucket is chosen by T, a mismatch means the store is corrupt.
		panic(fmt.Sprintf("resources: entry %q holds %T, bucket expects *%s", e.key, e.cell.value, reflect.TypeFor[T]()))
	}
	return p
}

func newRef[T any](s *Store, e *entry) *Ref[T] {
	return &Ref[T]{store: s, cell: e.cell, ptr: downcast[T](e), key: e.key}
}

func newRefMut[T any](s *Store, e *entry) *RefMut[T] {
	return &RefMut[T]{store: s, cell: e.cell, ptr: downcast[T](e), key: e.key}
}

// Get returns the borrowed value.
func (r *Ref[T]) Get() T {
	if r.released {
		panic(fmt.Sprintf("resources: use of released borrow %q", r.key))
	}
	return *r.ptr
}

// Key is the key the entry was stored under.
func (r *Ref[T]) Key() string {
	return r.key
}

// Release gives the borrow back. Calling it more than once is a no-op.
func (r *Ref[T]) Release() {
	if r == nil || r.released {
		return
	}
	r.released = true
	r.store.mu.Lock()
	r.cell.releaseShared()
	r.store.mu.Unlock()
}

// Get returns a pointer to the borrowed value. It must not be kept after
// Release.
func (r *RefMut[T]) Get() *T {
	if r.released {
		panic(fmt.Sprintf("resources: use of released borrow %q", r.key))
	}
	return r.ptr
}

// Set overwrites the borrowed value in place.
func (r *RefMut[T]) Set(value T) {
	*r.Get() = value
}

func (r *RefMut[T]) Key() string {
	return r.key
}

// Release gives the borrow back. Calling it more than once is a no-op.
func (r *RefMut[T]) Release() {
	if r == nil || r.released {
		return
	}
	r.released = true
	r.store.mu.Lock()
	r.cell.releaseExclusive()
	r.store.mu.Unlock()
}

// ReleaseAll releases every handle of a Query result.
func ReleaseAll[T any](refs []*Ref[T]) {
	for _, r := range refs {
		r.Release()
	}
}

// ReleaseAllMut releases every handle of a QueryMut result.
func ReleaseAllMut[T any](refs []*RefMut[T]) {
	for _, r := range refs {
		r.Release()
	}
}
