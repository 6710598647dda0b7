package bsp

import (
	"fmt"

	"github.com/bsptools/bsp/errs"
	"github.com/bsptools/bsp/section"
)

// ReadGuard grants shared read access to one lump slot. Any number of read
// guards may be outstanding for the same slot, but none while a write guard
// is. Callers must not modify the returned bytes and must call Release when
// done, typically via defer.
type ReadGuard struct {
	d        *Directory
	index    int
	released bool
}

// WriteGuard grants exclusive access to one lump slot. Taking a write guard
// performs the slot's copy-on-write transition if its payload still borrows
// the source buffer, so mutations never reach the input that was parsed.
type WriteGuard struct {
	d        *Directory
	index    int
	released bool
}

// Read acquires a shared guard for the lump at index.
//
// Returns errs.ErrIndexOutOfRange for indices >= LumpCount and
// errs.ErrBorrowConflict if a write guard for the same slot is outstanding.
// Conflicts fail immediately; nothing blocks.
func (d *Directory) Read(index int) (*ReadGuard, error) {
	if err := checkIndex(index); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	s := &d.lumps[index]
	if s.state == borrowExclusive {
		return nil, fmt.Errorf("%w: lump %d has an outstanding write guard",
			errs.ErrBorrowConflict, index)
	}
	s.state++

	return &ReadGuard{d: d, index: index}, nil
}

// Write acquires an exclusive guard for the lump at index.
//
// Returns errs.ErrIndexOutOfRange for indices >= LumpCount and
// errs.ErrBorrowConflict if any guard for the same slot is outstanding.
// Guards on other slots never conflict.
func (d *Directory) Write(index int) (*WriteGuard, error) {
	if err := checkIndex(index); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	s := &d.lumps[index]
	if s.state != borrowFree {
		return nil, fmt.Errorf("%w: lump %d has outstanding guards",
			errs.ErrBorrowConflict, index)
	}

	// Copy-on-write: the first writer detaches the slot from the source
	// buffer, exactly once. Read guards never trigger this.
	if !s.owned {
		owned := make([]byte, len(s.data))
		copy(owned, s.data)
		s.data = owned
		s.owned = true
	}

	s.state = borrowExclusive

	return &WriteGuard{d: d, index: index}, nil
}

// Bytes returns the lump's current payload. The slice must not be modified
// and must not be retained past Release.
func (g *ReadGuard) Bytes() []byte {
	return g.d.lumps[g.index].data
}

// Len returns the lump's current byte length.
func (g *ReadGuard) Len() int {
	return len(g.d.lumps[g.index].data)
}

// Metadata returns the lump's current metadata.
func (g *ReadGuard) Metadata() section.LumpMetadata {
	return g.d.lumps[g.index].meta
}

// Release returns the shared borrow. Idempotent; safe to defer
// unconditionally.
func (g *ReadGuard) Release() {
	if g.released {
		return
	}
	g.released = true

	g.d.mu.Lock()
	defer g.d.mu.Unlock()
	g.d.lumps[g.index].state--
}

// Bytes returns the lump's private payload for in-place mutation. The slice
// must not be retained past Release.
func (g *WriteGuard) Bytes() []byte {
	return g.d.lumps[g.index].data
}

// Len returns the lump's current byte length.
func (g *WriteGuard) Len() int {
	return len(g.d.lumps[g.index].data)
}

// SetBytes replaces the lump's payload, resizing it. The directory takes
// ownership of data; the caller must not modify it afterwards.
func (g *WriteGuard) SetBytes(data []byte) {
	s := &g.d.lumps[g.index]
	s.data = data
	s.owned = true
}

// Metadata returns the lump's current metadata.
func (g *WriteGuard) Metadata() section.LumpMetadata {
	return g.d.lumps[g.index].meta
}

// SetMetadata replaces the lump's metadata. The new value is written into
// the descriptor table on the next WriteTo.
func (g *WriteGuard) SetMetadata(meta section.LumpMetadata) {
	g.d.lumps[g.index].meta = meta
}

// Release returns the exclusive borrow. Idempotent; safe to defer
// unconditionally.
func (g *WriteGuard) Release() {
	if g.released {
		return
	}
	g.released = true

	g.d.mu.Lock()
	defer g.d.mu.Unlock()
	g.d.lumps[g.index].state = borrowFree
}
