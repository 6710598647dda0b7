package bsp

import (
	"fmt"
	"unsafe"

	"github.com/bsptools/bsp/errs"
	"github.com/bsptools/bsp/section"
)

// Typed views reinterpret a lump's bytes in place as a fixed-layout Go
// value. The reinterpretation is exact: the lump's length must equal
// Sizeof(T) (or a whole multiple for slice views) and the payload must
// satisfy T's alignment, otherwise the view fails with errs.ErrCastSize or
// errs.ErrCastAlignment. Nothing is truncated or padded.
//
// Multi-byte fields are read in host byte order while the wire format is
// little-endian, so in-place views of integer-bearing records are only
// faithful on little-endian hosts (see endian.IsNativeLittleEndian).
// T must be a type without pointers whose Go layout matches the wire
// record, same as the section structs.
//
// These are package-level functions because Go methods cannot carry type
// parameters. Each typed guard wraps a plain guard on the same slot, so it
// obeys the identical per-slot conflict rules and release discipline.

// TypedGuard is a ReadGuard whose payload is viewed as a single T.
type TypedGuard[T any] struct {
	guard *ReadGuard
	value *T
}

// TypedMutGuard is a WriteGuard whose payload is viewed as a single T.
// Mutations through Value land in the slot's private copy-on-write buffer.
type TypedMutGuard[T any] struct {
	guard *WriteGuard
	value *T
}

// TypedSliceGuard is a ReadGuard whose payload is viewed as a []T.
type TypedSliceGuard[T any] struct {
	guard  *ReadGuard
	values []T
}

// TypedSliceMutGuard is a WriteGuard whose payload is viewed as a []T.
type TypedSliceMutGuard[T any] struct {
	guard  *WriteGuard
	values []T
}

// View acquires a read guard for the lump at index and reinterprets its
// payload as a single T.
func View[T any](d *Directory, index int) (*TypedGuard[T], error) {
	g, err := d.Read(index)
	if err != nil {
		return nil, err
	}

	v, err := castOne[T](g.Bytes(), index)
	if err != nil {
		g.Release()
		return nil, err
	}

	return &TypedGuard[T]{guard: g, value: v}, nil
}

// ViewMut acquires a write guard for the lump at index and reinterprets its
// payload as a single mutable T.
func ViewMut[T any](d *Directory, index int) (*TypedMutGuard[T], error) {
	g, err := d.Write(index)
	if err != nil {
		return nil, err
	}

	v, err := castOne[T](g.Bytes(), index)
	if err != nil {
		g.Release()
		return nil, err
	}

	return &TypedMutGuard[T]{guard: g, value: v}, nil
}

// ViewSlice acquires a read guard for the lump at index and reinterprets
// its payload as a []T covering the whole lump.
func ViewSlice[T any](d *Directory, index int) (*TypedSliceGuard[T], error) {
	g, err := d.Read(index)
	if err != nil {
		return nil, err
	}

	vs, err := castMany[T](g.Bytes(), index)
	if err != nil {
		g.Release()
		return nil, err
	}

	return &TypedSliceGuard[T]{guard: g, values: vs}, nil
}

// ViewSliceMut acquires a write guard for the lump at index and
// reinterprets its payload as a mutable []T covering the whole lump.
func ViewSliceMut[T any](d *Directory, index int) (*TypedSliceMutGuard[T], error) {
	g, err := d.Write(index)
	if err != nil {
		return nil, err
	}

	vs, err := castMany[T](g.Bytes(), index)
	if err != nil {
		g.Release()
		return nil, err
	}

	return &TypedSliceMutGuard[T]{guard: g, values: vs}, nil
}

// Value returns the typed view. It must not be retained past Release.
func (g *TypedGuard[T]) Value() *T {
	return g.value
}

// Metadata returns the lump's current metadata.
func (g *TypedGuard[T]) Metadata() section.LumpMetadata {
	return g.guard.Metadata()
}

// Release returns the underlying shared borrow. Idempotent.
func (g *TypedGuard[T]) Release() {
	g.guard.Release()
}

// Value returns the mutable typed view. It must not be retained past
// Release.
func (g *TypedMutGuard[T]) Value() *T {
	return g.value
}

// Metadata returns the lump's current metadata.
func (g *TypedMutGuard[T]) Metadata() section.LumpMetadata {
	return g.guard.Metadata()
}

// SetMetadata replaces the lump's metadata.
func (g *TypedMutGuard[T]) SetMetadata(meta section.LumpMetadata) {
	g.guard.SetMetadata(meta)
}

// Release returns the underlying exclusive borrow. Idempotent.
func (g *TypedMutGuard[T]) Release() {
	g.guard.Release()
}

// Values returns the typed view. It must not be retained past Release.
func (g *TypedSliceGuard[T]) Values() []T {
	return g.values
}

// Metadata returns the lump's current metadata.
func (g *TypedSliceGuard[T]) Metadata() section.LumpMetadata {
	return g.guard.Metadata()
}

// Release returns the underlying shared borrow. Idempotent.
func (g *TypedSliceGuard[T]) Release() {
	g.guard.Release()
}

// Values returns the mutable typed view. It must not be retained past
// Release.
func (g *TypedSliceMutGuard[T]) Values() []T {
	return g.values
}

// Metadata returns the lump's current metadata.
func (g *TypedSliceMutGuard[T]) Metadata() section.LumpMetadata {
	return g.guard.Metadata()
}

// SetMetadata replaces the lump's metadata.
func (g *TypedSliceMutGuard[T]) SetMetadata(meta section.LumpMetadata) {
	g.guard.SetMetadata(meta)
}

// Release returns the underlying exclusive borrow. Idempotent.
func (g *TypedSliceMutGuard[T]) Release() {
	g.guard.Release()
}

// castOne reinterprets data as a single T after exact size and alignment
// checks.
func castOne[T any](data []byte, index int) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return nil, fmt.Errorf("%w: lump %d: target type has zero size", errs.ErrCastSize, index)
	}
	if len(data) != size {
		return nil, fmt.Errorf("%w: lump %d: type needs %d bytes, lump has %d",
			errs.ErrCastSize, index, size, len(data))
	}

	if err := checkAlign(&data[0], unsafe.Alignof(zero), index); err != nil {
		return nil, err
	}

	return (*T)(unsafe.Pointer(&data[0])), nil
}

// castMany reinterprets data as a []T covering the whole payload; the
// length must be a whole multiple of Sizeof(T).
func castMany[T any](data []byte, index int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return nil, fmt.Errorf("%w: lump %d: target type has zero size", errs.ErrCastSize, index)
	}
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: lump %d: %d bytes is not a whole multiple of the %d byte element",
			errs.ErrCastSize, index, len(data), size)
	}

	if len(data) == 0 {
		return nil, nil
	}

	if err := checkAlign(&data[0], unsafe.Alignof(zero), index); err != nil {
		return nil, err
	}

	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), len(data)/size), nil
}

func checkAlign(p *byte, align uintptr, index int) error {
	if uintptr(unsafe.Pointer(p))%align != 0 {
		return fmt.Errorf("%w: lump %d: payload not aligned to %d bytes",
			errs.ErrCastAlignment, index, align)
	}

	return nil
}
