// Package errs defines the sentinel error values returned by the bsp library.
//
// All errors are plain values suitable for errors.Is checks. Call sites wrap
// them with fmt.Errorf("%w: ...") to attach the lump index or the offending
// sizes without losing the sentinel identity.
package errs

import "errors"

var (
	// ErrHeaderTooShort is returned when a buffer is smaller than the fixed
	// header size and therefore cannot contain a BSP header.
	ErrHeaderTooShort = errors.New("buffer too short for bsp header")

	// ErrLumpOutOfBounds is returned when a lump descriptor's byte range
	// falls outside the file buffer. The whole parse fails; no partial
	// directory is produced.
	ErrLumpOutOfBounds = errors.New("lump range exceeds buffer bounds")

	// ErrIndexOutOfRange is returned for lump indices >= LumpCount.
	ErrIndexOutOfRange = errors.New("lump index out of range")

	// ErrBorrowConflict is returned when a requested guard would alias an
	// outstanding exclusive guard, or a write guard would alias any
	// outstanding guard, on the same lump slot. The caller may retry after
	// releasing the conflicting guard.
	ErrBorrowConflict = errors.New("conflicting lump access outstanding")

	// ErrCastSize is returned when a typed view is requested against a lump
	// whose byte length does not exactly match the target type's size (or a
	// whole multiple of it, for slice views).
	ErrCastSize = errors.New("lump length does not match target type size")

	// ErrCastAlignment is returned when a lump's payload is not aligned for
	// the target type on this host.
	ErrCastAlignment = errors.New("lump payload misaligned for target type")

	// ErrSizeOverflow is returned by write-back when a lump length or a
	// recomputed descriptor offset cannot be represented in the header's
	// 32-bit fields. Nothing is written to the sink.
	ErrSizeOverflow = errors.New("lump sizes overflow the 32-bit descriptor fields")
)
