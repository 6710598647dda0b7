package bsp

import (
	"fmt"
	"sync"

	"github.com/bsptools/bsp/errs"
	"github.com/bsptools/bsp/section"
)

// LumpCount is the number of lump slots in every directory.
const LumpCount = section.LumpCount

// borrowState tracks outstanding guards for one slot: 0 is free, a positive
// value counts shared readers, borrowExclusive marks a write guard.
type borrowState int32

const (
	borrowFree      borrowState = 0
	borrowExclusive borrowState = -1
)

// slot holds one lump's current payload and metadata. data aliases the
// source buffer until the first write guard copies it (owned flips to true);
// after that it is private to this slot.
type slot struct {
	data  []byte
	owned bool
	meta  section.LumpMetadata
	state borrowState
}

// Directory is the in-memory form of one bsp file: the decoded header plus
// 64 independently accessible lump slots.
//
// Guard acquisition and release are safe for concurrent use; the payload
// bytes a guard exposes follow the usual rule that a write guard's slot
// must not be touched by anyone else until the guard is released.
type Directory struct {
	mu     sync.Mutex
	header section.Header
	lumps  [section.LumpCount]slot
}

// Parse maps a full file buffer into a Directory.
//
// The header is decoded and each descriptor's range is sliced out of the
// remaining buffer without copying. Descriptor offsets are absolute in the
// file, so HeaderSize is subtracted before indexing the post-header region.
//
// Parse is all-or-nothing: a buffer shorter than the header fails with
// errs.ErrHeaderTooShort, and any descriptor whose range falls outside the
// buffer fails the whole parse with errs.ErrLumpOutOfBounds. A descriptor
// with Length > 0 and Offset < HeaderSize is treated as malformed rather
// than clamped; zero-length descriptors may carry any nominal offset.
func Parse(data []byte) (*Directory, error) {
	header, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	rest := data[section.HeaderSize:]

	d := &Directory{header: header}
	for i := range header.Lumps {
		desc := &header.Lumps[i]

		if desc.Length == 0 {
			d.lumps[i] = slot{meta: desc.Metadata}
			continue
		}

		if desc.Offset < section.HeaderSize {
			return nil, fmt.Errorf("%w: lump %d: offset %d precedes the data region",
				errs.ErrLumpOutOfBounds, i, desc.Offset)
		}

		local := int64(desc.Offset) - section.HeaderSize
		end := local + int64(desc.Length)
		if end > int64(len(rest)) {
			return nil, fmt.Errorf("%w: lump %d: bytes [%d:%d) of a %d byte data region",
				errs.ErrLumpOutOfBounds, i, local, end, len(rest))
		}

		d.lumps[i] = slot{
			data: rest[local:end:end],
			meta: desc.Metadata,
		}
	}

	return d, nil
}

// Header returns a copy of the directory's header as of the last parse.
// Descriptor offsets and lengths in the copy reflect the input file; the
// canonical values are recomputed by WriteTo.
func (d *Directory) Header() section.Header {
	return d.header
}

// Identifier returns the file format tag.
func (d *Directory) Identifier() [4]byte {
	return d.header.Identifier
}

// Version returns the file format version.
func (d *Directory) Version() uint32 {
	return d.header.Version
}

// Revision returns the file revision counter.
func (d *Directory) Revision() int32 {
	return d.header.Revision
}

// SetIdentifier replaces the file format tag.
func (d *Directory) SetIdentifier(id [4]byte) {
	d.header.Identifier = id
}

// SetVersion replaces the file format version.
func (d *Directory) SetVersion(version uint32) {
	d.header.Version = version
}

// SetRevision replaces the file revision counter.
func (d *Directory) SetRevision(revision int32) {
	d.header.Revision = revision
}

// checkIndex validates a lump index against the fixed slot count.
func checkIndex(index int) error {
	if index < 0 || index >= section.LumpCount {
		return fmt.Errorf("%w: %d (valid indices are 0..%d)",
			errs.ErrIndexOutOfRange, index, section.LumpCount-1)
	}

	return nil
}
