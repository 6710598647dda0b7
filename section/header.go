// Package section defines the fixed-layout records of the bsp container
// format: the file header, its 64 lump descriptors, and the per-lump
// metadata embedded in each descriptor.
//
// Records are plain structs with explicit Parse/AppendTo codecs driven by
// the wire endian engine. Codecs are byte-exact: encoding a parsed record
// reproduces the input bytes, and field order matches the wire layout.
package section

import (
	"github.com/bsptools/bsp/endian"
	"github.com/bsptools/bsp/errs"
)

// LumpMetadata is the per-lump metadata embedded in a descriptor.
type LumpMetadata struct {
	// Version is the lump's format version.
	Version uint32 // byte offset 0-3
	// Identifier is the lump's four-character identifier tag.
	Identifier [4]byte // byte offset 4-7
}

// LumpDescriptor locates one lump within the file.
type LumpDescriptor struct {
	// Offset is the lump's absolute byte offset in the file, not relative
	// to the end of the header.
	Offset uint32 // byte offset 0-3
	// Length is the lump's byte length.
	Length uint32 // byte offset 4-7
	// Metadata is the lump's version and identifier.
	Metadata LumpMetadata // byte offset 8-15
}

// Header is the fixed-size record at the start of every file.
type Header struct {
	// Identifier is the file format tag. It is decoded but not validated;
	// a successful parse does not certify the format family.
	Identifier [4]byte // byte offset 0-3
	// Version is the file format version, likewise not validated.
	Version uint32 // byte offset 4-7
	// Lumps is the descriptor table, one slot per lump.
	Lumps [LumpCount]LumpDescriptor // byte offset 8-1031
	// Revision is the file revision counter.
	Revision int32 // byte offset 1032-1035
}

// Parse decodes the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly HeaderSize bytes)
//
// Returns:
//   - error: errs.ErrHeaderTooShort if data is not HeaderSize bytes
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrHeaderTooShort
	}

	engine := endian.Wire()

	copy(h.Identifier[:], data[0:4])
	h.Version = engine.Uint32(data[4:8])

	for i := range h.Lumps {
		off := 8 + i*DescriptorSize
		d := &h.Lumps[i]
		d.Offset = engine.Uint32(data[off : off+4])
		d.Length = engine.Uint32(data[off+4 : off+8])
		d.Metadata.Version = engine.Uint32(data[off+8 : off+12])
		copy(d.Metadata.Identifier[:], data[off+12:off+16])
	}

	h.Revision = int32(engine.Uint32(data[HeaderSize-4 : HeaderSize]))

	return nil
}

// AppendTo appends the header's wire encoding to dst and returns the
// extended slice. It always appends exactly HeaderSize bytes.
func (h *Header) AppendTo(dst []byte) []byte {
	engine := endian.Wire()

	dst = append(dst, h.Identifier[:]...)
	dst = engine.AppendUint32(dst, h.Version)

	for i := range h.Lumps {
		d := &h.Lumps[i]
		dst = engine.AppendUint32(dst, d.Offset)
		dst = engine.AppendUint32(dst, d.Length)
		dst = engine.AppendUint32(dst, d.Metadata.Version)
		dst = append(dst, d.Metadata.Identifier[:]...)
	}

	return engine.AppendUint32(dst, uint32(h.Revision))
}

// Bytes serializes the header into a freshly allocated byte slice of
// exactly HeaderSize bytes.
func (h *Header) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// ParseHeader parses a Header from the start of a byte slice.
//
// Parameters:
//   - data: Byte slice starting with a header (must be at least HeaderSize bytes)
//
// Returns:
//   - Header: Parsed header struct
//   - error: errs.ErrHeaderTooShort if the slice is too short
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrHeaderTooShort
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
