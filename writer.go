package bsp

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/bsptools/bsp/errs"
	"github.com/bsptools/bsp/internal/pool"
	"github.com/bsptools/bsp/section"
)

var _ io.WriterTo = (*Directory)(nil)

// WriteTo linearizes the directory into w as a structurally valid file.
//
// The header is cloned and its descriptor table rewritten in one pass: a
// cursor starts at HeaderSize and each descriptor's offset, length, and
// metadata are taken from the slot's current state, so the output reflects
// every mutation, resize, and metadata change since parse. Lump data
// follows the header contiguously in index order with no padding between
// lumps.
//
// A lump length or recomputed offset that does not fit the header's 32-bit
// descriptor fields fails with errs.ErrSizeOverflow before anything reaches
// the sink. Sink errors are returned verbatim with the byte count written
// so far; a failed WriteTo may have partially written w, so the caller must
// discard the destination rather than retry into it.
func (d *Directory) WriteTo(w io.Writer) (int64, error) {
	header, payloads, err := d.snapshot()
	if err != nil {
		return 0, err
	}

	buf := pool.GetFileBuffer()
	defer pool.PutFileBuffer(buf)
	buf.B = header.AppendTo(buf.B)

	var written int64
	n, err := w.Write(buf.Bytes())
	written += int64(n)
	if err != nil {
		return written, err
	}

	for i := range payloads {
		if len(payloads[i]) == 0 {
			continue
		}

		n, err := w.Write(payloads[i])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	return written, nil
}

// snapshot clones the header with its descriptor table recomputed from the
// slots' current state and captures each slot's payload slice.
func (d *Directory) snapshot() (section.Header, [section.LumpCount][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	header := d.header
	var payloads [section.LumpCount][]byte

	cursor := int64(section.HeaderSize)
	for i := range d.lumps {
		s := &d.lumps[i]

		if int64(len(s.data)) > math.MaxUint32 {
			return section.Header{}, payloads, fmt.Errorf("%w: lump %d is %d bytes",
				errs.ErrSizeOverflow, i, len(s.data))
		}
		if cursor > math.MaxUint32 {
			return section.Header{}, payloads, fmt.Errorf("%w: lump %d would start at offset %d",
				errs.ErrSizeOverflow, i, cursor)
		}

		header.Lumps[i].Offset = uint32(cursor)
		header.Lumps[i].Length = uint32(len(s.data))
		header.Lumps[i].Metadata = s.meta
		cursor += int64(len(s.data))
		payloads[i] = s.data
	}

	return header, payloads, nil
}

// Bytes serializes the directory into a freshly allocated buffer. See
// WriteTo for the canonicalization rules.
func (d *Directory) Bytes() ([]byte, error) {
	size := section.HeaderSize
	d.mu.Lock()
	for i := range d.lumps {
		size += len(d.lumps[i].data)
	}
	d.mu.Unlock()

	buf := bytes.NewBuffer(make([]byte, 0, size))
	if _, err := d.WriteTo(buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
