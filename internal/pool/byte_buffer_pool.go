// Package pool provides reusable byte buffers for the write-back path.
package pool

import "sync"

const (
	// FileBufferDefaultSize is the initial capacity of a pooled buffer.
	// Sized to hold the header plus typical small-map lump data.
	FileBufferDefaultSize = 1024 * 16 // 16KiB

	// FileBufferMaxThreshold is the largest buffer returned to the pool.
	// Buffers that grew beyond this are dropped to keep the pool bounded.
	FileBufferMaxThreshold = 1024 * 1024 * 8 // 8MiB
)

// ByteBuffer is a growable byte slice with explicit reuse semantics.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, retaining the allocated memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

var fileBufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, FileBufferDefaultSize)}
	},
}

// GetFileBuffer obtains an empty buffer from the pool.
func GetFileBuffer() *ByteBuffer {
	bb := fileBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutFileBuffer returns a buffer to the pool unless it grew past the
// retention threshold.
func PutFileBuffer(bb *ByteBuffer) {
	if cap(bb.B) > FileBufferMaxThreshold {
		return
	}
	fileBufferPool.Put(bb)
}
