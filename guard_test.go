package bsp

import (
	"testing"

	"github.com/bsptools/bsp/errs"
	"github.com/bsptools/bsp/section"
	"github.com/stretchr/testify/require"
)

func TestGuard_IndexBounds(t *testing.T) {
	dir, err := Parse(buildFile(nil, nil))
	require.NoError(t, err)

	_, err = dir.Read(-1)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	_, err = dir.Read(LumpCount)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	_, err = dir.Write(LumpCount)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestGuard_SharedReaders(t *testing.T) {
	dir, err := Parse(buildFile(map[int][]byte{3: []byte("abc")}, nil))
	require.NoError(t, err)

	g1, err := dir.Read(3)
	require.NoError(t, err)
	g2, err := dir.Read(3)
	require.NoError(t, err)

	require.Equal(t, g1.Bytes(), g2.Bytes())

	// A writer is excluded while readers are outstanding.
	_, err = dir.Write(3)
	require.ErrorIs(t, err, errs.ErrBorrowConflict)

	g1.Release()
	_, err = dir.Write(3)
	require.ErrorIs(t, err, errs.ErrBorrowConflict)

	g2.Release()
	w, err := dir.Write(3)
	require.NoError(t, err)
	w.Release()
}

func TestGuard_WriterExcludesEverything(t *testing.T) {
	dir, err := Parse(buildFile(map[int][]byte{3: []byte("abc"), 4: []byte("def")}, nil))
	require.NoError(t, err)

	w, err := dir.Write(3)
	require.NoError(t, err)

	_, err = dir.Read(3)
	require.ErrorIs(t, err, errs.ErrBorrowConflict)
	_, err = dir.Write(3)
	require.ErrorIs(t, err, errs.ErrBorrowConflict)

	// Other slots are unaffected: exclusivity is per slot, not global.
	r4, err := dir.Read(4)
	require.NoError(t, err)
	r4.Release()
	w4, err := dir.Write(4)
	require.NoError(t, err)
	w4.Release()

	w.Release()

	r3, err := dir.Read(3)
	require.NoError(t, err)
	r3.Release()
}

func TestGuard_ReleaseIdempotent(t *testing.T) {
	dir, err := Parse(buildFile(map[int][]byte{0: []byte("x")}, nil))
	require.NoError(t, err)

	g, err := dir.Read(0)
	require.NoError(t, err)
	g.Release()
	g.Release()

	// Double release must not free a borrow it no longer holds.
	g2, err := dir.Read(0)
	require.NoError(t, err)
	w, err := dir.Write(0)
	require.ErrorIs(t, err, errs.ErrBorrowConflict)
	require.Nil(t, w)
	g2.Release()

	w2, err := dir.Write(0)
	require.NoError(t, err)
	w2.Release()
	w2.Release()

	w3, err := dir.Write(0)
	require.NoError(t, err)
	w3.Release()
}

func TestGuard_CopyOnWrite(t *testing.T) {
	source := buildFile(map[int][]byte{2: []byte("shared")}, nil)

	dir, err := Parse(source)
	require.NoError(t, err)

	t.Run("Reads alias the source buffer", func(t *testing.T) {
		g, err := dir.Read(2)
		require.NoError(t, err)
		defer g.Release()

		source[section.HeaderSize] = 'S'
		require.Equal(t, []byte("Shared"), g.Bytes())
		source[section.HeaderSize] = 's'
	})

	t.Run("First write guard detaches the slot", func(t *testing.T) {
		w, err := dir.Write(2)
		require.NoError(t, err)
		require.Equal(t, []byte("shared"), w.Bytes())
		w.Bytes()[0] = 'X'
		w.Release()

		// The input buffer is never mutated.
		require.Equal(t, byte('s'), source[section.HeaderSize])

		// Later mutation of the source no longer reaches the slot.
		source[section.HeaderSize+1] = 'H'
		g, err := dir.Read(2)
		require.NoError(t, err)
		require.Equal(t, []byte("Xhared"), g.Bytes())
		g.Release()
		source[section.HeaderSize+1] = 'h'
	})

	t.Run("Copy happens exactly once", func(t *testing.T) {
		w1, err := dir.Write(2)
		require.NoError(t, err)
		first := &w1.Bytes()[0]
		w1.Release()

		w2, err := dir.Write(2)
		require.NoError(t, err)
		require.Same(t, first, &w2.Bytes()[0])
		w2.Release()
	})
}

func TestGuard_SetBytesAndMetadata(t *testing.T) {
	dir, err := Parse(buildFile(map[int][]byte{1: []byte("old"), 2: []byte("keep")}, nil))
	require.NoError(t, err)

	w, err := dir.Write(1)
	require.NoError(t, err)
	w.SetBytes([]byte("a longer replacement"))
	w.SetMetadata(section.LumpMetadata{Version: 7, Identifier: [4]byte{'n', 'e', 'w', '!'}})
	require.Equal(t, 20, w.Len())
	w.Release()

	g, err := dir.Read(1)
	require.NoError(t, err)
	require.Equal(t, []byte("a longer replacement"), g.Bytes())
	require.Equal(t, uint32(7), g.Metadata().Version)
	g.Release()

	// Per-slot isolation: slot 2 is untouched.
	g2, err := dir.Read(2)
	require.NoError(t, err)
	require.Equal(t, []byte("keep"), g2.Bytes())
	require.Equal(t, section.LumpMetadata{}, g2.Metadata())
	g2.Release()
}
