// Package bsp reads and writes the bsp map container format: a fixed-size
// header holding 64 lump descriptors, followed by the variable-length lump
// data those descriptors reference.
//
// Parse maps a raw byte buffer into a Directory without copying lump data.
// Each lump starts out borrowing its subrange of the input buffer and is
// copied into a private buffer the first time a write guard is taken for it
// (copy-on-write); the input buffer itself is never mutated.
//
// Lumps are accessed through scoped guards with per-slot exclusivity:
// any number of read guards may coexist on one slot, a write guard excludes
// everything on that slot, and guards on different slots never interact.
// Conflicting acquisition fails immediately with errs.ErrBorrowConflict
// rather than blocking.
//
// # Basic Usage
//
//	data, _ := os.ReadFile("de_dust2.bsp")
//
//	dir, err := bsp.Parse(data)
//	if err != nil {
//	    return err
//	}
//
//	g, err := dir.Write(35)
//	if err != nil {
//	    return err
//	}
//	g.SetBytes([]byte("replacement payload"))
//	g.Release()
//
//	var out bytes.Buffer
//	if _, err := dir.WriteTo(&out); err != nil {
//	    return err
//	}
//
// WriteTo recomputes every descriptor offset, so the output is canonical:
// lump data follows the header contiguously in index order regardless of
// how the input file was laid out.
//
// Parse performs no magic or version validation. A successful parse means
// the directory is structurally sound, not that the input belongs to any
// particular format family.
package bsp
