// Package endian provides byte order utilities for the bsp wire format.
//
// The on-disk format is always little-endian. EndianEngine combines
// encoding/binary's ByteOrder and AppendByteOrder interfaces so the section
// codecs can both read fixed offsets and append without temporary buffers.
// The native-order probe is used by the typed-cast layer: reinterpreting a
// lump's little-endian bytes as a Go value in place is only legal on a
// little-endian host.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface. binary.LittleEndian and binary.BigEndian both
// satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Wire returns the engine for the on-disk byte order (little-endian).
func Wire() EndianEngine {
	return binary.LittleEndian
}

// Native returns the host's byte order, determined by probing a fixed
// integer value.
func Native() binary.ByteOrder {
	// For 0x0100 a little-endian host stores the LSB (0x00) first, a
	// big-endian host the MSB (0x01).
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host byte order matches the wire
// byte order.
func IsNativeLittleEndian() bool {
	return Native() == binary.LittleEndian
}
