// Package buf reinterprets raw []byte pixel buffers as typed numeric
// slices without copying, the way dominikh-go-libwayland's wayland.go
// reinterprets a raw protocol buffer as a typed view with
// safeish.Cast + unsafe.Slice (honnef.co/go/safeish is built exactly for
// this "trust me, this buffer really holds T" situation).
//
// Every primitive in the baseline package runs its tight per-pixel loop
// over slices obtained here rather than decoding bytes by hand.
package buf

import (
	"unsafe"

	"honnef.co/go/safeish"
)

// Uint8s reinterprets b as a []uint8 of the same length (an identity view;
// provided for symmetry with the wider-type views below).
func Uint8s(b []byte) []uint8 {
	return b
}

// Uint16s reinterprets b (native byte order) as a []uint16 of len(b)/2.
func Uint16s(b []byte) []uint16 {
	if len(b) == 0 {
		return nil
	}
	p := safeish.Cast[*uint16](unsafe.Pointer(&b[0]))
	return unsafe.Slice(p, len(b)/2)
}

// Float32s reinterprets b (native byte order) as a []float32 of len(b)/4.
func Float32s(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	p := safeish.Cast[*float32](unsafe.Pointer(&b[0]))
	return unsafe.Slice(p, len(b)/4)
}

// Float64s reinterprets b (native byte order) as a []float64 of len(b)/8.
func Float64s(b []byte) []float64 {
	if len(b) == 0 {
		return nil
	}
	p := safeish.Cast[*float64](unsafe.Pointer(&b[0]))
	return unsafe.Slice(p, len(b)/8)
}
