package main

import (
	"encoding/binary"
	"math"
)

func floatBitsLE(f float32) [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
	return b
}

func floatFromBitsLE(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func doubleBitsLE(f float64) [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
	return b
}

func doubleFromBitsLE(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}
