package buf_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vantblack/pixelfish/internal/buf"
)

func TestUint8sIsIdentity(t *testing.T) {
	b := []byte{1, 2, 3}
	assert.Equal(t, []uint8{1, 2, 3}, buf.Uint8s(b))
}

func TestUint16sNativeByteOrder(t *testing.T) {
	raw := make([]byte, 4)
	binary.NativeEndian.PutUint16(raw[0:2], 0x1234)
	binary.NativeEndian.PutUint16(raw[2:4], 0xffff)

	got := buf.Uint16s(raw)
	assert.Equal(t, []uint16{0x1234, 0xffff}, got)
}

func TestFloat32sRoundTrip(t *testing.T) {
	raw := make([]byte, 8)
	binary.NativeEndian.PutUint32(raw[0:4], math.Float32bits(1.5))
	binary.NativeEndian.PutUint32(raw[4:8], math.Float32bits(-2.25))

	got := buf.Float32s(raw)
	assert.Equal(t, []float32{1.5, -2.25}, got)
}

func TestFloat64sRoundTrip(t *testing.T) {
	raw := make([]byte, 16)
	binary.NativeEndian.PutUint64(raw[0:8], math.Float64bits(3.14159))
	binary.NativeEndian.PutUint64(raw[8:16], math.Float64bits(-0.5))

	got := buf.Float64s(raw)
	assert.Equal(t, []float64{3.14159, -0.5}, got)
}

func TestViewsWriteThrough(t *testing.T) {
	raw := make([]byte, 8)
	view := buf.Float64s(raw)
	view[0] = 42.5

	assert.InDelta(t, 42.5, math.Float64frombits(binary.NativeEndian.Uint64(raw)), 0)
}

func TestEmptyInputsReturnNil(t *testing.T) {
	assert.Nil(t, buf.Uint16s(nil))
	assert.Nil(t, buf.Float32s(nil))
	assert.Nil(t, buf.Float64s(nil))
}
