package baseline

import (
	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/internal/buf"
)

// wireSRGB registers pivot <-> "R'G'B' u8" (sRGB gamma encode/decode,
// alpha dropped/defaulted), pivot <-> "RGBA float" (widen/narrow, no
// transfer-function change) and pivot <-> "RGBA half" (same, via the
// IEEE-754 binary16 helpers since Go has no native half type).
func (h *handles) wireSRGB(r Registries) error {
	if _, err := r.Convs.Register(h.pivot, h.rgbU8, conversion.Linear, conversion.Primitive{
		Linear:  linearDoubleToSRGBu8,
		Measure: measureSRGBEncode,
	}, 0); err != nil {
		return err
	}
	if _, err := r.Convs.Register(h.rgbU8, h.pivot, conversion.Linear, conversion.Primitive{
		Linear:  sRGBu8ToLinearDouble,
		Measure: measureSRGBDecode,
	}, 0); err != nil {
		return err
	}

	if _, err := r.Convs.Register(h.pivot, h.rgbaFloat, conversion.Linear, conversion.Primitive{
		Linear:  doubleToFloatRGBA,
		Measure: measureIdentity4,
	}, 0); err != nil {
		return err
	}
	if _, err := r.Convs.Register(h.rgbaFloat, h.pivot, conversion.Linear, conversion.Primitive{
		Linear:  floatToDoubleRGBA,
		Measure: measureIdentity4,
	}, 0); err != nil {
		return err
	}

	if _, err := r.Convs.Register(h.pivot, h.rgbaHalf, conversion.Linear, conversion.Primitive{
		Linear:  doubleToHalfRGBA,
		Measure: measureIdentity4,
	}, 0); err != nil {
		return err
	}
	if _, err := r.Convs.Register(h.rgbaHalf, h.pivot, conversion.Linear, conversion.Primitive{
		Linear:  halfToDoubleRGBA,
		Measure: measureIdentity4,
	}, 0); err != nil {
		return err
	}

	return nil
}

func linearDoubleToSRGBu8(src, dst []byte, n int) error {
	s := buf.Float64s(src)
	for i := 0; i < n; i++ {
		dst[i*3+0] = floatToU8(srgbEncode(s[i*4+0]))
		dst[i*3+1] = floatToU8(srgbEncode(s[i*4+1]))
		dst[i*3+2] = floatToU8(srgbEncode(s[i*4+2]))
	}
	return nil
}

func sRGBu8ToLinearDouble(src, dst []byte, n int) error {
	d := buf.Float64s(dst)
	for i := 0; i < n; i++ {
		d[i*4+0] = srgbDecode(u8ToFloat(src[i*3+0]))
		d[i*4+1] = srgbDecode(u8ToFloat(src[i*3+1]))
		d[i*4+2] = srgbDecode(u8ToFloat(src[i*3+2]))
		d[i*4+3] = 1.0
	}
	return nil
}

func doubleToFloatRGBA(src, dst []byte, n int) error {
	s := buf.Float64s(src)
	d := buf.Float32s(dst)
	for i := 0; i < n*4; i++ {
		d[i] = float32(s[i])
	}
	return nil
}

func floatToDoubleRGBA(src, dst []byte, n int) error {
	s := buf.Float32s(src)
	d := buf.Float64s(dst)
	for i := 0; i < n*4; i++ {
		d[i] = float64(s[i])
	}
	return nil
}

func doubleToHalfRGBA(src, dst []byte, n int) error {
	s := buf.Float64s(src)
	d := buf.Uint16s(dst)
	for i := 0; i < n*4; i++ {
		d[i] = halfFromFloat32(float32(s[i]))
	}
	return nil
}

func halfToDoubleRGBA(src, dst []byte, n int) error {
	s := buf.Uint16s(src)
	d := buf.Float64s(dst)
	for i := 0; i < n*4; i++ {
		d[i] = float64(float32FromHalf(s[i]))
	}
	return nil
}

func measureSRGBEncode(in []float64) []float64 {
	out := make([]float64, 4)
	out[0] = srgbEncode(in[0])
	out[1] = srgbEncode(in[1])
	out[2] = srgbEncode(in[2])
	out[3] = in[3]
	return out
}

func measureSRGBDecode(in []float64) []float64 {
	out := make([]float64, 4)
	out[0] = srgbDecode(in[0])
	out[1] = srgbDecode(in[1])
	out[2] = srgbDecode(in[2])
	out[3] = 1.0
	return out
}

func measureIdentity4(in []float64) []float64 {
	out := make([]float64, 4)
	copy(out, in)
	return out
}
