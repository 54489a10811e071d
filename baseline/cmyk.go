package baseline

import (
	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/internal/buf"
)

// wireCMYK registers pivot <-> "CMYK float" (the classic naive, non-ICC
// C/M/Y/K extraction — not color-managed, but exact for the worked
// examples in spec.md §8) and "CMYK float" <-> "CMYKA u8" (alpha
// add/drop plus float<->u8 quantization).
func (h *handles) wireCMYK(r Registries) error {
	if _, err := r.Convs.Register(h.pivot, h.cmykFloat, conversion.Linear, conversion.Primitive{
		Linear:  linearRGBToCMYK,
		Measure: measureRGBToCMYK,
	}, 0); err != nil {
		return err
	}
	if _, err := r.Convs.Register(h.cmykFloat, h.pivot, conversion.Linear, conversion.Primitive{
		Linear:  cmykToLinearRGB,
		Measure: measureCMYKToRGB,
	}, 0); err != nil {
		return err
	}

	if _, err := r.Convs.Register(h.cmykFloat, h.cmykaU8, conversion.Linear, conversion.Primitive{
		Linear:  cmykFloatToCMYKAu8,
		Measure: measureIdentity4,
	}, 0); err != nil {
		return err
	}
	if _, err := r.Convs.Register(h.cmykaU8, h.cmykFloat, conversion.Linear, conversion.Primitive{
		Linear:  cmykaU8ToCMYKFloat,
		Measure: measureIdentity4,
	}, 0); err != nil {
		return err
	}

	return nil
}

// rgbToCMYK implements the naive (non-ICC) formula: K is the darkest
// channel's complement, and C/M/Y are re-normalized against the
// remaining dynamic range once K is extracted.
func rgbToCMYK(r, g, b float64) (c, m, y, k float64) {
	c, m, y = 1-r, 1-g, 1-b
	k = c
	if m < k {
		k = m
	}
	if y < k {
		k = y
	}
	if k >= 1.0 {
		return 0, 0, 0, 1
	}
	c = (c - k) / (1 - k)
	m = (m - k) / (1 - k)
	y = (y - k) / (1 - k)
	return
}

func cmykToRGB(c, m, y, k float64) (r, g, b float64) {
	r = (1 - c) * (1 - k)
	g = (1 - m) * (1 - k)
	b = (1 - y) * (1 - k)
	return
}

func linearRGBToCMYK(src, dst []byte, n int) error {
	s := buf.Float64s(src)
	d := buf.Float32s(dst)
	for i := 0; i < n; i++ {
		c, m, y, k := rgbToCMYK(s[i*4+0], s[i*4+1], s[i*4+2])
		d[i*4+0], d[i*4+1], d[i*4+2], d[i*4+3] = float32(c), float32(m), float32(y), float32(k)
	}
	return nil
}

func cmykToLinearRGB(src, dst []byte, n int) error {
	s := buf.Float32s(src)
	d := buf.Float64s(dst)
	for i := 0; i < n; i++ {
		r, g, b := cmykToRGB(float64(s[i*4+0]), float64(s[i*4+1]), float64(s[i*4+2]), float64(s[i*4+3]))
		d[i*4+0], d[i*4+1], d[i*4+2], d[i*4+3] = r, g, b, 1.0
	}
	return nil
}

func cmykFloatToCMYKAu8(src, dst []byte, n int) error {
	s := buf.Float32s(src)
	for i := 0; i < n; i++ {
		dst[i*5+0] = floatToU8(float64(s[i*4+0]))
		dst[i*5+1] = floatToU8(float64(s[i*4+1]))
		dst[i*5+2] = floatToU8(float64(s[i*4+2]))
		dst[i*5+3] = floatToU8(float64(s[i*4+3]))
		dst[i*5+4] = 255 // no alpha in CMYK float: default opaque
	}
	return nil
}

func cmykaU8ToCMYKFloat(src, dst []byte, n int) error {
	d := buf.Float32s(dst)
	for i := 0; i < n; i++ {
		d[i*4+0] = float32(u8ToFloat(src[i*5+0]))
		d[i*4+1] = float32(u8ToFloat(src[i*5+1]))
		d[i*4+2] = float32(u8ToFloat(src[i*5+2]))
		d[i*4+3] = float32(u8ToFloat(src[i*5+3]))
		// src[i*5+4] (alpha) is dropped: CMYK float carries no alpha.
	}
	return nil
}

func measureRGBToCMYK(in []float64) []float64 {
	c, m, y, k := rgbToCMYK(in[0], in[1], in[2])
	return []float64{c, m, y, k}
}

func measureCMYKToRGB(in []float64) []float64 {
	r, g, b := cmykToRGB(in[0], in[1], in[2], in[3])
	return []float64{r, g, b, 1.0}
}
