package baseline

import (
	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/internal/buf"
)

// wireCairo registers pivot <-> "camayakaA u8" and "camayakaA u8" <->
// {"cairo-ACYK32", "cairo-ACMK32"}. camayakaA u8 is a genuine 5-channel
// CMYK+alpha layout (C, A, Ye, K, M); the two Cairo formats are its 4-byte
// packed Cairo-native encodings, each dropping one ink channel CAYKA
// carries (M for ACYK32, Ye for ACMK32) and leading with alpha. There is
// no canonical external reference for this pairing (it traces to babl's
// internal Cairo CMYK interoperability hack, not a documented pixel
// format — see DESIGN.md), so this library only guarantees each pair is
// bijective on the channels it shares, not that it matches any other
// implementation's exact byte values.
func (h *handles) wireCairo(r Registries) error {
	if _, err := r.Convs.Register(h.pivot, h.camayakaU8, conversion.Linear, conversion.Primitive{
		Linear:  linearRGBAToCamayaka,
		Measure: measureRGBAToCamayaka,
	}, 0); err != nil {
		return err
	}
	if _, err := r.Convs.Register(h.camayakaU8, h.pivot, conversion.Linear, conversion.Primitive{
		Linear:  camayakaToLinearRGBA,
		Measure: measureCamayakaToRGBA,
	}, 0); err != nil {
		return err
	}

	if _, err := r.Convs.Register(h.camayakaU8, h.cairoACYK32, conversion.Linear, conversion.Primitive{
		Linear:  camayakaToCairoACYK,
		Measure: measureCamayakaToACYK,
	}, 0); err != nil {
		return err
	}
	if _, err := r.Convs.Register(h.cairoACYK32, h.camayakaU8, conversion.Linear, conversion.Primitive{
		Linear:  cairoACYKToCamayaka,
		Measure: measureACYKToCamayaka,
	}, 0); err != nil {
		return err
	}

	if _, err := r.Convs.Register(h.camayakaU8, h.cairoACMK32, conversion.Linear, conversion.Primitive{
		Linear:  camayakaToCairoACMK,
		Measure: measureCamayakaToACMK,
	}, 0); err != nil {
		return err
	}
	if _, err := r.Convs.Register(h.cairoACMK32, h.camayakaU8, conversion.Linear, conversion.Primitive{
		Linear:  cairoACMKToCamayaka,
		Measure: measureACMKToCamayaka,
	}, 0); err != nil {
		return err
	}

	return nil
}

// camayakaA u8 byte order: C, A, Ye, K, M.

func linearRGBAToCamayaka(src, dst []byte, n int) error {
	s := buf.Float64s(src)
	for i := 0; i < n; i++ {
		r, g, b, a := s[i*4+0], s[i*4+1], s[i*4+2], s[i*4+3]
		c, m, y, k := rgbToCMYK(r, g, b)
		dst[i*5+0] = floatToU8(c)
		dst[i*5+1] = floatToU8(a)
		dst[i*5+2] = floatToU8(y)
		dst[i*5+3] = floatToU8(k)
		dst[i*5+4] = floatToU8(m)
	}
	return nil
}

func camayakaToLinearRGBA(src, dst []byte, n int) error {
	d := buf.Float64s(dst)
	for i := 0; i < n; i++ {
		c, a, y, k, m := src[i*5+0], src[i*5+1], src[i*5+2], src[i*5+3], src[i*5+4]
		r, g, b := cmykToRGB(u8ToFloat(c), u8ToFloat(m), u8ToFloat(y), u8ToFloat(k))
		d[i*4+0], d[i*4+1], d[i*4+2], d[i*4+3] = r, g, b, u8ToFloat(a)
	}
	return nil
}

// cairo-ACYK32 byte order: A, C, Ye, K — drops M (defaulted to 0 on the
// way back, matching the CMYK float<->CMYKA u8 alpha-default precedent).

func camayakaToCairoACYK(src, dst []byte, n int) error {
	for i := 0; i < n; i++ {
		dst[i*4+0] = src[i*5+1] // A
		dst[i*4+1] = src[i*5+0] // C
		dst[i*4+2] = src[i*5+2] // Ye
		dst[i*4+3] = src[i*5+3] // K
	}
	return nil
}

func cairoACYKToCamayaka(src, dst []byte, n int) error {
	for i := 0; i < n; i++ {
		dst[i*5+0] = src[i*4+1] // C
		dst[i*5+1] = src[i*4+0] // A
		dst[i*5+2] = src[i*4+2] // Ye
		dst[i*5+3] = src[i*4+3] // K
		dst[i*5+4] = 0          // M: not carried by ACYK32
	}
	return nil
}

// cairo-ACMK32 byte order: A, C, M, K — drops Ye (defaulted to 0 on the
// way back).

func camayakaToCairoACMK(src, dst []byte, n int) error {
	for i := 0; i < n; i++ {
		dst[i*4+0] = src[i*5+1] // A
		dst[i*4+1] = src[i*5+0] // C
		dst[i*4+2] = src[i*5+4] // M
		dst[i*4+3] = src[i*5+3] // K
	}
	return nil
}

func cairoACMKToCamayaka(src, dst []byte, n int) error {
	for i := 0; i < n; i++ {
		dst[i*5+0] = src[i*4+1] // C
		dst[i*5+1] = src[i*4+0] // A
		dst[i*5+2] = 0          // Ye: not carried by ACMK32
		dst[i*5+3] = src[i*4+3] // K
		dst[i*5+4] = src[i*4+2] // M
	}
	return nil
}

func measureRGBAToCamayaka(in []float64) []float64 {
	c, m, y, k := rgbToCMYK(in[0], in[1], in[2])
	return []float64{c, in[3], y, k, m}
}

func measureCamayakaToRGBA(in []float64) []float64 {
	c, a, y, k, m := in[0], in[1], in[2], in[3], in[4]
	r, g, b := cmykToRGB(c, m, y, k)
	return []float64{r, g, b, a}
}

func measureCamayakaToACYK(in []float64) []float64 {
	return []float64{in[1], in[0], in[2], in[3]}
}

func measureACYKToCamayaka(in []float64) []float64 {
	return []float64{in[1], in[0], in[2], in[3], 0}
}

func measureCamayakaToACMK(in []float64) []float64 {
	return []float64{in[1], in[0], in[4], in[3]}
}

func measureACMKToCamayaka(in []float64) []float64 {
	return []float64{in[1], in[0], 0, in[3], in[2]}
}
