package baseline

import (
	"math"

	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/internal/buf"
)

// D50 white point and Bruce Lindbloom's sRGB (D65-primaries, Bradford
// D50-adapted) RGB<->XYZ matrices, used throughout this file.
const (
	whiteXn = 0.9642
	whiteYn = 1.0
	whiteZn = 0.8249

	labEpsilon = 216.0 / 24389.0
	labKappa   = 24389.0 / 27.0
)

var rgbToXYZD50 = [3][3]float64{
	{0.4360747, 0.3850649, 0.1430804},
	{0.2225045, 0.7168786, 0.0606169},
	{0.0139322, 0.0971045, 0.7141733},
}

var xyzD50ToRGB = [3][3]float64{
	{3.1338561, -1.6168667, -0.4906146},
	{-0.9787684, 1.9161415, 0.0334540},
	{0.0719453, -0.2289914, 1.4052427},
}

func (h *handles) wireXYZLab(r Registries) error {
	if _, err := r.Convs.Register(h.pivot, h.xyzFloat, conversion.Linear, conversion.Primitive{
		Linear:  linearRGBToXYZ,
		Measure: measureRGBToXYZ,
	}, 0); err != nil {
		return err
	}
	if _, err := r.Convs.Register(h.xyzFloat, h.pivot, conversion.Linear, conversion.Primitive{
		Linear:  xyzToLinearRGB,
		Measure: measureXYZToRGB,
	}, 0); err != nil {
		return err
	}

	if _, err := r.Convs.Register(h.xyzFloat, h.labFloat, conversion.Linear, conversion.Primitive{
		Linear:  xyzToLab,
		Measure: measureXYZToLab,
	}, 0); err != nil {
		return err
	}
	if _, err := r.Convs.Register(h.labFloat, h.xyzFloat, conversion.Linear, conversion.Primitive{
		Linear:  labToXYZ,
		Measure: measureLabToXYZ,
	}, 0); err != nil {
		return err
	}

	if _, err := r.Convs.Register(h.labFloat, h.labU8, conversion.Linear, conversion.Primitive{
		Linear:  labFloatToU8,
		Measure: measureIdentity4,
	}, 0); err != nil {
		return err
	}
	if _, err := r.Convs.Register(h.labU8, h.labFloat, conversion.Linear, conversion.Primitive{
		Linear:  labU8ToFloat,
		Measure: measureIdentity4,
	}, 0); err != nil {
		return err
	}

	return nil
}

func applyMatrix3(m [3][3]float64, r, g, b float64) (x, y, z float64) {
	x = m[0][0]*r + m[0][1]*g + m[0][2]*b
	y = m[1][0]*r + m[1][1]*g + m[1][2]*b
	z = m[2][0]*r + m[2][1]*g + m[2][2]*b
	return
}

func linearRGBToXYZ(src, dst []byte, n int) error {
	s := buf.Float64s(src)
	d := buf.Float32s(dst)
	for i := 0; i < n; i++ {
		x, y, z := applyMatrix3(rgbToXYZD50, s[i*4+0], s[i*4+1], s[i*4+2])
		d[i*3+0] = float32(x)
		d[i*3+1] = float32(y)
		d[i*3+2] = float32(z)
	}
	return nil
}

func xyzToLinearRGB(src, dst []byte, n int) error {
	s := buf.Float32s(src)
	d := buf.Float64s(dst)
	for i := 0; i < n; i++ {
		r, g, b := applyMatrix3(xyzD50ToRGB, float64(s[i*3+0]), float64(s[i*3+1]), float64(s[i*3+2]))
		d[i*4+0] = r
		d[i*4+1] = g
		d[i*4+2] = b
		d[i*4+3] = 1.0
	}
	return nil
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return (labKappa*t + 16.0) / 116.0
}

func labFInv(t float64) float64 {
	t3 := t * t * t
	if t3 > labEpsilon {
		return t3
	}
	return (116.0*t - 16.0) / labKappa
}

func xyzToLab(src, dst []byte, n int) error {
	s := buf.Float32s(src)
	d := buf.Float32s(dst)
	for i := 0; i < n; i++ {
		fx := labF(float64(s[i*3+0]) / whiteXn)
		fy := labF(float64(s[i*3+1]) / whiteYn)
		fz := labF(float64(s[i*3+2]) / whiteZn)
		d[i*3+0] = float32(116.0*fy - 16.0)
		d[i*3+1] = float32(500.0 * (fx - fy))
		d[i*3+2] = float32(200.0 * (fy - fz))
	}
	return nil
}

func labToXYZ(src, dst []byte, n int) error {
	s := buf.Float32s(src)
	d := buf.Float32s(dst)
	for i := 0; i < n; i++ {
		l, a, b := float64(s[i*3+0]), float64(s[i*3+1]), float64(s[i*3+2])
		fy := (l + 16.0) / 116.0
		fx := fy + a/500.0
		fz := fy - b/200.0
		d[i*3+0] = float32(whiteXn * labFInv(fx))
		d[i*3+1] = float32(whiteYn * labFInv(fy))
		d[i*3+2] = float32(whiteZn * labFInv(fz))
	}
	return nil
}

func labFloatToU8(src, dst []byte, n int) error {
	s := buf.Float32s(src)
	for i := 0; i < n; i++ {
		l, a, b := float64(s[i*3+0]), float64(s[i*3+1]), float64(s[i*3+2])
		dst[i*3+0] = floatToU8(l / 100.0)
		dst[i*3+1] = floatToU8((a + 128.0) / 255.0)
		dst[i*3+2] = floatToU8((b + 128.0) / 255.0)
	}
	return nil
}

func labU8ToFloat(src, dst []byte, n int) error {
	d := buf.Float32s(dst)
	for i := 0; i < n; i++ {
		d[i*3+0] = float32(u8ToFloat(src[i*3+0]) * 100.0)
		d[i*3+1] = float32(u8ToFloat(src[i*3+1])*255.0 - 128.0)
		d[i*3+2] = float32(u8ToFloat(src[i*3+2])*255.0 - 128.0)
	}
	return nil
}

func measureRGBToXYZ(in []float64) []float64 {
	x, y, z := applyMatrix3(rgbToXYZD50, in[0], in[1], in[2])
	return []float64{x, y, z, in[3]}
}

func measureXYZToRGB(in []float64) []float64 {
	r, g, b := applyMatrix3(xyzD50ToRGB, in[0], in[1], in[2])
	return []float64{r, g, b, 1.0}
}

func measureXYZToLab(in []float64) []float64 {
	fx := labF(in[0] / whiteXn)
	fy := labF(in[1] / whiteYn)
	fz := labF(in[2] / whiteZn)
	return []float64{116.0*fy - 16.0, 500.0 * (fx - fy), 200.0 * (fy - fz), in[3]}
}

func measureLabToXYZ(in []float64) []float64 {
	fy := (in[0] + 16.0) / 116.0
	fx := fy + in[1]/500.0
	fz := fy - in[2]/200.0
	return []float64{whiteXn * labFInv(fx), whiteYn * labFInv(fy), whiteZn * labFInv(fz), in[3]}
}
