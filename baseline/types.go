package baseline

import (
	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/internal/buf"
)

// wireTypes registers the Type-layer "u8" <-> "float" Conversion pair the
// planner's Model -> Type -> Model layer crossing (see the planner
// package's layercross.go) composes component-by-component when two
// same-model Formats differ only in their per-component storage Type and
// have no direct Format<->Format edge of their own. These are genuine
// Type-kind Conversions — Conversion.Register rejects mixed-kind
// endpoints, so this is the only way a u8<->float bridge at this layer can
// be expressed at all — reusing the same clamp/round and normalize math
// floatToU8/u8ToFloat already use at the Format layer.
func (h *handles) wireTypes(r Registries) error {
	if _, err := r.Convs.Register(h.tU8, h.tFloat, conversion.Linear, conversion.Primitive{
		Linear: linearU8ToFloatType,
	}, 0); err != nil {
		return err
	}
	if _, err := r.Convs.Register(h.tFloat, h.tU8, conversion.Linear, conversion.Primitive{
		Linear: linearFloatToU8Type,
	}, 0); err != nil {
		return err
	}
	return nil
}

func linearU8ToFloatType(src, dst []byte, n int) error {
	d := buf.Float32s(dst)
	for i := 0; i < n; i++ {
		d[i] = float32(u8ToFloat(src[i]))
	}
	return nil
}

func linearFloatToU8Type(src, dst []byte, n int) error {
	s := buf.Float32s(src)
	for i := 0; i < n; i++ {
		dst[i] = floatToU8(float64(s[i]))
	}
	return nil
}
