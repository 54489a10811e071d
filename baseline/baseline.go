// Package baseline registers the stock Types, Components, Models, Formats
// and Conversions every Instance starts with (spec.md's worked examples in
// §8 all assume these are present). Every baseline Format except "CMYK
// u8" round-trips through a single pivot Format, "RGBA double" — a 4 x
// float64 RGBA layout — so the planner's Reference fallback (see the
// planner package) can always find some path between any two of those
// formats. "CMYK u8" registers no Conversion of its own; the planner
// reaches it only through its Model -> Type -> Model layer crossing.
package baseline

import (
	"fmt"

	"github.com/vantblack/pixelfish/colormodel"
	"github.com/vantblack/pixelfish/component"
	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/pixfmt"
	"github.com/vantblack/pixelfish/typeset"
)

// Registries bundles the five node registries Install populates, so
// callers (the root package, and tests) don't have to pass five separate
// arguments.
type Registries struct {
	Types      *typeset.Registry
	Components *component.Registry
	Models     *colormodel.Registry
	Formats    *pixfmt.Registry
	Convs      *conversion.Registry
}

// handles bundles the node handles Install's sub-steps need to pass
// amongst each other without a long parameter list.
type handles struct {
	tU8, tU16, tHalf, tFloat, tDouble *typeset.Type

	cR, cG, cB, cA  *component.Component
	cL, cAs, cBs    *component.Component // Lab: L, a*, b*
	cX, cY, cZ      *component.Component
	cC, cM, cYe, cK *component.Component // CMYK ink channels

	mRGB, mRGBA, mLab, mXYZ, mCMYK, mCMYKA *colormodel.Model
	mCAYKA, mACYK, mACMK                   *colormodel.Model

	pivot       *pixfmt.Format // "RGBA double"
	rgbaFloat   *pixfmt.Format
	rgbaHalf    *pixfmt.Format
	rgbU8       *pixfmt.Format
	labFloat    *pixfmt.Format
	labU8       *pixfmt.Format
	xyzFloat    *pixfmt.Format
	cmykFloat   *pixfmt.Format
	cmykaU8     *pixfmt.Format
	cmykU8      *pixfmt.Format
	camayakaU8  *pixfmt.Format
	cairoACYK32 *pixfmt.Format
	cairoACMK32 *pixfmt.Format
}

// Install registers every baseline node into r and returns the pivot
// Format ("RGBA double") the planner and error measurer stage every
// other format's corpus pixels through.
func Install(r Registries) (*pixfmt.Format, error) {
	h := &handles{}

	if err := h.registerTypes(r); err != nil {
		return nil, err
	}
	if err := h.registerComponents(r); err != nil {
		return nil, err
	}
	if err := h.registerModels(r); err != nil {
		return nil, err
	}
	if err := h.registerFormats(r); err != nil {
		return nil, err
	}
	if err := h.registerConversions(r); err != nil {
		return nil, err
	}

	return h.pivot, nil
}

func (h *handles) registerTypes(r Registries) error {
	var err error
	if h.tU8, err = r.Types.Register("u8", 8, false, false, false); err != nil {
		return fmt.Errorf("baseline: type u8: %w", err)
	}
	if h.tU16, err = r.Types.Register("u16", 16, false, false, false); err != nil {
		return fmt.Errorf("baseline: type u16: %w", err)
	}
	if h.tHalf, err = r.Types.Register("half", 16, true, true, true); err != nil {
		return fmt.Errorf("baseline: type half: %w", err)
	}
	if h.tFloat, err = r.Types.Register("float", 32, true, true, true); err != nil {
		return fmt.Errorf("baseline: type float: %w", err)
	}
	if h.tDouble, err = r.Types.Register("double", 64, true, true, true); err != nil {
		return fmt.Errorf("baseline: type double: %w", err)
	}
	return nil
}

func (h *handles) registerComponents(r Registries) error {
	names := map[string]**component.Component{
		"R": &h.cR, "G": &h.cG, "B": &h.cB, "A": &h.cA,
		"L": &h.cL, "a": &h.cAs, "b": &h.cBs,
		"X": &h.cX, "Y": &h.cY, "Z": &h.cZ,
		"C": &h.cC, "M": &h.cM, "Ye": &h.cYe, "K": &h.cK,
	}
	for name, slot := range names {
		c, err := r.Components.Register(name)
		if err != nil {
			return fmt.Errorf("baseline: component %q: %w", name, err)
		}
		*slot = c
	}
	return nil
}

func (h *handles) registerModels(r Registries) error {
	var err error
	if h.mRGB, err = r.Models.Register("RGB", []*component.Component{h.cR, h.cG, h.cB}, colormodel.Flags{}, ""); err != nil {
		return fmt.Errorf("baseline: model RGB: %w", err)
	}
	if h.mRGBA, err = r.Models.Register("RGBA", []*component.Component{h.cR, h.cG, h.cB, h.cA}, colormodel.Flags{}, ""); err != nil {
		return fmt.Errorf("baseline: model RGBA: %w", err)
	}
	if h.mLab, err = r.Models.Register("Lab", []*component.Component{h.cL, h.cAs, h.cBs}, colormodel.Flags{Perceptual: true}, ""); err != nil {
		return fmt.Errorf("baseline: model Lab: %w", err)
	}
	if h.mXYZ, err = r.Models.Register("XYZ", []*component.Component{h.cX, h.cY, h.cZ}, colormodel.Flags{}, ""); err != nil {
		return fmt.Errorf("baseline: model XYZ: %w", err)
	}
	if h.mCMYK, err = r.Models.Register("CMYK", []*component.Component{h.cC, h.cM, h.cYe, h.cK}, colormodel.Flags{}, ""); err != nil {
		return fmt.Errorf("baseline: model CMYK: %w", err)
	}
	if h.mCMYKA, err = r.Models.Register("CMYKA", []*component.Component{h.cC, h.cM, h.cYe, h.cK, h.cA}, colormodel.Flags{}, ""); err != nil {
		return fmt.Errorf("baseline: model CMYKA: %w", err)
	}
	// CAYKA backs "camayakaA u8": five channels (C, A, Ye, K, M), no
	// canonical external reference (see DESIGN.md) — this is babl's cairo
	// CMYK interop hack, declared here as a genuine 5-channel CMYK+alpha
	// layout rather than reusing CMYKA so its component order matches the
	// packed cairo layouts it bridges to.
	if h.mCAYKA, err = r.Models.Register("CAYKA", []*component.Component{h.cC, h.cA, h.cYe, h.cK, h.cM}, colormodel.Flags{}, ""); err != nil {
		return fmt.Errorf("baseline: model CAYKA: %w", err)
	}
	// ACYK/ACMK are the two 4-byte Cairo-native packings of CAYKA, each
	// dropping one ink channel CAYKA carries (M or Ye respectively) and
	// leading with alpha, matching Cairo's packed-word byte order.
	if h.mACYK, err = r.Models.Register("ACYK", []*component.Component{h.cA, h.cC, h.cYe, h.cK}, colormodel.Flags{}, ""); err != nil {
		return fmt.Errorf("baseline: model ACYK: %w", err)
	}
	if h.mACMK, err = r.Models.Register("ACMK", []*component.Component{h.cA, h.cC, h.cM, h.cK}, colormodel.Flags{}, ""); err != nil {
		return fmt.Errorf("baseline: model ACMK: %w", err)
	}
	return nil
}

func (h *handles) registerFormats(r Registries) error {
	var err error

	reg := func(name string, model *colormodel.Model, types []*typeset.Type, opts pixfmt.Options) (*pixfmt.Format, error) {
		f, e := r.Formats.Register(name, model, types, opts)
		if e != nil {
			return nil, fmt.Errorf("baseline: format %q: %w", name, e)
		}
		return f, nil
	}

	if h.pivot, err = reg("RGBA double", h.mRGBA, rep(h.tDouble, 4), pixfmt.Options{}); err != nil {
		return err
	}
	if h.rgbaFloat, err = reg("RGBA float", h.mRGBA, rep(h.tFloat, 4), pixfmt.Options{}); err != nil {
		return err
	}
	if h.rgbaHalf, err = reg("RGBA half", h.mRGBA, rep(h.tHalf, 4), pixfmt.Options{}); err != nil {
		return err
	}
	if h.rgbU8, err = reg("R'G'B' u8", h.mRGB, rep(h.tU8, 3), pixfmt.Options{}); err != nil {
		return err
	}
	if h.labFloat, err = reg("CIE Lab float", h.mLab, rep(h.tFloat, 3), pixfmt.Options{}); err != nil {
		return err
	}
	if h.labU8, err = reg("CIE Lab u8", h.mLab, rep(h.tU8, 3), pixfmt.Options{}); err != nil {
		return err
	}
	if h.xyzFloat, err = reg("CIE XYZ float", h.mXYZ, rep(h.tFloat, 3), pixfmt.Options{}); err != nil {
		return err
	}
	if h.cmykFloat, err = reg("CMYK float", h.mCMYK, rep(h.tFloat, 4), pixfmt.Options{}); err != nil {
		return err
	}
	if h.cmykaU8, err = reg("CMYKA u8", h.mCMYKA, rep(h.tU8, 5), pixfmt.Options{}); err != nil {
		return err
	}
	// CMYK u8 intentionally has no Conversion of its own, direct or via the
	// pivot: it exists to give the planner's Model -> Type -> Model layer
	// crossing a real baseline pair to bridge (it shares "CMYK float"'s
	// model but not its Type), so that rescue path is exercised by an
	// actual registered Format rather than only a synthetic test registry.
	if h.cmykU8, err = reg("CMYK u8", h.mCMYK, rep(h.tU8, 4), pixfmt.Options{}); err != nil {
		return err
	}
	if h.camayakaU8, err = reg("camayakaA u8", h.mCAYKA, rep(h.tU8, 5), pixfmt.Options{}); err != nil {
		return err
	}
	if h.cairoACYK32, err = reg("cairo-ACYK32", h.mACYK, rep(h.tU8, 4), pixfmt.Options{}); err != nil {
		return err
	}
	if h.cairoACMK32, err = reg("cairo-ACMK32", h.mACMK, rep(h.tU8, 4), pixfmt.Options{}); err != nil {
		return err
	}

	return nil
}

func (h *handles) registerConversions(r Registries) error {
	if err := h.wireSRGB(r); err != nil {
		return err
	}
	if err := h.wireXYZLab(r); err != nil {
		return err
	}
	if err := h.wireCMYK(r); err != nil {
		return err
	}
	if err := h.wireCairo(r); err != nil {
		return err
	}
	if err := h.wireTypes(r); err != nil {
		return err
	}
	return nil
}

func rep(t *typeset.Type, n int) []*typeset.Type {
	out := make([]*typeset.Type, n)
	for i := range out {
		out[i] = t
	}
	return out
}
