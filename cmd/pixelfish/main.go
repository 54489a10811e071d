// pixelfish is a small CLI front end over the pixelfish library: it reads
// one pixel's component values in a source format, converts it, and
// prints the component values in a destination format (spec.md §6 "CLI
// surface").
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vantblack/pixelfish"
	"github.com/vantblack/pixelfish/typeset"
)

// Exit codes are normative (spec.md §6).
const (
	exitOK = iota
	exitUnknownFormat
	exitComponentCountMismatch
	exitParseError
	exitUnsupportedType
	exitUnsupportedOutputType
)

const usageStr = `pixelfish converts one pixel between two registered formats.

Usage:

    pixelfish --from NAME --to NAME v1 v2 v3 ...
    pixelfish --list {types,components,models,formats}

v1 v2 ... are the source format's component values, one per component, in
the component type's natural domain (0-255 for u8, 0.0-1.0 for float and
double). The destination format's component values are printed space
separated.
`

var (
	fromFlag = flag.String("from", "", "source format name")
	toFlag   = flag.String("to", "", "destination format name")
	listFlag = flag.String("list", "", "print registered names: types, components, models, or formats")
)

func main() {
	flag.Usage = func() { os.Stderr.WriteString(usageStr) }
	flag.Parse()

	os.Exit(run(os.Stdout, os.Stderr, *fromFlag, *toFlag, *listFlag, flag.Args()))
}

func run(stdout, stderr *os.File, from, to, list string, args []string) int {
	inst, err := pixelfish.New(pixelfish.Options{})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitParseError
	}
	defer inst.Close()

	if list != "" {
		return runList(stdout, stderr, inst, list)
	}

	return runConvert(stdout, stderr, inst, from, to, args)
}

func runList(stdout, stderr *os.File, inst *pixelfish.Instance, kind string) int {
	var names []string
	switch kind {
	case "types":
		names = inst.Types.Names()
	case "components":
		names = inst.Components.Names()
	case "models":
		names = inst.Models.Names()
	case "formats":
		names = inst.Formats.Names()
	default:
		fmt.Fprintf(stderr, "pixelfish: unknown -list kind %q\n", kind)
		return exitParseError
	}
	for _, n := range names {
		fmt.Fprintln(stdout, n)
	}
	return exitOK
}

func runConvert(stdout, stderr *os.File, inst *pixelfish.Instance, from, to string, args []string) int {
	srcFmt := inst.Format(from)
	dstFmt := inst.Format(to)
	if srcFmt == nil || dstFmt == nil {
		fmt.Fprintf(stderr, "pixelfish: unknown format %q or %q\n", from, to)
		return exitUnknownFormat
	}

	if len(args) != srcFmt.NComponents() {
		fmt.Fprintf(stderr, "pixelfish: %s has %d components, got %d values\n",
			from, srcFmt.NComponents(), len(args))
		return exitComponentCountMismatch
	}

	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			fmt.Fprintf(stderr, "pixelfish: parsing %q: %v\n", a, err)
			return exitParseError
		}
		values[i] = v
	}

	srcBytes := make([]byte, srcFmt.BytesPerPixel())
	offset := 0
	for i := 0; i < srcFmt.NComponents(); i++ {
		t := srcFmt.TypeAt(i)
		n, err := encodeComponent(srcBytes[offset:], t, values[i])
		if err != nil {
			fmt.Fprintf(stderr, "pixelfish: %s component %d: %v\n", from, i, err)
			return exitUnsupportedType
		}
		offset += n
	}

	dstBytes := make([]byte, dstFmt.BytesPerPixel())
	f := inst.Fish(srcFmt, dstFmt)
	if _, err := inst.Process(f, srcBytes, dstBytes, 1); err != nil {
		fmt.Fprintf(stderr, "pixelfish: conversion failed: %v\n", err)
		return exitUnsupportedOutputType
	}

	out := make([]string, 0, dstFmt.NComponents())
	offset = 0
	for i := 0; i < dstFmt.NComponents(); i++ {
		t := dstFmt.TypeAt(i)
		v, n, err := decodeComponent(dstBytes[offset:], t)
		if err != nil {
			fmt.Fprintf(stderr, "pixelfish: %s component %d: %v\n", to, i, err)
			return exitUnsupportedOutputType
		}
		offset += n
		out = append(out, strconv.FormatFloat(v, 'g', -1, 64))
	}
	fmt.Fprintln(stdout, strings.Join(out, " "))

	return exitOK
}

var errUnsupportedType = errors.New("unsupported component type")

func encodeComponent(dst []byte, t *typeset.Type, v float64) (int, error) {
	switch {
	case t.BitWidth() == 8 && !t.IsFloat():
		dst[0] = byte(v)
		return 1, nil
	case t.BitWidth() == 16 && !t.IsFloat():
		u := uint16(v)
		dst[0], dst[1] = byte(u), byte(u>>8)
		return 2, nil
	case t.BitWidth() == 32 && t.IsFloat():
		bits := floatBitsLE(float32(v))
		copy(dst[:4], bits[:])
		return 4, nil
	case t.BitWidth() == 64 && t.IsFloat():
		bits := doubleBitsLE(v)
		copy(dst[:8], bits[:])
		return 8, nil
	default:
		return 0, errUnsupportedType
	}
}

func decodeComponent(src []byte, t *typeset.Type) (float64, int, error) {
	switch {
	case t.BitWidth() == 8 && !t.IsFloat():
		return float64(src[0]), 1, nil
	case t.BitWidth() == 16 && !t.IsFloat():
		u := uint16(src[0]) | uint16(src[1])<<8
		return float64(u), 2, nil
	case t.BitWidth() == 32 && t.IsFloat():
		return float64(floatFromBitsLE(src[:4])), 4, nil
	case t.BitWidth() == 64 && t.IsFloat():
		return doubleFromBitsLE(src[:8]), 8, nil
	default:
		return 0, 0, errUnsupportedType
	}
}
