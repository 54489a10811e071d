// Package fish implements the Fish node (spec.md §3's Simple/Path/
// Reference variants) and the dispatch runtime that streams N pixels
// through a chosen chain (spec.md §4.6).
package fish

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/internal/node"
)

// Variant distinguishes the three Fish shapes (spec.md §3).
type Variant uint8

const (
	Simple Variant = iota
	Path
	ReferenceVariant
)

func (v Variant) String() string {
	switch v {
	case Simple:
		return "Simple"
	case Path:
		return "Path"
	case ReferenceVariant:
		return "Reference"
	default:
		return "Unknown"
	}
}

// ReferenceFn is the compiled multi-stage slow path a Reference Fish runs.
type ReferenceFn func(src, dst []byte, n int) error

// Fish is a compiled converter between two Formats.
type Fish struct {
	node.Header

	variant Variant
	srcBpp  int
	dstBpp  int
	cost    float64

	// Path only: the chain of edges, in order, plus the largest bpp among
	// all internal (non-terminal) nodes the chain passes through, used to
	// size the ping-pong scratch buffers.
	path      []*conversion.Conversion
	maxMidBpp int

	// Simple only.
	simple *conversion.Conversion

	// Reference only.
	reference ReferenceFn

	errBits   atomic.Uint64 // float64 bits of the last measured error (advisory)
	processed atomic.Uint64 // advisory pixel counter
}

// SrcBpp returns the source format's bytes-per-pixel.
func (f *Fish) SrcBpp() int { return f.srcBpp }

// DstBpp returns the destination format's bytes-per-pixel.
func (f *Fish) DstBpp() int { return f.dstBpp }

// Cost returns the fish's (for Path: cumulative) cost.
func (f *Fish) Cost() float64 { return f.cost }

// VariantKind reports which of Simple/Path/Reference this fish is.
func (f *Fish) VariantKind() Variant { return f.variant }

// PathLength returns the number of edges in a Path fish (0 otherwise).
func (f *Fish) PathLength() int { return len(f.path) }

// Edges returns the ordered Conversion chain of a Path fish (an empty slice
// otherwise).
// The returned slice is a defensive copy; Fish never extends any
// Conversion's lifetime (spec.md §3 "Ownership").
func (f *Fish) Edges() []*conversion.Conversion {
	out := make([]*conversion.Conversion, len(f.path))
	copy(out, f.path)
	return out
}

// PixelsProcessed returns the advisory monotone pixel counter.
func (f *Fish) PixelsProcessed() uint64 { return f.processed.Load() }

// NewSimple wraps a single Conversion as a Simple Fish.
func NewSimple(id uint64, name string, c *conversion.Conversion, srcBpp, dstBpp int) *Fish {
	return &Fish{
		Header:  node.NewHeader(id, name, node.KindFish),
		variant: Simple,
		simple:  c,
		srcBpp:  srcBpp,
		dstBpp:  dstBpp,
		cost:    float64(c.Cost()),
	}
}

// NewPath wraps an ordered, already-validated chain of Conversions as a
// Path Fish. maxMidBpp is the largest bpp among the chain's internal
// (non-terminal) nodes, used to size scratch buffers.
func NewPath(id uint64, name string, edges []*conversion.Conversion, srcBpp, dstBpp, maxMidBpp int, cumulativeCost float64) *Fish {
	cp := make([]*conversion.Conversion, len(edges))
	copy(cp, edges)
	return &Fish{
		Header:    node.NewHeader(id, name, node.KindFish),
		variant:   Path,
		path:      cp,
		srcBpp:    srcBpp,
		dstBpp:    dstBpp,
		maxMidBpp: maxMidBpp,
		cost:      cumulativeCost,
	}
}

// NewReference wraps a compiled multi-stage fallback as a Reference Fish.
func NewReference(id uint64, name string, fn ReferenceFn, srcBpp, dstBpp int, cost float64) *Fish {
	return &Fish{
		Header:    node.NewHeader(id, name, node.KindFish),
		variant:   ReferenceVariant,
		reference: fn,
		srcBpp:    srcBpp,
		dstBpp:    dstBpp,
		cost:      cost,
	}
}

// SetError records the chain's measured error (called by the planner;
// advisory per spec.md §4.6 instrumentation rules).
func (f *Fish) SetError(e float64) { f.errBits.Store(math.Float64bits(e)) }

// Error returns the fish's last-recorded measured error.
func (f *Fish) Error() float64 { return math.Float64frombits(f.errBits.Load()) }

// ErrPrimitiveFailed marks that a Conversion primitive reported failure
// during dispatch (spec.md §7 PrimitiveError); the dispatcher propagates it
// and the caller should treat this fish as unusable thereafter.
var ErrPrimitiveFailed = fmt.Errorf("fish: conversion primitive reported failure")

// ErrBufferUndersized is spec.md §7's BufferUnderSized: a precondition
// violation, not a recoverable runtime error.
var ErrBufferUndersized = fmt.Errorf("fish: buffer smaller than n*bytes_per_pixel")
