package fish

import (
	"fmt"

	"github.com/vantblack/pixelfish/conversion"
)

// Process streams n pixels from src to dst through fish (spec.md §4.6).
//
//   - Simple: invokes the wrapped Conversion's primitive directly.
//   - Path: ping-pongs two scratch buffers across the chain's edges; bypasses
//     scratch entirely when the chain has exactly one edge.
//   - Reference: invokes the compiled multi-stage fallback.
//
// Process never suspends (spec.md §5 "process never suspends except for
// pure compute") and panics on BufferUnderSized (spec.md §7: a precondition
// violation, not a recoverable error) rather than returning it.
func Process(f *Fish, src, dst []byte, n int) (int, error) {
	if n < 0 {
		panic(fmt.Sprintf("fish: Process: negative n=%d", n))
	}
	if len(src) < n*f.srcBpp {
		panic(fmt.Errorf("%w: src has %d bytes, need %d", ErrBufferUndersized, len(src), n*f.srcBpp))
	}
	if len(dst) < n*f.dstBpp {
		panic(fmt.Errorf("%w: dst has %d bytes, need %d", ErrBufferUndersized, len(dst), n*f.dstBpp))
	}

	var err error
	switch f.variant {
	case Simple:
		err = f.simple.Run(src[:n*f.srcBpp], dst[:n*f.dstBpp], n)
	case Path:
		err = processPath(f, src, dst, n)
	case ReferenceVariant:
		err = f.reference(src[:n*f.srcBpp], dst[:n*f.dstBpp], n)
	default:
		return 0, fmt.Errorf("fish: Process: unknown variant %v", f.variant)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPrimitiveFailed, err)
	}

	f.processed.Add(uint64(n))

	return n, nil
}

// processPath ping-pongs two scratch buffers across f.path's edges. With a
// single edge it writes directly from src to dst, bypassing scratch
// entirely (spec.md §4.6: "If k = 1, bypass scratches.").
func processPath(f *Fish, src, dst []byte, n int) error {
	return RunChain(f.path, src[:n*f.srcBpp], dst[:n*f.dstBpp], n, f.maxMidBpp)
}

// RunChain executes an ordered chain of Conversions over n pixels,
// ping-ponging two scratch buffers sized n*maxMidBpp across intermediate
// stages. It is exported so the planner's compiled Reference fallback can
// reuse the exact same execution path a Path Fish uses internally, rather
// than re-implementing the ping-pong scheme.
func RunChain(chain []*conversion.Conversion, src, dst []byte, n, maxMidBpp int) error {
	k := len(chain)
	if k == 0 {
		return fmt.Errorf("fish: RunChain: zero edges")
	}
	if k == 1 {
		return chain[0].Run(src, dst, n)
	}

	midSize := n * maxMidBpp
	scratchA := make([]byte, midSize)
	scratchB := make([]byte, midSize)

	cur := src
	for i, edge := range chain {
		var out []byte
		switch {
		case i == k-1:
			out = dst
		case i%2 == 0:
			out = scratchA
		default:
			out = scratchB
		}
		if err := edge.Run(cur, out, n); err != nil {
			return err
		}
		cur = out
	}

	return nil
}
