// Package pixelfish is a dynamically extensible pixel-format conversion
// library.
//
// What is pixelfish?
//
//	A thread-safe library that brings together:
//
//	  - Typed registries: numeric types, channels, color models, packed formats
//	  - A path planner: branch-and-bound search for the cheapest, most
//	    accurate chain of registered Conversions between any two Formats
//	  - A streaming dispatcher: ping-pong scratch buffers, no hot-path
//	    suspension
//
// Why pixelfish?
//
//   - Extensible    — register your own types, models and formats at runtime
//   - Deterministic — the planner's branch order and tie-breaks are stable
//   - Pure Go       — one small unsafe dependency for buffer reinterpretation
//
// Everything is organized under one package per concern:
//
//	typeset/    — numeric scalar encodings (u8, half, float, double, ...)
//	component/  — named channels (R, G, B, L, a, b, ...)
//	colormodel/ — ordered channel lists plus flags
//	pixfmt/     — fully-qualified packed pixel layouts
//	conversion/ — the edge graph between same-kind nodes
//	planner/    — the bounded DFS / branch-and-bound path search
//	fish/       — the compiled converter and its streaming dispatcher
//	fishcache/  — the process-wide, publish-once Fish cache
//	diskcache/  — the optional persistent planner cache
//	baseline/   — the stock types/components/models/formats/conversions
//
//	go get github.com/vantblack/pixelfish
package pixelfish
