// This file is pixelfish's public facade: Init/Exit lifecycle, name-based
// lookups, and the fish/process entry points every caller actually uses.
// See doc.go for the package-level overview.
package pixelfish

import (
	"fmt"
	"sync"

	"github.com/vantblack/pixelfish/baseline"
	"github.com/vantblack/pixelfish/colormodel"
	"github.com/vantblack/pixelfish/component"
	"github.com/vantblack/pixelfish/conversion"
	"github.com/vantblack/pixelfish/diskcache"
	"github.com/vantblack/pixelfish/fish"
	"github.com/vantblack/pixelfish/fishcache"
	"github.com/vantblack/pixelfish/internal/node"
	"github.com/vantblack/pixelfish/pixfmt"
	"github.com/vantblack/pixelfish/planner"
	"github.com/vantblack/pixelfish/typeset"
)

// plannerVersion is folded into every fishcache.Key; bumping it would
// invalidate every previously cached Fish without a cache-wide flush
// (spec.md §4.4).
const plannerVersion = 1

// ErrNotInitialized is spec.md §7's NotInitialized: the library was used
// before Init or after Exit.
var ErrNotInitialized = fmt.Errorf("pixelfish: not initialized")

// Instance is one independent library instance: its own registries,
// planner, fish cache and (optionally) disk cache. Tests construct
// Instances directly via New to run in isolation; the package-level
// Init/Exit/.. functions manage a single process-wide Instance, matching
// spec.md §6's free-function surface.
type Instance struct {
	alloc *node.Allocator

	Types      *typeset.Registry
	Components *component.Registry
	Models     *colormodel.Registry
	Formats    *pixfmt.Registry
	Convs      *conversion.Registry

	planner *planner.Planner
	cache   *fishcache.Cache
	disk    *diskcache.Cache

	pivot *pixfmt.Format
}

// Options configures New/Init.
type Options struct {
	// DiskCachePath, if non-empty, loads (and subsequently appends to) a
	// persistent planner cache file (spec.md §4.7).
	DiskCachePath string
}

// New constructs a standalone Instance with the baseline node set
// installed. It never touches the package-level singleton.
func New(opts Options) (*Instance, error) {
	alloc := &node.Allocator{}

	inst := &Instance{
		alloc:      alloc,
		Types:      typeset.NewRegistry(alloc),
		Components: component.NewRegistry(alloc),
		Models:     colormodel.NewRegistry(alloc),
		Formats:    pixfmt.NewRegistry(alloc),
		Convs:      conversion.NewRegistry(alloc),
		cache:      fishcache.New(),
	}

	pivot, err := baseline.Install(baseline.Registries{
		Types:      inst.Types,
		Components: inst.Components,
		Models:     inst.Models,
		Formats:    inst.Formats,
		Convs:      inst.Convs,
	})
	if err != nil {
		return nil, fmt.Errorf("pixelfish: installing baseline: %w", err)
	}
	inst.pivot = pivot

	if opts.DiskCachePath != "" {
		disk, err := diskcache.Load(opts.DiskCachePath)
		if err != nil {
			return nil, fmt.Errorf("pixelfish: loading disk cache: %w", err)
		}
		inst.disk = disk
	}
	inst.planner = planner.New(inst.Convs, alloc, pivot, inst.disk)

	return inst, nil
}

// Type looks up a registered numeric Type by name, or nil (spec.md §6
// "lookup-or-nil").
func (inst *Instance) Type(name string) *typeset.Type {
	t, _ := inst.Types.Lookup(name)
	return t
}

// Component looks up a registered Component by name, or nil.
func (inst *Instance) Component(name string) *component.Component {
	c, _ := inst.Components.Lookup(name)
	return c
}

// Model looks up a registered Model by name, or nil.
func (inst *Instance) Model(name string) *colormodel.Model {
	m, _ := inst.Models.Lookup(name)
	return m
}

// Format looks up a registered Format by name, or nil.
func (inst *Instance) Format(name string) *pixfmt.Format {
	f, _ := inst.Formats.Lookup(name)
	return f
}

// FormatExists reports whether name is a registered Format.
func (inst *Instance) FormatExists(name string) bool { return inst.Formats.Exists(name) }

// FormatNComponents returns the component count of the Format named name,
// or -1 if name is not registered.
func (inst *Instance) FormatNComponents(name string) int {
	f := inst.Format(name)
	if f == nil {
		return -1
	}
	return f.NComponents()
}

// FormatBytesPerPixel returns the Format named name's bytes-per-pixel, or
// -1 if name is not registered.
func (inst *Instance) FormatBytesPerPixel(name string) int {
	f := inst.Format(name)
	if f == nil {
		return -1
	}
	return f.BytesPerPixel()
}

// FormatType returns the Type of component i of the Format named name, or
// nil if name is unregistered or i is out of range.
func (inst *Instance) FormatType(name string, i int) *typeset.Type {
	f := inst.Format(name)
	if f == nil {
		return nil
	}
	return f.TypeAt(i)
}

// ConversionNew registers a new Conversion from src to dst (spec.md §6
// "conversion_new"). cost <= 0 selects the kind's default baseline cost.
func (inst *Instance) ConversionNew(src, dst node.Ref, kind conversion.Kind, primitive conversion.Primitive, cost int) (*conversion.Conversion, error) {
	return inst.Convs.Register(src, dst, kind, primitive, cost)
}

// Fish compiles (or returns the cached) converter from src to dst
// (spec.md §6 "fish(src_format, dst_format)"). It never returns nil.
func (inst *Instance) Fish(src, dst *pixfmt.Format, opts ...planner.Option) *fish.Fish {
	key := fishcache.Key{SrcID: src.ID(), DstID: dst.ID(), Version: plannerVersion}
	return inst.cache.GetOrCreate(key, func() *fish.Fish {
		return inst.planner.Plan(src, dst, opts...)
	})
}

// Process streams n pixels from src to dst through f (spec.md §6
// "process(fish, src, dst, N) -> pixels_processed").
func (inst *Instance) Process(f *fish.Fish, src, dst []byte, n int) (int, error) {
	return fish.Process(f, src, dst, n)
}

// GetName returns a node's user-facing name (spec.md §6 "get_name").
func GetName(n node.Ref) string { return n.Name() }

// Pivot returns the Instance's universal staging Format ("RGBA double").
func (inst *Instance) Pivot() *pixfmt.Format { return inst.pivot }

// Close releases the Instance's disk cache file handle, if one was opened.
func (inst *Instance) Close() error {
	if inst.disk == nil {
		return nil
	}
	return inst.disk.Close()
}

// --- package-level singleton, matching spec.md §6's free-function surface ---

var (
	singletonMu sync.Mutex
	singleton   *Instance
)

// Init allocates the process-wide Instance (spec.md §5 "Library init
// allocates the registry, lock, and corpus"). Double-init is idempotent:
// calling Init again while already initialized is a no-op and returns the
// existing Instance.
func Init(opts Options) (*Instance, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()

	if singleton != nil {
		return singleton, nil
	}
	inst, err := New(opts)
	if err != nil {
		return nil, err
	}
	singleton = inst
	return inst, nil
}

// Exit tears down the process-wide Instance (spec.md §5 "teardown drains
// the fish cache, frees primitives, and releases the registry"). Using
// any package-level function afterward fails with ErrNotInitialized until
// the next Init.
func Exit() error {
	singletonMu.Lock()
	defer singletonMu.Unlock()

	if singleton == nil {
		return nil
	}
	inst := singleton
	singleton = nil
	inst.cache.Reset()
	return inst.Close()
}

func current() (*Instance, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton == nil {
		return nil, ErrNotInitialized
	}
	return singleton, nil
}

// Type looks up a Type on the process-wide Instance.
func Type(name string) (*typeset.Type, error) {
	inst, err := current()
	if err != nil {
		return nil, err
	}
	return inst.Type(name), nil
}

// Component looks up a Component on the process-wide Instance.
func Component(name string) (*component.Component, error) {
	inst, err := current()
	if err != nil {
		return nil, err
	}
	return inst.Component(name), nil
}

// Model looks up a Model on the process-wide Instance.
func Model(name string) (*colormodel.Model, error) {
	inst, err := current()
	if err != nil {
		return nil, err
	}
	return inst.Model(name), nil
}

// Format looks up a Format on the process-wide Instance.
func Format(name string) (*pixfmt.Format, error) {
	inst, err := current()
	if err != nil {
		return nil, err
	}
	return inst.Format(name), nil
}

// Fish compiles (or returns the cached) converter on the process-wide
// Instance.
func Fish(src, dst *pixfmt.Format, opts ...planner.Option) (*fish.Fish, error) {
	inst, err := current()
	if err != nil {
		return nil, err
	}
	return inst.Fish(src, dst, opts...), nil
}

// Process streams pixels through f on the process-wide Instance.
func Process(f *fish.Fish, src, dst []byte, n int) (int, error) {
	inst, err := current()
	if err != nil {
		return 0, err
	}
	return inst.Process(f, src, dst, n)
}
