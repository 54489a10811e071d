// Package diskcache implements the optional persistent planner cache
// (spec.md §4.7): an append-only, line-based text file of previously
// planned chains, loaded at init and consulted before the planner runs.
//
// This is the one corner of the library built on the standard library
// alone (bufio/os/strconv/strings) rather than a third-party dependency:
// spec.md §6 mandates a specific, literal line format ("SRC | DST | COST |
// ERROR | C1,C2,...") rather than leaving the encoding to the
// implementation's choice, so there is no serialization concern here for a
// library such as encoding/json, encoding/gob, or a YAML package to own —
// adopting one would mean inventing a format the spec does not ask for.
package diskcache

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/vantblack/pixelfish/conversion"
)

// Record is one parsed disk-cache line: a previously planned chain from
// Src to Dst, its cost and measured error, and the ordered conversion
// names that make it up.
type Record struct {
	Src, Dst string
	Cost     float64
	Error    float64
	Chain    []string
}

type key struct{ src, dst string }

// Cache holds every record successfully parsed from a disk-cache file,
// plus the path new records are appended to.
type Cache struct {
	mu      sync.RWMutex
	records map[key]Record
	path    string
	file    *os.File
}

// Load reads path (if it exists) and returns a Cache ready for lookups and
// appends. A missing file is not an error: the cache simply starts empty
// and the first append creates it.
func Load(path string) (*Cache, error) {
	c := &Cache{records: make(map[key]Record), path: path}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("diskcache: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, ok := parseLine(line)
		if !ok {
			continue // spec.md §6: "Unknown lines ignored."
		}
		c.records[key{rec.Src, rec.Dst}] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("diskcache: read %s: %w", path, err)
	}

	return c, nil
}

func parseLine(line string) (Record, bool) {
	fields := strings.Split(line, "|")
	if len(fields) != 5 {
		return Record{}, false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	cost, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Record{}, false
	}
	errVal, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return Record{}, false
	}

	var chain []string
	for _, name := range strings.Split(fields[4], ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			chain = append(chain, name)
		}
	}
	if len(chain) == 0 {
		return Record{}, false
	}

	return Record{Src: fields[0], Dst: fields[1], Cost: cost, Error: errVal, Chain: chain}, true
}

// Resolve looks up a disk-cached chain from src to dst and validates it
// against the live Conversion registry and an error ceiling (spec.md §4.7:
// "accepted only if every referenced Conversion still exists and the
// recorded error is below the current ceiling"). A mismatch returns
// (nil, false) silently — the caller is expected to fall back to planning.
func (c *Cache) Resolve(src, dst string, convs *conversion.Registry, ceiling float64) ([]*conversion.Conversion, Record, bool) {
	c.mu.RLock()
	rec, ok := c.records[key{src, dst}]
	c.mu.RUnlock()
	if !ok {
		return nil, Record{}, false
	}
	if rec.Error > ceiling {
		return nil, Record{}, false
	}

	chain := make([]*conversion.Conversion, 0, len(rec.Chain))
	for _, name := range rec.Chain {
		conv, ok := convs.Lookup(name)
		if !ok {
			return nil, Record{}, false
		}
		chain = append(chain, conv)
	}

	return chain, rec, true
}

// Append writes one new record and adds it to the in-memory index. The
// underlying file is opened append-only on first use and kept open for
// the Cache's lifetime.
func (c *Cache) Append(rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("diskcache: open %s for append: %w", c.path, err)
		}
		c.file = f
	}

	line := fmt.Sprintf("%s | %s | %g | %g | %s\n",
		rec.Src, rec.Dst, rec.Cost, rec.Error, strings.Join(rec.Chain, ","))
	if _, err := c.file.WriteString(line); err != nil {
		return fmt.Errorf("diskcache: append: %w", err)
	}

	c.records[key{rec.Src, rec.Dst}] = rec
	return nil
}

// Close releases the underlying append file handle, if one was opened.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

// Len returns the number of records currently indexed in memory.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
