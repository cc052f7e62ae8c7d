// Package palette assigns display colors to content fingerprints.
//
// Every distinct fingerprint gets exactly one color. The first fingerprints
// seen get the ordinal named colors in a fixed order; once those run out,
// colors are drawn from a fixed-seed random source. Colors are therefore a
// function of scan order, stable within one run, and not meant to identify
// content across runs.
package palette

import (
	"fmt"
	"math/rand/v2"

	"github.com/ivoronin/dupeview/internal/types"
)

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex renders the color as #rrggbb.
func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Name returns the ordinal color name, or the hex form for random colors.
func (c RGB) Name() string {
	for _, n := range named {
		if n.rgb == c {
			return n.name
		}
	}
	return c.Hex()
}

type namedColor struct {
	name string
	rgb  RGB
}

// named holds the ordinal colors in assignment order.
var named = []namedColor{
	{"white", RGB{0xff, 0xff, 0xff}},
	{"dark gray", RGB{0x80, 0x80, 0x80}},
	{"gray", RGB{0xa0, 0xa0, 0xa4}},
	{"light gray", RGB{0xc0, 0xc0, 0xc0}},
	{"red", RGB{0xff, 0x00, 0x00}},
	{"green", RGB{0x00, 0xff, 0x00}},
	{"blue", RGB{0x00, 0x00, 0xff}},
	{"cyan", RGB{0x00, 0xff, 0xff}},
	{"magenta", RGB{0xff, 0x00, 0xff}},
	{"yellow", RGB{0xff, 0xff, 0x00}},
	{"dark red", RGB{0x80, 0x00, 0x00}},
	{"dark green", RGB{0x00, 0x80, 0x00}},
	{"dark blue", RGB{0x00, 0x00, 0x80}},
	{"dark cyan", RGB{0x00, 0x80, 0x80}},
	{"dark magenta", RGB{0x80, 0x00, 0x80}},
	{"dark yellow", RGB{0x80, 0x80, 0x00}},
}

// Ordinal returns the number of named colors handed out before random ones.
func Ordinal() int { return len(named) }

// seed fixes the random sequence so repeated runs over the same scan order agree.
const seed = 0x6475706576696577

// Table maps color IDs to colors. IDs are dense, in assignment order.
type Table struct {
	colors []RGB
}

// Color returns the color for id, or false for NoColor and unknown IDs.
func (t *Table) Color(id types.ColorID) (RGB, bool) {
	if t == nil || id < 0 || int(id) >= len(t.colors) {
		return RGB{}, false
	}
	return t.colors[id], true
}

// Len returns the number of distinct colors issued.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.colors)
}

// Assigner hands out one color per distinct fingerprint.
//
// An Assigner is a single-pass object: it is not safe for concurrent use,
// since assignment order determines the colors.
type Assigner struct {
	ids   map[string]types.ColorID
	table *Table
	used  map[RGB]struct{}
	rng   *rand.Rand
}

// New creates an Assigner with an empty color table.
func New() *Assigner {
	return &Assigner{
		ids:   make(map[string]types.ColorID),
		table: &Table{},
		used:  make(map[RGB]struct{}),
		rng:   rand.New(rand.NewPCG(seed, seed>>1)),
	}
}

// ColorFor returns the color ID for fp, issuing a new one on first sight.
// Unresolved fingerprints get types.NoColor and consume nothing.
func (a *Assigner) ColorFor(fp types.Fingerprint) types.ColorID {
	if !fp.Resolved() {
		return types.NoColor
	}
	key := string(fp)
	if id, ok := a.ids[key]; ok {
		return id
	}

	id := types.ColorID(len(a.table.colors))
	c := a.next()
	a.table.colors = append(a.table.colors, c)
	a.used[c] = struct{}{}
	a.ids[key] = id
	return id
}

// Table returns the color table built so far.
func (a *Assigner) Table() *Table { return a.table }

// next returns the next unused color.
func (a *Assigner) next() RGB {
	if n := len(a.table.colors); n < len(named) {
		return named[n].rgb
	}
	for {
		c := RGB{uint8(a.rng.IntN(256)), uint8(a.rng.IntN(256)), uint8(a.rng.IntN(256))}
		if _, taken := a.used[c]; !taken {
			return c
		}
	}
}
