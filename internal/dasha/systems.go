package dasha

import (
	"errors"
	"fmt"
	"strings"

	"github.com/papapumpkin/kala/internal/period"
)

// System names accepted by Compute and the CLI.
const (
	Vimshottari = "vimshottari"
	Yogini      = "yogini"
	Tribhagi    = "tribhagi"
)

// ErrUnknownSystem indicates a system name outside the three supported ones.
var ErrUnknownSystem = errors.New("unknown dasha system")

// tribhagiFactor compresses every Vimshottari weight into the 80-year cycle.
const tribhagiFactor = 2.0 / 3.0

var vimshottariWeights = []period.Weight{
	{Lord: "Ketu", Years: 7},
	{Lord: "Venus", Years: 20},
	{Lord: "Sun", Years: 6},
	{Lord: "Moon", Years: 10},
	{Lord: "Mars", Years: 7},
	{Lord: "Rahu", Years: 18},
	{Lord: "Jupiter", Years: 16},
	{Lord: "Saturn", Years: 19},
	{Lord: "Mercury", Years: 17},
}

// Yogini order starts at Mangala; Ashwini (index 0) begins Bhramari, hence
// the offset of 3.
var yoginiWeights = []period.Weight{
	{Lord: "Mangala", Years: 1},
	{Lord: "Pingala", Years: 2},
	{Lord: "Dhanya", Years: 3},
	{Lord: "Bhramari", Years: 4},
	{Lord: "Bhadrika", Years: 5},
	{Lord: "Ulka", Years: 6},
	{Lord: "Siddha", Years: 7},
	{Lord: "Sankata", Years: 8},
}

const yoginiOffset = 3

var yoginiRulers = map[period.Lord]string{
	"Mangala":  "Moon",
	"Pingala":  "Sun",
	"Dhanya":   "Jupiter",
	"Bhramari": "Mars",
	"Bhadrika": "Mercury",
	"Ulka":     "Saturn",
	"Siddha":   "Venus",
	"Sankata":  "Rahu",
}

// systemDef holds what differs between systems besides the table.
type systemDef struct {
	defaultDepth int
	maxDepth     int
	table        func() (*period.Table, error)
}

var systems = map[string]systemDef{
	Vimshottari: {defaultDepth: 3, maxDepth: period.MaxDepth, table: vimshottariTable},
	Yogini:      {defaultDepth: 2, maxDepth: 3, table: yoginiTable},
	Tribhagi:    {defaultDepth: 2, maxDepth: 3, table: tribhagiTable},
}

func vimshottariTable() (*period.Table, error) {
	return period.NewTable(Vimshottari, vimshottariWeights, 120, 0)
}

func yoginiTable() (*period.Table, error) {
	return period.NewTable(Yogini, yoginiWeights, 36, yoginiOffset)
}

func tribhagiTable() (*period.Table, error) {
	v, err := vimshottariTable()
	if err != nil {
		return nil, err
	}
	return v.Scaled(Tribhagi, tribhagiFactor)
}

// Names returns the supported system names in display order.
func Names() []string {
	return []string{Vimshottari, Yogini, Tribhagi}
}

// Table builds and validates the named system's period table. A
// *period.ConfigurationError here means the system is unusable.
func Table(system string) (*period.Table, error) {
	s, err := lookup(system)
	if err != nil {
		return nil, err
	}
	return s.table()
}

// DefaultDepth returns the number of levels generated when none is requested.
func DefaultDepth(system string) int {
	return systems[normalizeName(system)].defaultDepth
}

// MaxDepth returns the deepest level the system supports.
func MaxDepth(system string) int {
	return systems[normalizeName(system)].maxDepth
}

// Label returns a display label for a lord: yoginis carry their planetary
// ruler, planets are returned as is.
func Label(system string, lord period.Lord) string {
	if normalizeName(system) == Yogini {
		if r, ok := yoginiRulers[lord]; ok {
			return fmt.Sprintf("%s (%s)", lord, r)
		}
	}
	return string(lord)
}

func lookup(system string) (systemDef, error) {
	s, ok := systems[normalizeName(system)]
	if !ok {
		return systemDef{}, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownSystem, system, strings.Join(Names(), ", "))
	}
	return s, nil
}

func normalizeName(system string) string {
	return strings.ToLower(strings.TrimSpace(system))
}
