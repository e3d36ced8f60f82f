// Package report turns computed dasha trees and active-period queries into
// serializable documents and renders them as text, JSON, YAML or TOML.
package report

import (
	"time"

	"github.com/papapumpkin/kala/internal/dasha"
	"github.com/papapumpkin/kala/internal/nakshatra"
	"github.com/papapumpkin/kala/internal/period"
)

// Document is the report for one chart: its Moon placement and one entry
// per requested system.
type Document struct {
	Chart     string      `json:"chart" yaml:"chart" toml:"chart"`
	Birth     string      `json:"birth" yaml:"birth" toml:"birth"`
	Nakshatra Placement   `json:"nakshatra" yaml:"nakshatra" toml:"nakshatra"`
	Systems   []SystemDoc `json:"systems" yaml:"systems" toml:"systems"`
}

// Placement describes the natal Moon's nakshatra.
type Placement struct {
	Name      string  `json:"name" yaml:"name" toml:"name"`
	Index     int     `json:"index" yaml:"index" toml:"index"`
	Pada      int     `json:"pada" yaml:"pada" toml:"pada"`
	Longitude float64 `json:"longitude" yaml:"longitude" toml:"longitude"`
	Elapsed   float64 `json:"elapsed" yaml:"elapsed" toml:"elapsed"`
}

// SystemDoc is one system's tree, or the reason it is unavailable.
type SystemDoc struct {
	System       string      `json:"system" yaml:"system" toml:"system"`
	StartingLord string      `json:"starting_lord,omitempty" yaml:"starting_lord,omitempty" toml:"starting_lord,omitempty"`
	BalanceYears float64     `json:"balance_years,omitempty" yaml:"balance_years,omitempty" toml:"balance_years,omitempty"`
	Error        string      `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	Periods      []PeriodDoc `json:"periods,omitempty" yaml:"periods,omitempty" toml:"periods,omitempty"`
	Flat         []FlatDoc   `json:"flat,omitempty" yaml:"flat,omitempty" toml:"flat,omitempty"`
}

// PeriodDoc is a nested period with RFC 3339 bounds.
type PeriodDoc struct {
	Lord     string      `json:"lord" yaml:"lord" toml:"lord"`
	Start    string      `json:"start" yaml:"start" toml:"start"`
	End      string      `json:"end" yaml:"end" toml:"end"`
	Children []PeriodDoc `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// FlatDoc is one arena node: links are indices into the same slice and
// Parent is -1 for top-level periods.
type FlatDoc struct {
	Lord   string `json:"lord" yaml:"lord" toml:"lord"`
	Level  string `json:"level" yaml:"level" toml:"level"`
	Start  string `json:"start" yaml:"start" toml:"start"`
	End    string `json:"end" yaml:"end" toml:"end"`
	Parent int    `json:"parent" yaml:"parent" toml:"parent"`
}

// Options selects the shape of a Document.
type Options struct {
	Flat     bool              // emit arena nodes instead of nested periods
	YearDays period.YearLength // year length for balance_years; zero means default
}

// New builds the document for a chart from ComputeAll results.
func New(chart string, birth time.Time, pt nakshatra.Point, results []dasha.Result, opts Options) Document {
	doc := Document{
		Chart: chart,
		Birth: stamp(birth),
		Nakshatra: Placement{
			Name:      pt.Name(),
			Index:     pt.Index,
			Pada:      pt.Pada(),
			Longitude: pt.Longitude,
			Elapsed:   pt.Elapsed,
		},
		Systems: make([]SystemDoc, 0, len(results)),
	}
	for _, r := range results {
		doc.Systems = append(doc.Systems, systemDoc(r, opts))
	}
	return doc
}

func systemDoc(r dasha.Result, opts Options) SystemDoc {
	sd := SystemDoc{System: r.System}
	if r.Err != nil || r.Tree == nil {
		if r.Err != nil {
			sd.Error = r.Err.Error()
		}
		return sd
	}
	sd.StartingLord = dasha.Label(r.System, r.Lord)
	sd.BalanceYears = opts.YearDays.Years(r.Tree.Balance())
	if opts.Flat {
		sd.Flat = flatDocs(r.Tree.Flatten())
		return sd
	}
	sd.Periods = periodDocs(r.Tree.Nodes)
	return sd
}

func periodDocs(nodes []*period.Node) []PeriodDoc {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]PeriodDoc, len(nodes))
	for i, n := range nodes {
		out[i] = PeriodDoc{
			Lord:     string(n.Lord),
			Start:    stamp(n.Start),
			End:      stamp(n.End),
			Children: periodDocs(n.Children),
		}
	}
	return out
}

func flatDocs(a period.Arena) []FlatDoc {
	out := make([]FlatDoc, len(a.Nodes))
	for i, n := range a.Nodes {
		out[i] = FlatDoc{
			Lord:   string(n.Lord),
			Level:  n.Level.String(),
			Start:  stamp(n.Start),
			End:    stamp(n.End),
			Parent: n.Parent,
		}
	}
	return out
}

// ActiveDoc is the report for an active-period query across systems.
type ActiveDoc struct {
	Chart   string        `json:"chart" yaml:"chart" toml:"chart"`
	At      string        `json:"at" yaml:"at" toml:"at"`
	Systems []ActiveEntry `json:"systems" yaml:"systems" toml:"systems"`
}

// ActiveEntry lists one system's running periods by level name.
type ActiveEntry struct {
	System          string   `json:"system" yaml:"system" toml:"system"`
	Error           string   `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	Fallback        bool     `json:"fallback" yaml:"fallback" toml:"fallback"`
	Warning         string   `json:"warning,omitempty" yaml:"warning,omitempty" toml:"warning,omitempty"`
	Mahadasha       *Running `json:"mahadasha,omitempty" yaml:"mahadasha,omitempty" toml:"mahadasha,omitempty"`
	Antardasha      *Running `json:"antardasha,omitempty" yaml:"antardasha,omitempty" toml:"antardasha,omitempty"`
	Pratyantardasha *Running `json:"pratyantardasha,omitempty" yaml:"pratyantardasha,omitempty" toml:"pratyantardasha,omitempty"`
	Sookshma        *Running `json:"sookshma,omitempty" yaml:"sookshma,omitempty" toml:"sookshma,omitempty"`
	Prana           *Running `json:"prana,omitempty" yaml:"prana,omitempty" toml:"prana,omitempty"`
	Deha            *Running `json:"deha,omitempty" yaml:"deha,omitempty" toml:"deha,omitempty"`
}

// Running is a single running period.
type Running struct {
	Lord  string `json:"lord" yaml:"lord" toml:"lord"`
	Start string `json:"start" yaml:"start" toml:"start"`
	End   string `json:"end" yaml:"end" toml:"end"`
}

// NewActive builds the active-period document. Failed systems carry only
// their error.
func NewActive(chart string, at time.Time, results []dasha.Result) ActiveDoc {
	doc := ActiveDoc{Chart: chart, At: stamp(at), Systems: make([]ActiveEntry, 0, len(results))}
	for _, r := range results {
		e := ActiveEntry{System: r.System}
		if r.Err != nil || r.Tree == nil {
			if r.Err != nil {
				e.Error = r.Err.Error()
			}
			doc.Systems = append(doc.Systems, e)
			continue
		}
		a := dasha.Active(r.Tree, at)
		e.Fallback = a.Fallback
		if a.Warning != nil {
			e.Warning = a.Warning.Error()
		}
		slots := []**Running{&e.Mahadasha, &e.Antardasha, &e.Pratyantardasha, &e.Sookshma, &e.Prana, &e.Deha}
		for i, p := range a.Periods {
			if i >= len(slots) {
				break
			}
			*slots[i] = &Running{Lord: dasha.Label(r.System, p.Lord), Start: stamp(p.Start), End: stamp(p.End)}
		}
		doc.Systems = append(doc.Systems, e)
	}
	return doc
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
