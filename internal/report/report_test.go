package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/kala/internal/ansi"
	"github.com/papapumpkin/kala/internal/dasha"
	"github.com/papapumpkin/kala/internal/nakshatra"
)

var birth = time.Date(1990, 1, 1, 1, 0, 0, 0, time.UTC)

func fixture(t *testing.T) (nakshatra.Point, []dasha.Result) {
	t.Helper()
	in := dasha.Input{Birth: birth, MoonLongitude: 303.394}
	opts := dasha.Options{Depths: map[string]int{"vimshottari": 2, "yogini": 1}, HorizonYears: 40}
	results := dasha.ComputeAll([]string{"vimshottari", "yogini", "nadi"}, in, opts)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	require.Error(t, results[2].Err)
	return nakshatra.Resolve(in.MoonLongitude), results
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"toml", FormatTOML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Nested(t *testing.T) {
	t.Parallel()
	pt, results := fixture(t)

	doc := New("delhi-1990", birth, pt, results, Options{})
	assert.Equal(t, "1990-01-01T01:00:00Z", doc.Birth)
	assert.Equal(t, "Dhanishta", doc.Nakshatra.Name)
	assert.Equal(t, 4, doc.Nakshatra.Pada)
	require.Len(t, doc.Systems, 3)

	vim := doc.Systems[0]
	tree := results[0].Tree
	assert.Equal(t, "Mars", vim.StartingLord)
	assert.InDelta(t, 7*pt.Remaining, vim.BalanceYears, 1e-6)
	require.Len(t, vim.Periods, len(tree.Nodes))
	for i, n := range tree.Nodes {
		assert.Equal(t, string(n.Lord), vim.Periods[i].Lord)
		assert.Equal(t, n.End.UTC().Format(time.RFC3339), vim.Periods[i].End)
		assert.Len(t, vim.Periods[i].Children, len(n.Children))
	}
	assert.Equal(t, doc.Birth, vim.Periods[0].Children[0].Start, "first antardasha starts at birth")
	assert.Nil(t, vim.Flat)

	assert.Equal(t, "Pingala (Sun)", doc.Systems[1].StartingLord)
	assert.Empty(t, doc.Systems[1].Periods[0].Children, "yogini generated at depth 1")

	bad := doc.Systems[2]
	assert.Equal(t, "nadi", bad.System)
	assert.Contains(t, bad.Error, "unknown")
	assert.Empty(t, bad.Periods)
}

func TestNew_Flat(t *testing.T) {
	t.Parallel()
	pt, results := fixture(t)

	doc := New("delhi-1990", birth, pt, results, Options{Flat: true})
	vim := doc.Systems[0]
	assert.Nil(t, vim.Periods)
	require.Len(t, vim.Flat, results[0].Tree.Len())
	assert.Equal(t, -1, vim.Flat[0].Parent)
	assert.Equal(t, "maha", vim.Flat[0].Level)
	assert.Equal(t, 0, vim.Flat[1].Parent)
	assert.Equal(t, "antar", vim.Flat[1].Level)
}

func TestRender_JSON(t *testing.T) {
	t.Parallel()
	pt, results := fixture(t)
	doc := New("delhi-1990", birth, pt, results, Options{})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, doc))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	systems := raw["systems"].([]any)
	require.Len(t, systems, 3)
	first := systems[0].(map[string]any)
	periods := first["periods"].([]any)
	root := periods[0].(map[string]any)
	assert.Equal(t, "Mars", root["lord"])
	_, err := time.Parse(time.RFC3339, root["start"].(string))
	assert.NoError(t, err)
	assert.Contains(t, root, "children")
	assert.NotContains(t, systems[2].(map[string]any), "periods")
}

func TestRender_StructuredFormatsDecode(t *testing.T) {
	t.Parallel()
	pt, results := fixture(t)
	doc := New("delhi-1990", birth, pt, results, Options{})

	decoders := map[Format]func([]byte, any) error{
		FormatYAML: yaml.Unmarshal,
		FormatTOML: toml.Unmarshal,
	}
	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, format, doc))

			var got Document
			require.NoError(t, decode(buf.Bytes(), &got))
			if diff := cmp.Diff(doc, got, cmpopts.EquateApprox(0, 1e-12), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("decoded %s report mismatch (-want +got):\n%s", format, diff)
			}
		})
	}
}

func TestRender_Text(t *testing.T) {
	t.Parallel()
	pt, results := fixture(t)
	doc := New("delhi-1990", birth, pt, results, Options{})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatText, doc))
	out := ansi.Strip(buf.String())

	for _, want := range []string{
		"delhi-1990",
		"Dhanishta pada 4",
		"vimshottari starting lord Mars",
		"yogini starting lord Pingala (Sun)",
		"nadi: unavailable",
		"1990-01-01T01:00:00Z →",
	} {
		assert.Contains(t, out, want)
	}

	// Flat mode renders the same periods in the same order.
	var flat bytes.Buffer
	require.NoError(t, Render(&flat, FormatText, New("delhi-1990", birth, pt, results, Options{Flat: true})))
	assert.Equal(t, out, ansi.Strip(flat.String()))
}

func TestNewActive(t *testing.T) {
	t.Parallel()
	_, results := fixture(t)

	at := time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC)
	doc := NewActive("delhi-1990", at, results)
	require.Len(t, doc.Systems, 3)

	vim := doc.Systems[0]
	require.NotNil(t, vim.Mahadasha)
	assert.Equal(t, "Rahu", vim.Mahadasha.Lord)
	assert.NotNil(t, vim.Antardasha)
	assert.Nil(t, vim.Pratyantardasha)
	assert.False(t, vim.Fallback)
	assert.Empty(t, vim.Warning)

	assert.NotNil(t, doc.Systems[1].Mahadasha)
	assert.Nil(t, doc.Systems[1].Antardasha)
	assert.NotEmpty(t, doc.Systems[2].Error)

	early := NewActive("delhi-1990", birth.AddDate(-1, 0, 0), results)
	assert.True(t, early.Systems[0].Fallback)
	assert.Contains(t, early.Systems[0].Warning, "before birth")
	assert.Equal(t, "Mars", early.Systems[0].Mahadasha.Lord)
}

func TestRenderActive(t *testing.T) {
	t.Parallel()
	_, results := fixture(t)
	doc := NewActive("delhi-1990", time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC), results)

	var js bytes.Buffer
	require.NoError(t, RenderActive(&js, FormatJSON, doc))
	var raw struct {
		Systems []map[string]json.RawMessage `json:"systems"`
	}
	require.NoError(t, json.Unmarshal(js.Bytes(), &raw))
	assert.Contains(t, raw.Systems[0], "mahadasha")
	assert.Contains(t, raw.Systems[0], "antardasha")
	assert.Contains(t, raw.Systems[0], "fallback")
	assert.NotContains(t, raw.Systems[0], "pratyantardasha")

	var text bytes.Buffer
	require.NoError(t, RenderActive(&text, FormatText, doc))
	out := ansi.Strip(text.String())
	assert.Contains(t, out, "mahadasha")
	assert.Contains(t, out, "Rahu")
	assert.Contains(t, out, "nadi: unavailable")
}

func TestEncode_UnknownFormat(t *testing.T) {
	t.Parallel()
	err := Render(&bytes.Buffer{}, Format("xml"), Document{})
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.False(t, strings.Contains(err.Error(), "%!"))
}
