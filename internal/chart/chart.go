// Package chart loads birth charts from TOML files. A chart names a birth
// instant and a source for the Moon's sidereal longitude at that instant,
// which is all the dasha engine needs.
package chart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/kala/internal/ephemeris"
)

// Sentinel errors for chart loading.
var (
	// ErrNoCharts indicates a file without any [[chart]] entries.
	ErrNoCharts = errors.New("no [[chart]] entries")
	// ErrChartNotFound indicates a chart name that is not in the file.
	ErrChartNotFound = errors.New("chart not found")
	// ErrNoMoonSource indicates a chart with neither moon_longitude nor ephemeris.
	ErrNoMoonSource = errors.New("chart needs moon_longitude or ephemeris")
)

// Chart is one birth record.
type Chart struct {
	Name          string     `toml:"name" validate:"required"`
	Birth         *time.Time `toml:"birth,omitempty" validate:"required_without=BirthJD,excluded_with=BirthJD"`
	BirthJD       *float64   `toml:"birth_jd,omitempty" validate:"omitempty,gt=0"`
	MoonLongitude *float64   `toml:"moon_longitude,omitempty" validate:"required_without=Ephemeris,excluded_with=Ephemeris"`
	Ephemeris     string     `toml:"ephemeris,omitempty"`
	Latitude      float64    `toml:"latitude" validate:"gte=-90,lte=90"`
	Longitude     float64    `toml:"longitude" validate:"gte=-180,lte=180"`

	dir string // directory of the source file, for relative ephemeris paths
}

// file is the on-disk layout.
type file struct {
	Charts []Chart `toml:"chart" validate:"dive"`
}

// Instant returns the birth instant in UTC.
func (c Chart) Instant() time.Time {
	if c.Birth != nil {
		return c.Birth.UTC()
	}
	if c.BirthJD != nil {
		return ephemeris.FromJulianDay(*c.BirthJD)
	}
	return time.Time{}
}

// Location returns the observer position.
func (c Chart) Location() ephemeris.Location {
	return ephemeris.Location{Latitude: c.Latitude, Longitude: c.Longitude}
}

// Provider returns the ephemeris the chart's Moon longitude comes from: a
// fixed value or a tabulated file resolved relative to the chart file.
func (c Chart) Provider() (ephemeris.Provider, error) {
	if c.MoonLongitude != nil {
		return ephemeris.Fixed(*c.MoonLongitude), nil
	}
	if c.Ephemeris == "" {
		return nil, fmt.Errorf("chart %q: %w", c.Name, ErrNoMoonSource)
	}
	path := c.Ephemeris
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	return ephemeris.LoadTabulated(path)
}

// Load reads and validates every chart in a TOML file.
func Load(path string) ([]Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chart file: %w", err)
	}
	charts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range charts {
		charts[i].dir = dir
	}
	return charts, nil
}

// Parse decodes and validates chart TOML.
func Parse(data []byte) ([]Chart, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing chart TOML: %w", err)
	}
	if len(f.Charts) == 0 {
		return nil, ErrNoCharts
	}
	if err := validateFile(f); err != nil {
		return nil, err
	}
	return f.Charts, nil
}

// Select returns the chart with the given name, or the only chart when name
// is empty.
func Select(charts []Chart, name string) (Chart, error) {
	if name == "" {
		if len(charts) == 1 {
			return charts[0], nil
		}
		names := make([]string, len(charts))
		for i, c := range charts {
			names[i] = c.Name
		}
		return Chart{}, fmt.Errorf("%w: file has %d charts, pick one of %s", ErrChartNotFound, len(charts), strings.Join(names, ", "))
	}
	for _, c := range charts {
		if c.Name == name {
			return c, nil
		}
	}
	return Chart{}, fmt.Errorf("%w: %q", ErrChartNotFound, name)
}

func validateFile(f file) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	seen := make(map[string]bool, len(f.Charts))
	var errs []error
	for i, c := range f.Charts {
		label := c.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if seen[c.Name] && c.Name != "" {
			errs = append(errs, &ValidationError{Chart: label, Field: "name", Err: ErrDuplicateName})
		}
		seen[c.Name] = true

		if err := v.Struct(c); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return err
			}
			for _, fe := range verrs {
				errs = append(errs, &ValidationError{
					Chart: label,
					Field: fe.Field(),
					Err:   fmt.Errorf("%w: failed %q", ErrInvalidField, fe.Tag()),
				})
			}
		}
	}
	return errors.Join(errs...)
}
