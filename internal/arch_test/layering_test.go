package arch_test

import "testing"

// layers places each internal package in the dependency order. A package
// may only import packages on a strictly lower layer, so leaf packages
// (period, ephemeris) stay free of any other internal import.
var layers = map[string]int{
	"ansi":      0,
	"config":    0,
	"ephemeris": 0,
	"logging":   0,
	"period":    0,
	"telemetry": 0,

	"chart":     1,
	"nakshatra": 1,

	"dasha": 2,

	"report": 3,
	"ui":     3,
}

func TestDependencyLayering(t *testing.T) {
	t.Parallel()

	for _, s := range internalSources(t) {
		from, ok := layers[s.Name]
		if !ok {
			t.Errorf("package %s has no layer assignment; add it to the layers map", s.Name)
			continue
		}
		for _, imp := range s.internalImports() {
			to, ok := layers[imp]
			if !ok {
				continue
			}
			if to >= from {
				t.Errorf("layer violation: %s (layer %d) imports %s (layer %d)", s.Name, from, imp, to)
			}
		}
	}
}

func TestLayersAreCurrent(t *testing.T) {
	t.Parallel()

	present := map[string]bool{}
	for _, s := range internalSources(t) {
		present[s.Name] = true
	}
	for name := range layers {
		if !present[name] {
			t.Errorf("layers lists %s but internal/%s does not exist", name, name)
		}
	}
}
