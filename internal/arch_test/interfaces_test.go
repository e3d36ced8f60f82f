package arch_test

import (
	"go/ast"
	"sort"
	"testing"
)

// providerInterfaces are interfaces deliberately declared next to their
// implementations. ephemeris.Provider ships with Fixed, Func and Tabulated
// while nakshatra, dasha and chart consume it and tests plug in their own.
var providerInterfaces = map[string]bool{
	"ephemeris.Provider": true,
}

// methodSets maps each receiver type in s to its method names.
func methodSets(s *pkgSource) map[string]map[string]bool {
	out := map[string]map[string]bool{}
	for _, f := range s.Files {
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
				continue
			}
			expr := fd.Recv.List[0].Type
			if star, ok := expr.(*ast.StarExpr); ok {
				expr = star.X
			}
			id, ok := expr.(*ast.Ident)
			if !ok {
				continue
			}
			if out[id.Name] == nil {
				out[id.Name] = map[string]bool{}
			}
			out[id.Name][fd.Name.Name] = true
		}
	}
	return out
}

// interfaces maps each interface type declared in s to its method names.
func interfaces(s *pkgSource) map[string][]string {
	out := map[string][]string{}
	for _, f := range s.Files {
		ast.Inspect(f, func(n ast.Node) bool {
			ts, ok := n.(*ast.TypeSpec)
			if !ok {
				return true
			}
			it, ok := ts.Type.(*ast.InterfaceType)
			if !ok {
				return false
			}
			var methods []string
			for _, m := range it.Methods.List {
				for _, name := range m.Names {
					methods = append(methods, name.Name)
				}
			}
			out[ts.Name.Name] = methods
			return false
		})
	}
	return out
}

// TestInterfacePlacement flags interfaces declared in the same package as a
// type that already satisfies them by method names. Interfaces belong with
// their consumers unless listed in providerInterfaces.
func TestInterfacePlacement(t *testing.T) {
	t.Parallel()

	for _, s := range internalSources(t) {
		ifaces := interfaces(s)
		if len(ifaces) == 0 {
			continue
		}
		sets := methodSets(s)
		for name, methods := range ifaces {
			if len(methods) == 0 || providerInterfaces[s.Name+"."+name] {
				continue
			}
			var impls []string
			for typ, set := range sets {
				if hasAll(set, methods) {
					impls = append(impls, typ)
				}
			}
			sort.Strings(impls)
			if len(impls) > 0 {
				t.Errorf("interface %s.%s is implemented in its own package by %v; declare it where it is consumed", s.Name, name, impls)
			}
		}
	}
}

func TestProviderInterfacesExist(t *testing.T) {
	t.Parallel()

	ifaces := interfaces(source(t, "ephemeris"))
	if len(ifaces["Provider"]) == 0 {
		t.Fatal("ephemeris.Provider not found or has no methods")
	}
}

func hasAll(set map[string]bool, methods []string) bool {
	for _, m := range methods {
		if !set[m] {
			return false
		}
	}
	return true
}
