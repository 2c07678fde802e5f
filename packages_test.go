package tsresolve

import (
	"path/filepath"
	"testing"
)

func TestListInstalledPackages(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "proj/node_modules/a/package.json"), `{"name": "a", "version": "1.0.0"}`)
	writeFile(t, filepath.Join(tmp, "proj/node_modules/@scope/b/package.json"), `{"name": "@scope/b", "version": "v2.1.0"}`)
	writeFile(t, filepath.Join(tmp, "proj/node_modules/.bin/ignored"), "")
	writeFile(t, filepath.Join(tmp, "node_modules/a/package.json"), `{"name": "a", "version": "3.0.0"}`)
	writeFile(t, filepath.Join(tmp, "node_modules/c/package.json"), `{"name": "c", "version": "weird"}`)
	writeFile(t, filepath.Join(tmp, "node_modules/no-manifest/readme.txt"), "")

	packages := ListInstalledPackages(filepath.Join(tmp, "proj"))

	byName := map[string]PackageInfo{}
	for _, pkg := range packages {
		byName[pkg.Name] = pkg
	}

	if len(byName) != 3 {
		t.Fatalf("expected 3 packages, got %v", packages)
	}
	if byName["a"].Version != "1.0.0" {
		t.Fatalf("the nearest install must shadow the ancestor one, got %+v", byName["a"])
	}
	if byName["a"].Path != filepath.Join(tmp, "proj/node_modules/a") {
		t.Fatalf("unexpected path %q", byName["a"].Path)
	}
	if byName["@scope/b"].Version != "2.1.0" {
		t.Fatalf("semver versions must be normalized, got %+v", byName["@scope/b"])
	}
	if byName["c"].Version != "weird" {
		t.Fatalf("non-semver versions pass through verbatim, got %+v", byName["c"])
	}

	// Sorted by name.
	for i := 1; i < len(packages); i++ {
		if packages[i-1].Name > packages[i].Name {
			t.Fatalf("packages not sorted: %v", packages)
		}
	}
}

func TestFilterPackages(t *testing.T) {
	packages := []PackageInfo{
		{Name: "@types/node"},
		{Name: "@types/lodash"},
		{Name: "lodash"},
		{Name: "react"},
	}

	names := func(pkgs []PackageInfo) []string {
		out := make([]string, len(pkgs))
		for i, pkg := range pkgs {
			out[i] = pkg.Name
		}
		return out
	}

	got := names(FilterPackages(packages, []string{"@types/*"}, nil))
	if len(got) != 2 || got[0] != "@types/node" || got[1] != "@types/lodash" {
		t.Fatalf("include filter mismatch: %v", got)
	}

	got = names(FilterPackages(packages, []string{"@types/*"}, []string{"@types/node"}))
	if len(got) != 1 || got[0] != "@types/lodash" {
		t.Fatalf("exclusions must win over inclusions: %v", got)
	}

	got = names(FilterPackages(packages, nil, []string{"react"}))
	if len(got) != 3 {
		t.Fatalf("empty include list includes everything: %v", got)
	}
}
