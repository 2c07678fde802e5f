package tsresolve

import (
	"path/filepath"
	"testing"
)

func TestParseTsConfig_JsoncWithOrderedPaths(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "tsconfig.json"), `{
		// project config
		"compilerOptions": {
			"baseUrl": "./src",
			"paths": {
				"@app/*": ["app/*"],
				"@lib/*": ["lib/*", "vendor/lib/*"],
			},
		},
	}`)

	config, err := ParseTsConfig(filepath.Join(tmp, "tsconfig.json"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts := config.CompilerOptions
	if opts.BaseURL != "./src" {
		t.Fatalf("unexpected baseUrl %q", opts.BaseURL)
	}
	if len(opts.Paths) != 2 {
		t.Fatalf("expected 2 path aliases, got %d", len(opts.Paths))
	}
	if opts.Paths[0].Pattern != "@app/*" || opts.Paths[1].Pattern != "@lib/*" {
		t.Fatalf("declaration order lost: %v", opts.Paths)
	}
	if len(opts.Paths[1].Destinations) != 2 || opts.Paths[1].Destinations[1] != "vendor/lib/*" {
		t.Fatalf("unexpected destinations %v", opts.Paths[1].Destinations)
	}
}

func TestParseTsConfig_ExtendsChildWins(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "base.json"), `{
		"compilerOptions": {
			"baseUrl": "./base",
			"paths": {
				"a/*": ["base-a/*"],
				"c/*": ["base-c/*"]
			}
		}
	}`)
	writeFile(t, filepath.Join(tmp, "tsconfig.json"), `{
		"extends": "./base.json",
		"compilerOptions": {
			"paths": {
				"b/*": ["child-b/*"],
				"a/*": ["child-a/*"]
			}
		}
	}`)

	config, err := ParseTsConfig(filepath.Join(tmp, "tsconfig.json"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts := config.CompilerOptions

	// Child has no baseUrl, so the inherited one applies (same directory, no
	// rebasing needed).
	if opts.BaseURL != "base" {
		t.Fatalf("unexpected baseUrl %q", opts.BaseURL)
	}

	// Child declarations first in their own order, then inherited entries
	// the child did not override.
	want := []string{"b/*", "a/*", "c/*"}
	if len(opts.Paths) != len(want) {
		t.Fatalf("expected %d aliases, got %v", len(want), opts.Paths)
	}
	for i, pattern := range want {
		if opts.Paths[i].Pattern != pattern {
			t.Fatalf("alias %d: expected %q, got %q", i, pattern, opts.Paths[i].Pattern)
		}
	}
	if opts.Paths[1].Destinations[0] != "child-a/*" {
		t.Fatalf("child must override the inherited alias, got %v", opts.Paths[1].Destinations)
	}
}

func TestParseTsConfig_ExtendsRebasesInheritedPaths(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "sub/base.json"), `{
		"compilerOptions": {
			"baseUrl": "./root",
			"paths": {
				"x/*": ["./lib/*"]
			}
		}
	}`)
	writeFile(t, filepath.Join(tmp, "tsconfig.json"), `{
		"extends": "./sub/base.json"
	}`)

	config, err := ParseTsConfig(filepath.Join(tmp, "tsconfig.json"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts := config.CompilerOptions
	if opts.BaseURL != "sub/root" {
		t.Fatalf("inherited baseUrl must be rebased, got %q", opts.BaseURL)
	}
	if opts.Paths[0].Destinations[0] != "sub/lib/*" {
		t.Fatalf("inherited destination must be rebased, got %v", opts.Paths[0].Destinations)
	}
}

func TestParseTsConfig_ExtendsWithoutExtension(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "base.json"), `{
		"compilerOptions": {"baseUrl": "./src"}
	}`)
	writeFile(t, filepath.Join(tmp, "tsconfig.json"), `{
		"extends": "./base"
	}`)

	config, err := ParseTsConfig(filepath.Join(tmp, "tsconfig.json"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if config.CompilerOptions.BaseURL != "src" {
		t.Fatalf("unexpected baseUrl %q", config.CompilerOptions.BaseURL)
	}
}

func TestParseTsConfig_ExtendsPackage(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "node_modules/@preset/strict/tsconfig.json"), `{
		"compilerOptions": {"paths": {"p/*": ["preset/*"]}}
	}`)
	writeFile(t, filepath.Join(tmp, "tsconfig.json"), `{
		"extends": "@preset/strict"
	}`)

	config, err := ParseTsConfig(filepath.Join(tmp, "tsconfig.json"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts := config.CompilerOptions
	if len(opts.Paths) != 1 || opts.Paths[0].Pattern != "p/*" {
		t.Fatalf("expected preset paths to be inherited, got %v", opts.Paths)
	}
	if opts.Paths[0].Destinations[0] != "node_modules/@preset/strict/preset/*" {
		t.Fatalf("preset destination must be rebased, got %v", opts.Paths[0].Destinations)
	}
}

func TestParseTsConfig_ExtendsCycleTerminates(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "a.json"), `{
		"extends": "./b.json",
		"compilerOptions": {"paths": {"a/*": ["a/*"]}}
	}`)
	writeFile(t, filepath.Join(tmp, "b.json"), `{
		"extends": "./a.json",
		"compilerOptions": {"paths": {"b/*": ["b/*"]}}
	}`)

	config, err := ParseTsConfig(filepath.Join(tmp, "a.json"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts := config.CompilerOptions
	if len(opts.Paths) != 2 {
		t.Fatalf("expected both aliases once, got %v", opts.Paths)
	}
}

func TestParseTsConfig_MissingFile(t *testing.T) {
	if _, err := ParseTsConfig(filepath.Join(t.TempDir(), "tsconfig.json")); err == nil {
		t.Fatalf("expected an error for a missing config")
	}
}

func TestParseTsConfig_MalformedJson(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "tsconfig.json"), `{"compilerOptions": {{{`)
	if _, err := ParseTsConfig(filepath.Join(tmp, "tsconfig.json")); err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}
