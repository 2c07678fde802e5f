package tsresolve

import (
	"path/filepath"
	"strings"
	"time"
)

// buildExtensions is the probe extension order used for build-time
// resolution. Order is priority: emitted JS wins over sources, declaration
// files come last.
var buildExtensions = []string{".js", ".json", ".node", ".mjs", ".cjs", ".ts", ".tsx", ".d.ts"}

// mainFieldPriority prefers bundled type declarations, then the Angular
// package format entry points, before falling back to plain "main".
// APF: https://angular.io/guide/angular-package-format
var mainFieldPriority = []string{
	"types",
	"typings",
	"fesm2020",
	"fesm2015",
	"esm2020",
	"es2020",
	"module",
	"jsnext:main",
	"main",
}

// ResolveResult is the external contract of a resolution call: Path is empty
// whenever Found is false.
type ResolveResult struct {
	Found bool   `json:"found"`
	Path  string `json:"path"`
}

// ResolveManager sequences the resolution strategies for a host build tool:
// direct/relative resolution, the @types/ typings fallback, then tsconfig
// path aliases. It owns the config cache and is safe for concurrent use from
// many caller goroutines; each Resolve call is a synchronous, blocking
// computation over filesystem state.
type ResolveManager struct {
	overlay     *ConfigOverlay
	coreModules *CoreModules
}

type ManagerOption func(*ResolveManager)

// WithConfigTTL sets the validity window of cached tsconfig parses.
func WithConfigTTL(ttl time.Duration) ManagerOption {
	return func(m *ResolveManager) {
		m.overlay = NewConfigOverlay(ttl)
	}
}

// WithCoreModulesDir points core-module detection at a different directory
// of builtin type-declaration stubs.
func WithCoreModulesDir(dir string) ManagerOption {
	return func(m *ResolveManager) {
		m.coreModules = NewCoreModules(dir)
	}
}

func NewResolveManager(options ...ManagerOption) *ResolveManager {
	m := &ResolveManager{
		overlay:     NewConfigOverlay(DefaultConfigTTL),
		coreModules: NewCoreModules(""),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// removeQueryString drops any trailing query string from a specifier;
// bundler conventions like "./styles.css?raw" address the same file.
func removeQueryString(specifier string) string {
	if idx := strings.Index(specifier, "?"); idx >= 0 {
		return specifier[:idx]
	}
	return specifier
}

// Resolve resolves specifier as imported from importerFile, using the
// tsconfig identified by tsconfigLocator. importerFile may be empty or
// non-absolute to request resolution against the tsconfig base directory
// instead of an importer's own directory. Failures of any kind surface as
// {Found: false, Path: ""} — never as a panic.
func (m *ResolveManager) Resolve(specifier, importerFile, tsconfigLocator string) ResolveResult {
	source := removeQueryString(specifier)

	baseDir := m.overlay.BaseDirFor(tsconfigLocator)

	resolver := NewResolver().
		WithExtensions(buildExtensions).
		WithMainFields(mainFieldPriority).
		WithCoreModules(m.coreModules).
		WithBaseDir(baseDir)

	// Relative imports resolve against the importing file's own directory;
	// bare imports always resolve against the tsconfig base.
	if strings.HasPrefix(importerFile, "/") && strings.HasPrefix(source, ".") {
		importerDir := filepath.Dir(importerFile)
		if resolved, err := resolver.WithBaseDir(importerDir).Resolve(source); err == nil {
			return ResolveResult{Found: true, Path: resolved}
		}
	} else {
		if resolved, err := resolver.Resolve(source); err == nil {
			return ResolveResult{Found: true, Path: resolved}
		}
	}

	// Typings fallback for packages that ship no types of their own.
	if resolved, err := resolver.Resolve("@types/" + source); err == nil {
		return ResolveResult{Found: true, Path: resolved}
	}

	config := m.overlay.TsConfigFor(tsconfigLocator)
	if config == nil || config.CompilerOptions == nil {
		return ResolveResult{}
	}

	// Path aliases are tried last, in declaration order; the first matching
	// pattern with a resolvable destination wins.
	for _, alias := range config.CompilerOptions.Paths {
		capture, ok := MatchStar(alias.Pattern, source)
		if !ok {
			continue
		}
		for _, destination := range alias.Destinations {
			physical := strings.Replace(destination, "*", capture, 1)
			if resolved, err := resolver.Resolve(filepath.Join(baseDir, physical)); err == nil {
				return ResolveResult{Found: true, Path: resolved}
			}
		}
	}

	return ResolveResult{}
}
