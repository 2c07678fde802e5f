package tsresolve

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// ErrNotFound reports that no resolution strategy produced a file.
var ErrNotFound = errors.New("not found")

// ErrMissingBaseDir reports that Resolve was called before a base directory
// was configured. That is an integration bug in the caller, never a normal
// runtime condition, so it stays distinct from ErrNotFound.
var ErrMissingBaseDir = errors.New("must set a base directory before resolving")

// Resolver implements Node's module resolution algorithm over a fixed set of
// options. A Resolver is an immutable value: every With* option returns a
// copy, so concurrent resolutions with different base directories never
// interfere.
type Resolver struct {
	baseDir          string
	extensions       []string
	mainFields       []string
	preserveSymlinks bool
	coreModules      *CoreModules
}

// NewResolver returns a Resolver with Node's default extension list and
// "main" as the only package.json entry field.
func NewResolver() Resolver {
	return Resolver{
		extensions:  []string{".js", ".json", ".node"},
		mainFields:  []string{"main"},
		coreModules: NewCoreModules(""),
	}
}

// WithBaseDir returns a copy resolving non-absolute specifiers against baseDir.
func (r Resolver) WithBaseDir(baseDir string) Resolver {
	r.baseDir = baseDir
	return r
}

// WithExtensions returns a copy with a different probe extension list.
// Extensions are tried in the given order; entries are normalized to start
// with a dot.
func (r Resolver) WithExtensions(extensions []string) Resolver {
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	r.extensions = normalized
	return r
}

// WithMainFields returns a copy with a different package.json entry-field
// priority list.
func (r Resolver) WithMainFields(mainFields []string) Resolver {
	r.mainFields = append([]string(nil), mainFields...)
	return r
}

// WithPreserveSymlinks returns a copy that keeps symlinked components in
// resolved paths instead of canonicalizing them away.
func (r Resolver) WithPreserveSymlinks(preserve bool) Resolver {
	r.preserveSymlinks = preserve
	return r
}

// WithCoreModules returns a copy using a different core-module capability.
func (r Resolver) WithCoreModules(core *CoreModules) Resolver {
	r.coreModules = core
	return r
}

// Resolve resolves a require()/import specifier to an absolute file path.
// Core modules resolve to themselves verbatim. Strategies are tried in
// strict order: as-file, as-directory, then a node_modules walk up through
// the base directory's ancestors.
func (r Resolver) Resolve(specifier string) (string, error) {
	if r.coreModules != nil && r.coreModules.Contains(specifier) {
		return specifier, nil
	}

	isAbsolute := strings.HasPrefix(specifier, "/")

	baseDir := r.baseDir
	if isAbsolute {
		baseDir = "/"
	} else if baseDir == "" {
		return "", ErrMissingBaseDir
	}

	path := filepath.Join(baseDir, specifier)
	if resolved, err := r.resolveAsFile(path); err == nil {
		return r.normalize(resolved)
	}
	if resolved, err := r.resolveAsDirectory(path); err == nil {
		return r.normalize(resolved)
	}

	if isAbsolute {
		return "", ErrNotFound
	}

	resolved, err := r.resolveNodeModules(specifier)
	if err != nil {
		return "", err
	}
	return r.normalize(resolved)
}

// resolveAsFile probes path as an existing file, then path plus each
// configured extension. The first hit wins; order is priority, not
// alphabetical.
func (r Resolver) resolveAsFile(path string) (string, error) {
	if isFile(path) {
		return path, nil
	}

	for _, ext := range r.extensions {
		withExt := path + ext
		if isFile(withExt) {
			return withExt, nil
		}
	}

	return "", ErrNotFound
}

// resolveAsDirectory probes path as a package directory, using its
// package.json entry field when one is usable, or the index.EXT fallback.
func (r Resolver) resolveAsDirectory(path string) (string, error) {
	pkgPath := filepath.Join(path, "package.json")
	if isFile(pkgPath) {
		if resolved, err := r.resolvePackageMain(pkgPath); err == nil {
			return resolved, nil
		}
	}

	return r.resolveIndex(path)
}

// resolvePackageMain resolves the first configured main field holding a
// string value, as a file then as a directory.
func (r Resolver) resolvePackageMain(pkgPath string) (string, error) {
	pkgDir := filepath.Dir(pkgPath)

	pkg, err := readPackageJSON(pkgPath)
	if err != nil {
		return "", err
	}

	for _, field := range r.mainFields {
		main, ok := pkg[field].(string)
		if !ok {
			continue
		}
		target := filepath.Join(pkgDir, main)
		if resolved, err := r.resolveAsFile(target); err == nil {
			return resolved, nil
		}
		return r.resolveAsDirectory(target)
	}

	return "", ErrNotFound
}

// resolveIndex resolves a directory to its index.EXT file.
func (r Resolver) resolveIndex(path string) (string, error) {
	for _, ext := range r.extensions {
		indexPath := filepath.Join(path, "index"+ext)
		if isFile(indexPath) {
			return indexPath, nil
		}
	}

	return "", ErrNotFound
}

// resolveNodeModules walks node_modules directories from the base directory
// up through its ancestors, stopping once the filesystem root has been tried.
func (r Resolver) resolveNodeModules(specifier string) (string, error) {
	if r.baseDir == "" {
		return "", ErrMissingBaseDir
	}

	dir := r.baseDir
	for {
		nodeModules := filepath.Join(dir, "node_modules")
		if isDir(nodeModules) {
			candidate := filepath.Join(nodeModules, specifier)
			if resolved, err := r.resolveAsFile(candidate); err == nil {
				return resolved, nil
			}
			if resolved, err := r.resolveAsDirectory(candidate); err == nil {
				return resolved, nil
			}
			if resolved, err := r.resolveExports(specifier, candidate, specifier); err == nil {
				return resolved, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

func (r Resolver) normalize(path string) (string, error) {
	if r.preserveSymlinks {
		return normalizePath(path), nil
	}
	resolved, err := canonicalizePath(path)
	if err != nil {
		// Broken symlink or permission failure during canonicalization
		// folds into not-found rather than aborting the resolution run.
		return "", ErrNotFound
	}
	return resolved, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// readPackageJSON reads and parses a package.json, tolerating comments and
// trailing commas the same way tsconfig files are read.
func readPackageJSON(path string) (map[string]interface{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pkg map[string]interface{}
	if err := json.Unmarshal(jsonc.ToJSON(content), &pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}
