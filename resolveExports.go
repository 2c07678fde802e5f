package tsresolve

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// resolveExports resolves target through the "exports" field of a
// package.json rooted at pkgDir. It is invoked only after plain
// file/directory/index resolution inside a node_modules candidate failed.
//
// For a deep import ("pkg/sub/path") pkgDir initially points below the real
// package root, so while no package.json is present and the matched subpath
// still has a separator, the search moves one path segment up.
//
// https://nodejs.org/api/packages.html#exports
func (r Resolver) resolveExports(target string, pkgDir string, subpath string) (string, error) {
	pkgPath := filepath.Join(pkgDir, "package.json")
	for !isFile(pkgPath) && strings.Contains(subpath, "/") {
		pkgDir = filepath.Dir(pkgDir)
		subpath = subpath[:strings.LastIndex(subpath, "/")]
		pkgPath = filepath.Join(pkgDir, "package.json")
	}

	content, err := os.ReadFile(pkgPath)
	if err != nil {
		return "", ErrNotFound
	}

	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(content), &pkg); err != nil {
		return "", ErrNotFound
	}

	exportsRaw, ok := pkg["exports"]
	if !ok {
		return "", ErrNotFound
	}

	// String form: a single entry file.
	var single string
	if err := json.Unmarshal(exportsRaw, &single); err == nil {
		return r.resolveAsFile(filepath.Join(pkgDir, single))
	}

	// Array form: the first string entry is resolved with no fallback to
	// later entries; the array is trusted to be ordered fallback-first.
	var list []json.RawMessage
	if err := json.Unmarshal(exportsRaw, &list); err == nil {
		for _, entry := range list {
			var s string
			if err := json.Unmarshal(entry, &s); err != nil {
				continue
			}
			return r.resolveAsFile(filepath.Join(pkgDir, s))
		}
		return "", ErrNotFound
	}

	// Object form: pattern keys are matched against the part of the
	// specifier not yet consumed by the package-root prefix, in declaration
	// order. The first matching entry wins.
	entries, err := decodeOrderedObject(exportsRaw)
	if err != nil {
		return "", ErrNotFound
	}

	remainder, ok := stripPathPrefix(target, subpath)
	if !ok {
		return "", ErrNotFound
	}

	for _, entry := range entries {
		pattern := strings.TrimPrefix(entry.key, "./")
		capture, matched := MatchStar(pattern, remainder)
		if !matched {
			continue
		}

		var dest string
		if err := json.Unmarshal(entry.raw, &dest); err != nil {
			continue
		}
		physical := strings.Replace(dest, "*", capture, 1)
		return r.resolveAsFile(filepath.Join(pkgDir, physical))
	}

	return "", ErrNotFound
}

// stripPathPrefix removes prefix from target at a path-segment boundary.
func stripPathPrefix(target, prefix string) (string, bool) {
	if target == prefix {
		return "", true
	}
	if strings.HasPrefix(target, prefix+"/") {
		return target[len(prefix)+1:], true
	}
	return "", false
}
