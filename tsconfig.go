package tsresolve

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// PathAlias is a single compilerOptions.paths entry: a wildcard pattern and
// its ordered list of destination patterns.
type PathAlias struct {
	Pattern      string
	Destinations []string
}

// CompilerOptions holds the tsconfig fields the resolver consumes. Paths
// preserves the declaration order of the config file.
type CompilerOptions struct {
	BaseURL string
	Paths   []PathAlias
}

// TsConfig is a parsed tsconfig.json with any "extends" chain already
// resolved and merged. A TsConfig is immutable once parsed.
type TsConfig struct {
	CompilerOptions *CompilerOptions
}

type rawTsConfig struct {
	Extends         string             `json:"extends"`
	CompilerOptions rawCompilerOptions `json:"compilerOptions"`
}

type rawCompilerOptions struct {
	BaseURL string          `json:"baseUrl"`
	Paths   json.RawMessage `json:"paths"`
}

// ParseTsConfig reads a tsconfig (JSON or JSONC) from disk and resolves any
// extended configs via the "extends" field. Merging rules:
// - child overrides base for baseUrl
// - paths are merged with child declarations first; inherited entries keep
//   the base file's order and have relative destinations rebased so they
//   stay correct from the child's directory
func ParseTsConfig(tsconfigPath string) (*TsConfig, error) {
	return parseTsConfigChain(tsconfigPath, map[string]bool{})
}

func parseTsConfigChain(tsconfigPath string, seen map[string]bool) (*TsConfig, error) {
	content, err := os.ReadFile(tsconfigPath)
	if err != nil {
		return nil, err
	}

	var raw rawTsConfig
	if err := json.Unmarshal(jsonc.ToJSON(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tsconfig: %w", err)
	}

	opts := &CompilerOptions{BaseURL: raw.CompilerOptions.BaseURL}
	if len(raw.CompilerOptions.Paths) > 0 {
		entries, err := decodeOrderedObject(raw.CompilerOptions.Paths)
		if err != nil {
			return nil, fmt.Errorf("invalid compilerOptions.paths: %w", err)
		}
		for _, entry := range entries {
			var destinations []string
			if err := json.Unmarshal(entry.raw, &destinations); err != nil {
				continue
			}
			opts.Paths = append(opts.Paths, PathAlias{Pattern: entry.key, Destinations: destinations})
		}
	}

	config := &TsConfig{CompilerOptions: opts}

	ext := strings.TrimSpace(raw.Extends)
	if ext == "" {
		return config, nil
	}

	configDir := filepath.Dir(tsconfigPath)
	basePath := findExtendedConfig(ext, configDir)
	if basePath == "" {
		// Not found — nothing to merge.
		return config, nil
	}

	// Cycle protection across the extends chain.
	absBase, _ := filepath.Abs(basePath)
	if seen[absBase] {
		return config, nil
	}
	seen[absBase] = true

	base, err := parseTsConfigChain(basePath, seen)
	if err != nil {
		return config, nil
	}
	mergeTsConfig(config, base, filepath.Dir(basePath), configDir)

	return config, nil
}

// findExtendedConfig locates the config file an "extends" value refers to.
// File-ish references resolve relative to the extending config's directory;
// bare names use package-style resolution inside node_modules for tsconfigs
// published as packages.
func findExtendedConfig(ext string, configDir string) string {
	var candidates []string
	if filepath.IsAbs(ext) || strings.HasPrefix(ext, ".") {
		p := ext
		if !filepath.IsAbs(p) {
			p = filepath.Join(configDir, p)
		}
		candidates = append(candidates, p, p+".json")
	} else {
		candidates = append(candidates,
			filepath.Join(configDir, "node_modules", ext),
			filepath.Join(configDir, "node_modules", ext, "tsconfig.json"),
			filepath.Join(configDir, "node_modules", ext+".json"),
		)
	}

	for _, cand := range candidates {
		if isFile(cand) {
			return cand
		}
	}
	return ""
}

// mergeTsConfig overlays base (an extended config located in fromDir) under
// child (located in toDir). The child wins every conflict.
func mergeTsConfig(child, base *TsConfig, fromDir, toDir string) {
	if base.CompilerOptions == nil {
		return
	}

	if child.CompilerOptions.BaseURL == "" && base.CompilerOptions.BaseURL != "" {
		child.CompilerOptions.BaseURL = rebaseConfigPath(base.CompilerOptions.BaseURL, fromDir, toDir)
	}

	declared := map[string]bool{}
	for _, alias := range child.CompilerOptions.Paths {
		declared[alias.Pattern] = true
	}

	for _, alias := range base.CompilerOptions.Paths {
		if declared[alias.Pattern] {
			continue
		}
		rebased := make([]string, 0, len(alias.Destinations))
		for _, dest := range alias.Destinations {
			rebased = append(rebased, rebaseConfigPath(dest, fromDir, toDir))
		}
		child.CompilerOptions.Paths = append(child.CompilerOptions.Paths, PathAlias{
			Pattern:      alias.Pattern,
			Destinations: rebased,
		})
	}
}

// rebaseConfigPath rewrites a relative config path so it points correctly
// from toDir instead of fromDir. Absolute paths pass through unchanged.
func rebaseConfigPath(p string, fromDir, toDir string) string {
	if filepath.IsAbs(p) {
		return filepath.ToSlash(p)
	}
	abs := filepath.Clean(filepath.Join(fromDir, p))
	rel, err := filepath.Rel(toDir, abs)
	if err != nil {
		// fallback to absolute path if relative conversion fails
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
