package tsresolve

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"github.com/tidwall/jsonc"
)

// PackageInfo describes one installed package found under a node_modules
// directory.
type PackageInfo struct {
	Name    string
	Version string
	Path    string
}

// ListInstalledPackages scans node_modules directories from startDir up
// through its ancestors and returns the packages installed there, sorted by
// name. When the same package is installed at several levels the entry
// nearest to startDir wins, mirroring Node's shadowing. Versions that parse
// as semver are normalized; anything else is kept verbatim.
func ListInstalledPackages(startDir string) []PackageInfo {
	var nodeModulesDirs []string
	dir := filepath.Clean(startDir)
	for {
		nmPath := filepath.Join(dir, "node_modules")
		if isDir(nmPath) {
			nodeModulesDirs = append(nodeModulesDirs, nmPath)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	byName := map[string]PackageInfo{}

	// Levels are processed nearest-first so shadowed installs never win;
	// package.json parsing within a level fans out.
	for _, nmDir := range nodeModulesDirs {
		infoChan := make(chan PackageInfo)
		var wg sync.WaitGroup

		entries, err := os.ReadDir(nmDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			name := entry.Name()
			if strings.HasPrefix(name, "@") {
				scopedEntries, err := os.ReadDir(filepath.Join(nmDir, name))
				if err != nil {
					continue
				}
				for _, scoped := range scopedEntries {
					if !scoped.IsDir() {
						continue
					}
					wg.Add(1)
					go parseInstalledPackage(filepath.Join(nmDir, name, scoped.Name()), infoChan, &wg)
				}
				continue
			}
			wg.Add(1)
			go parseInstalledPackage(filepath.Join(nmDir, name), infoChan, &wg)
		}

		go func() {
			wg.Wait()
			close(infoChan)
		}()

		for info := range infoChan {
			if _, exists := byName[info.Name]; !exists {
				byName[info.Name] = info
			}
		}
	}

	result := make([]PackageInfo, 0, len(byName))
	for _, info := range byName {
		result = append(result, info)
	}
	slices.SortFunc(result, func(a, b PackageInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return result
}

func parseInstalledPackage(pkgDir string, ch chan PackageInfo, wg *sync.WaitGroup) {
	defer wg.Done()

	content, err := os.ReadFile(filepath.Join(pkgDir, "package.json"))
	if err != nil {
		return
	}

	var pkg struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(content), &pkg); err != nil {
		return
	}
	if pkg.Name == "" {
		return
	}

	if parsed, err := semver.NewVersion(pkg.Version); err == nil {
		pkg.Version = parsed.String()
	}

	ch <- PackageInfo{Name: pkg.Name, Version: pkg.Version, Path: pkgDir}
}

// FilterPackages applies include and exclude glob patterns to a package
// list. Exclusions win; an empty include list includes everything.
func FilterPackages(packages []PackageInfo, include []string, exclude []string) []PackageInfo {
	includeGlobs := make([]glob.Glob, len(include))
	for i, pattern := range include {
		includeGlobs[i] = glob.MustCompile(pattern)
	}
	excludeGlobs := make([]glob.Glob, len(exclude))
	for i, pattern := range exclude {
		excludeGlobs[i] = glob.MustCompile(pattern)
	}

	filtered := make([]PackageInfo, 0, len(packages))
	for _, pkg := range packages {
		excluded := false
		for _, g := range excludeGlobs {
			if g.Match(pkg.Name) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}

		if len(includeGlobs) == 0 {
			filtered = append(filtered, pkg)
			continue
		}
		for _, g := range includeGlobs {
			if g.Match(pkg.Name) {
				filtered = append(filtered, pkg)
				break
			}
		}
	}
	return filtered
}
