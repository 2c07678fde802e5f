package tsresolve

import (
	"os"
	"strings"
	"sync"
)

// DefaultCoreModulesDir is the directory of builtin type-declaration stubs
// used to recognize Node core modules such as "events" or "stream".
const DefaultCoreModulesDir = "node_modules/@types/node"

// CoreModules answers whether a specifier names a Node builtin. The stub
// directory is scanned once per process: directories contribute their name,
// ".d.ts" files their name with the suffix stripped.
type CoreModules struct {
	dir  string
	once sync.Once
	set  map[string]bool
}

func NewCoreModules(dir string) *CoreModules {
	if dir == "" {
		dir = DefaultCoreModulesDir
	}
	return &CoreModules{dir: dir}
}

// Contains reports whether specifier is a core module. Matching is exact and
// case-sensitive: "events" matches, "events/" and "./events" never do since
// they contain path syntax a bare module name cannot.
func (c *CoreModules) Contains(specifier string) bool {
	c.once.Do(c.scan)
	return c.set[specifier]
}

func (c *CoreModules) scan() {
	c.set = map[string]bool{}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		// No stub directory means no core modules, not a failure.
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			c.set[name] = true
			continue
		}
		if strings.HasSuffix(name, ".d.ts") {
			c.set[strings.TrimSuffix(name, ".d.ts")] = true
		}
	}
}
