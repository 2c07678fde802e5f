package tsresolve

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultConfigTTL bounds how long a parsed tsconfig is served before it is
// re-read, so edits during a long build session get picked up without
// re-parsing on every resolution.
const DefaultConfigTTL = 5 * time.Second

type cachedConfig struct {
	config   *TsConfig
	baseDir  string
	loadedAt time.Time
}

// ConfigOverlay loads tsconfig files and derives the effective resolution
// base directory. Locator-to-path mappings are cached for the life of the
// process; parsed configs are cached per config path with a validity window,
// and concurrent misses for the same path collapse into a single parse.
type ConfigOverlay struct {
	ttl time.Duration

	mu      sync.RWMutex
	paths   map[string]string
	configs map[string]cachedConfig
	flight  singleflight.Group
}

func NewConfigOverlay(ttl time.Duration) *ConfigOverlay {
	if ttl <= 0 {
		ttl = DefaultConfigTTL
	}
	return &ConfigOverlay{
		ttl:     ttl,
		paths:   map[string]string{},
		configs: map[string]cachedConfig{},
	}
}

// ConfigPathFor resolves a tsconfig locator to a concrete file path: an
// absolute ".json" path is used as-is, any other absolute path is treated as
// a directory containing tsconfig.json, and a relative locator resolves
// against the process working directory. Locators never change meaning at
// runtime, so this mapping is never invalidated.
func (o *ConfigOverlay) ConfigPathFor(locator string) string {
	o.mu.RLock()
	cached, ok := o.paths[locator]
	o.mu.RUnlock()
	if ok {
		return cached
	}

	var configPath string
	if strings.HasPrefix(locator, "/") {
		if strings.HasSuffix(locator, ".json") {
			configPath = locator
		} else {
			configPath = filepath.Join(locator, "tsconfig.json")
		}
	} else {
		cwd, _ := os.Getwd()
		configPath = filepath.Join(cwd, locator)
	}

	o.mu.Lock()
	o.paths[locator] = configPath
	o.mu.Unlock()
	return configPath
}

// TsConfigFor returns the parsed config for a locator, or nil when the
// config file is missing or unparsable.
func (o *ConfigOverlay) TsConfigFor(locator string) *TsConfig {
	return o.load(o.ConfigPathFor(locator)).config
}

// BaseDirFor derives the resolution base directory for a locator: the
// working directory when no config is found (lenient degrade, not an error),
// the config file's directory when it has no baseUrl, or baseUrl joined onto
// the config file's directory — a tsconfig's baseUrl is always relative to
// that file, never to the working directory.
func (o *ConfigOverlay) BaseDirFor(locator string) string {
	return o.load(o.ConfigPathFor(locator)).baseDir
}

func (o *ConfigOverlay) load(configPath string) cachedConfig {
	o.mu.RLock()
	entry, ok := o.configs[configPath]
	o.mu.RUnlock()
	if ok && time.Since(entry.loadedAt) < o.ttl {
		return entry
	}

	result, _, _ := o.flight.Do(configPath, func() (interface{}, error) {
		// Another caller may have refreshed the entry while this one was
		// waiting on the flight.
		o.mu.RLock()
		entry, ok := o.configs[configPath]
		o.mu.RUnlock()
		if ok && time.Since(entry.loadedAt) < o.ttl {
			return entry, nil
		}

		fresh := cachedConfig{loadedAt: time.Now()}
		if config, err := ParseTsConfig(configPath); err != nil {
			if !errors.Is(err, fs.ErrNotExist) && !isDir(configPath) {
				logWarning("error when parsing tsconfig %s: %v", configPath, err)
			}
			cwd, _ := os.Getwd()
			fresh.baseDir = cwd
		} else {
			fresh.config = config
			configDir := filepath.Dir(configPath)
			if config.CompilerOptions != nil && config.CompilerOptions.BaseURL != "" {
				fresh.baseDir = JoinWithCwd(configDir, config.CompilerOptions.BaseURL)
			} else {
				fresh.baseDir = configDir
			}
		}

		o.mu.Lock()
		o.configs[configPath] = fresh
		o.mu.Unlock()
		return fresh, nil
	})

	return result.(cachedConfig)
}
