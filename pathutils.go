package tsresolve

import (
	"os"
	"path/filepath"
)

// JoinWithCwd resolves p against dir unless p is already absolute.
func JoinWithCwd(dir string, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// ResolveAbsoluteCwd turns a possibly relative working directory argument
// into an absolute path.
func ResolveAbsoluteCwd(cwd string) string {
	if filepath.IsAbs(cwd) {
		return filepath.Clean(cwd)
	}
	binaryExecDir, _ := os.Getwd()
	return filepath.Join(binaryExecDir, cwd)
}

// normalizePath resolves "." and ".." segments lexically, without touching
// the filesystem, so symlinked components survive.
func normalizePath(p string) string {
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
	}
	return filepath.Clean(p)
}

// canonicalizePath resolves symlinks down to the real file path.
func canonicalizePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
