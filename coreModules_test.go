package tsresolve

import (
	"path/filepath"
	"testing"
)

func TestCoreModules_ScansStubDirectory(t *testing.T) {
	tmp := t.TempDir()
	stubs := filepath.Join(tmp, "node_modules/@types/node")
	writeFile(t, filepath.Join(stubs, "events.d.ts"), "")
	writeFile(t, filepath.Join(stubs, "fs/promises.d.ts"), "")
	writeFile(t, filepath.Join(stubs, "README.md"), "")

	core := NewCoreModules(stubs)

	if !core.Contains("events") {
		t.Fatalf("file stub events.d.ts must register events")
	}
	if !core.Contains("fs") {
		t.Fatalf("directory stub fs/ must register fs")
	}
	if core.Contains("README") {
		t.Fatalf("non-.d.ts files must not register modules")
	}
	if core.Contains("acorn") {
		t.Fatalf("unknown names must not match")
	}
}

func TestCoreModules_ExactMatchOnly(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "events.d.ts"), "")

	core := NewCoreModules(tmp)

	if core.Contains("events/") {
		t.Fatalf("trailing slash must not match")
	}
	if core.Contains("./events") {
		t.Fatalf("relative prefix must not match")
	}
	if core.Contains("Events") {
		t.Fatalf("matching is case sensitive")
	}
}

func TestCoreModules_MissingDirectoryIsEmpty(t *testing.T) {
	core := NewCoreModules(filepath.Join(t.TempDir(), "nope"))
	if core.Contains("events") {
		t.Fatalf("an unreadable stub directory must yield an empty set")
	}
}
