// Package testing moves test binaries to the module root so relative paths
// (logs/, .env, smd.db) resolve the same way they do for cmd/server.
//
//	import (
//		_ "github.com/mzrn1122/SMD/pkg/testing"
//	)
package testing

import (
	"os"
	"path/filepath"
	"runtime"
)

func moduleRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// no go.mod above us, fall back to the fixed layout pkg/testing
			return filepath.Join(filepath.Dir(filename), "..", "..")
		}
		dir = parent
	}
}

func init() {
	if err := os.Chdir(moduleRoot()); err != nil {
		panic(err)
	}
}
