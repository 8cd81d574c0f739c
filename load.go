package xsdcorpus

import (
	"os"
	"path/filepath"
)

// CompileFile compiles the schema at path. Relative includes and imports
// resolve against its directory.
func CompileFile(path string, opts Options) (*Result, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	return CompileWithOptions(os.DirFS(dir), opts, base)
}
