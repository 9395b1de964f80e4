package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted writes the unformatted source of a file that failed
// to format to a sidecar next to the intended output. Failures are ignored
// by callers.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	// Not a .go file: the sidecar sits inside a package directory.
	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.txt"

	return os.WriteFile(filepath.Join(outDir, debugName), content, filePerm)
}
