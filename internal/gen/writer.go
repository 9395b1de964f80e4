package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files and returns the paths it wrote.
// A non-empty outputDir overrides the directory recorded in each file;
// otherwise files without a directory are written to the current directory.
// Files whose content is already on disk are left untouched and omitted
// from the result.
func WriteFiles(files []GeneratedFile, outputDir string) ([]string, error) {
	written := make([]string, 0, len(files))

	for _, file := range files {
		dir := file.Dir
		if outputDir != "" {
			dir = outputDir
		}

		if dir != "" {
			if err := os.MkdirAll(dir, dirPerm); err != nil {
				return written, fmt.Errorf("creating output directory: %w", err)
			}
		}

		outputPath := filepath.Join(dir, file.Filename)

		if existing, err := os.ReadFile(outputPath); err == nil && bytes.Equal(existing, file.Content) {
			continue
		}

		if err := os.WriteFile(outputPath, file.Content, filePerm); err != nil {
			return written, fmt.Errorf("writing file %s: %w", outputPath, err)
		}

		written = append(written, outputPath)
	}

	return written, nil
}
