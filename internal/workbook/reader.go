package workbook

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv
var ErrUnsupportedFormat = errors.New("unsupported file format")

// SupportedExtensions lists the input formats the reader understands
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

// IsSupported checks the file extension against SupportedExtensions
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Open reads a workbook file from disk
func Open(path string) (Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path))
}

// Read decodes a workbook stream, choosing the format from the file name
func Read(r io.Reader, name string) (Workbook, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r, name)
	case ".csv":
		return ReadCSV(r, name)
	default:
		return Workbook{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// ScanDirectory walks root and returns supported workbook files. Directories
// for which exclude returns true (given the slash-separated path relative to
// root) are skipped, as are Office lock files (~$name.xlsx).
func ScanDirectory(root string, exclude func(relPath string) bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == ".svn" {
				return filepath.SkipDir
			}

			relPath, _ := filepath.Rel(root, path)
			if relPath != "." && exclude != nil && exclude(filepath.ToSlash(relPath)) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), "~$") {
			return nil
		}
		if IsSupported(path) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return files, nil
}
