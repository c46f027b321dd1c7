package scan

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// GeneratedFilePrefix is the prefix of generated files, which are never scanned.
const GeneratedFilePrefix = "zz_generated."

// FindPackages recursively walks root to find all folders containing valid Go files.
// Like the go tool, it skips testdata and vendor folders as well as folders starting with "." or "_".
func FindPackages(root string) ([]string, error) {
	var packages []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if path != root && IsIgnoredDir(d.Name()) {
			return filepath.SkipDir
		}
		files, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, file := range files {
			if !file.IsDir() && IsValidGoFile(file.Name()) {
				packages = append(packages, path)
				break
			}
		}
		return nil
	})
	return packages, err
}

// IsIgnoredDir reports whether a folder is ignored by the go tool and therefore never scanned.
func IsIgnoredDir(name string) bool {
	return name == "testdata" || name == "vendor" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// IsValidGoFile checks if a file should be considered for parsing.
func IsValidGoFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasPrefix(name, GeneratedFilePrefix)
}

// ImportPath returns the Go import path for a given folder by reading the nearest go.mod file.
func ImportPath(folder string) (string, error) {
	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return "", err
	}

	dir := absFolder
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			modulePath, err := ReadModulePath(goModPath)
			if err != nil {
				return "", err
			}
			relPath, err := filepath.Rel(dir, absFolder)
			if err != nil {
				return "", err
			}
			if relPath == "." {
				return modulePath, nil
			}
			return filepath.ToSlash(filepath.Join(modulePath, relPath)), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New("go.mod not found")
}

// ReadModulePath reads the module path declared in a go.mod file.
func ReadModulePath(goModPath string) (_ string, err error) {
	file, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "module ") {
			return strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "module ")), `"`), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", errors.New("module path not found")
}
