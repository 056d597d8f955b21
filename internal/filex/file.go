package filex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StagingSuffix marks in-progress upload files.
const StagingSuffix = ".part"

// EnsureDir creates dir (and its parents) if needed and returns its absolute
// path. A relative dir is taken relative to the working directory.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// StagingPath returns a unique hidden sibling of file used while its content
// is still arriving, e.g. "dir/.report.pdf.3f2a...part".
func StagingPath(file string) string {
	dir, name := filepath.Split(file)
	return filepath.Join(dir, "."+name+"."+uuid.NewString()+StagingSuffix)
}

// IsStaging reports whether name is a StagingPath base name.
func IsStaging(name string) bool {
	if !strings.HasPrefix(name, ".") || !strings.HasSuffix(name, StagingSuffix) {
		return false
	}
	rest := strings.TrimSuffix(name[1:], StagingSuffix)
	dot := strings.LastIndexByte(rest, '.')
	if dot <= 0 {
		return false
	}
	_, err := uuid.Parse(rest[dot+1:])
	return err == nil
}

// RemoveStaging deletes staging files left anywhere below root, e.g. by a
// process that died mid-upload. It must only run while no upload is active.
func RemoveStaging(root string) ([]string, error) {
	var removed []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) && p != root {
				return fs.SkipDir
			}
			return err
		}
		if !d.Type().IsRegular() || !IsStaging(d.Name()) {
			return nil
		}
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("remove %s: %w", p, err)
		}
		removed = append(removed, p)
		return nil
	})
	return removed, err
}
