// Package scan discovers the source files a conversion run will process.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sentinel errors for the scan package.
var (
	// ErrNotFound is returned when the input path does not exist.
	ErrNotFound = errors.New("input path not found")

	// ErrNoMatches is returned when a directory walk finds no files with
	// the wanted extension. Callers report it as zero work done, not a crash.
	ErrNoMatches = errors.New("no matching files found")

	// ErrWrongExtension is returned when a single input file does not carry
	// the source format's extension.
	ErrWrongExtension = errors.New("input file has wrong extension")
)

// Entry is one discovered source file. Rel is its path relative to the
// scanned root and is reused to mirror the directory structure under the
// output folder.
type Entry struct {
	Path string
	Rel  string
}

// Resolve finds the files under inpath carrying ext (case-insensitive,
// with leading dot). A single matching file yields exactly one entry; a
// directory yields its matching files, descending into subdirectories only
// when recursive is set. Entries are sorted lexicographically by Rel so
// repeated runs process files in the same order.
func Resolve(inpath string, recursive bool, ext string) ([]Entry, error) {
	inpath, err := ExpandHome(inpath)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(inpath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, inpath)
		}
		return nil, fmt.Errorf("stat %s: %w", inpath, err)
	}

	if !fi.IsDir() {
		if !matchExt(inpath, ext) {
			return nil, fmt.Errorf("%w: %s (want %s)", ErrWrongExtension, inpath, ext)
		}
		return []Entry{{Path: inpath, Rel: filepath.Base(inpath)}}, nil
	}

	var entries []Entry
	walkErr := filepath.WalkDir(inpath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != inpath {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchExt(path, ext) {
			return nil
		}
		rel, err := filepath.Rel(inpath, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Path: path, Rel: rel})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", inpath, walkErr)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoMatches, inpath)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Rel < entries[j].Rel })
	return entries, nil
}

// ExpandHome replaces a leading ~ or ~/ with the current user's home
// directory, matching common shell behavior for paths passed unquoted.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

func matchExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}
