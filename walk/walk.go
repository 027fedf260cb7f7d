package walk

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
)

// Record describes one visited directory: its path as reached by the walk and
// the names of its direct children.
type Record struct {
	Path    string
	Subdirs []string
	Files   []string
}

// Order controls how child names are ordered inside a record.
type Order int

const (
	// OrderNative keeps the order returned by the directory read.
	OrderNative Order = iota
	// OrderSorted sorts subdirectory and file names independently.
	OrderSorted
)

// Func is called once per visited directory, parent before children.
// Returning fs.SkipAll ends the walk without error.
type Func func(record Record) error

// Walk visits root and every directory below it top-down, calling fn with one
// Record per directory. Symlinks to directories are listed as subdirectories
// but never descended into.
func Walk(root string, order Order, fn Func) error {
	info, err := os.Stat(root)
	if err != nil {
		return newError("stat", root, err)
	}
	if !info.IsDir() {
		return &Error{Op: "stat", Path: root, Kind: ErrNotADirectory}
	}

	record, linked, err := readRecord(root, order)
	if err != nil {
		return err
	}
	err = walkRecord(record, linked, order, fn)
	if err == fs.SkipAll {
		return nil
	}
	return err
}

// walkRecord emits record and then recurses into its real subdirectories in
// record order. A subdirectory removed after its parent was listed is
// skipped; any other listing failure ends the walk.
func walkRecord(record Record, linked map[string]bool, order Order, fn Func) error {
	if err := fn(record); err != nil {
		return err
	}

	for _, name := range record.Subdirs {
		if linked[name] {
			continue
		}
		child, childLinked, err := readRecord(JoinPath(record.Path, name), order)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		if err := walkRecord(child, childLinked, order, fn); err != nil {
			return err
		}
	}
	return nil
}

// readRecord lists dirPath once. The returned set names the subdirectories
// that are symlinks.
func readRecord(dirPath string, order Order) (Record, map[string]bool, error) {
	dir, err := os.Open(dirPath)
	if err != nil {
		return Record{}, nil, newError("open", dirPath, err)
	}
	entries, err := dir.ReadDir(-1)
	dir.Close()
	if err != nil {
		return Record{}, nil, newError("readdir", dirPath, err)
	}

	record := Record{Path: dirPath}
	var linked map[string]bool
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case entry.IsDir():
			record.Subdirs = append(record.Subdirs, name)
		case entry.Type()&fs.ModeSymlink != 0 && isDirTarget(JoinPath(dirPath, name)):
			record.Subdirs = append(record.Subdirs, name)
			if linked == nil {
				linked = make(map[string]bool)
			}
			linked[name] = true
		default:
			record.Files = append(record.Files, name)
		}
	}

	if order == OrderSorted {
		slices.Sort(record.Subdirs)
		slices.Sort(record.Files)
	}
	return record, linked, nil
}

// isDirTarget reports whether a symlink resolves to a directory.
// Broken links count as files.
func isDirTarget(linkPath string) bool {
	info, err := os.Stat(linkPath)
	return err == nil && info.IsDir()
}

// JoinPath appends name to parent without cleaning the result, so a root of
// "." produces "./name" and a root of "dir/" produces "dir/name".
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	if strings.HasSuffix(parent, string(os.PathSeparator)) || strings.HasSuffix(parent, "/") {
		return parent + name
	}
	return parent + string(os.PathSeparator) + name
}
