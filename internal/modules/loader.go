package modules

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/funvibe/siko/internal/config"
)

// Source is the text of one source file.
type Source struct {
	Path string
	Text string
}

// Loader reads source files once each.
type Loader struct {
	loaded map[string]bool
}

func NewLoader() *Loader {
	return &Loader{loaded: make(map[string]bool)}
}

// LoadFiles reads files from disk. A path given twice is read once.
func (l *Loader) LoadFiles(paths ...string) ([]Source, error) {
	var out []Source
	for _, p := range paths {
		if l.loaded[p] {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading source %s: %w", p, err)
		}
		l.loaded[p] = true
		out = append(out, Source{Path: p, Text: string(data)})
	}
	return out, nil
}

// LoadFS reads every source file under dir of fsys in lexical order.
// Paths are reported with the given prefix so that diagnostics can tell
// embedded files from user files.
func (l *Loader) LoadFS(fsys fs.FS, dir, prefix string) ([]Source, error) {
	var paths []string
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && config.IsSourceFile(p) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	var out []Source
	for _, p := range paths {
		name := path.Join(prefix, p)
		if l.loaded[name] {
			continue
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		l.loaded[name] = true
		out = append(out, Source{Path: name, Text: string(data)})
	}
	return out, nil
}
