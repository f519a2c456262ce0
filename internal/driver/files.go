package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"lexis/internal/config"
)

// ErrNotSource is returned for an explicit file argument whose extension
// is not one of the configured source extensions.
var ErrNotSource = errors.New("not a source file")

// ListSources возвращает отсортированный список исходников под root,
// пропуская исключённые пути и скрытые каталоги.
func ListSources(fsys afero.Fs, root string, cfg config.Config) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if info.IsDir() {
			if path != root && (hidden(info.Name()) || cfg.Excluded(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if cfg.IsSource(path) && !cfg.Excluded(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ExpandTargets turns command-line arguments into source paths: directories
// are walked, files are checked against the configured extensions.
// Duplicates are dropped, first occurrence wins.
func ExpandTargets(fsys afero.Fs, args []string, cfg config.Config) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		info, err := fsys.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			if !cfg.IsSource(arg) {
				return nil, fmt.Errorf("%s: %w (want %v)", arg, ErrNotSource, cfg.Driver.Extensions)
			}
			add(filepath.Clean(arg))
			continue
		}
		files, err := ListSources(fsys, arg, cfg)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}

func hidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}
