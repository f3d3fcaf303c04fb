package knowledge

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/mindchat/internal/progress"
)

// LoadDir indexes every file under dir matching one of the include globs.
// Patterns use doublestar syntax relative to dir, e.g. "**/*.md". It
// returns the number of files indexed.
func (s *Store) LoadDir(ctx context.Context, dir string, include []string, rep progress.Reporter) (int, error) {
	if rep == nil {
		rep = progress.Nop{}
	}
	info, err := os.Stat(dir)
	if err != nil {
		return 0, fmt.Errorf("knowledge dir: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("knowledge dir %s is not a directory", dir)
	}

	fsys := os.DirFS(dir)
	files, err := matchFiles(fsys, include)
	if err != nil {
		return 0, err
	}

	rep.Start(len(files))
	defer rep.Finish()

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return i, fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := s.AddText(ctx, path, string(data)); err != nil {
			return i, err
		}
		rep.Update(i+1, path)
	}
	return len(files), nil
}

// matchFiles expands the globs into a sorted, de-duplicated file list.
func matchFiles(fsys fs.FS, include []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid knowledge pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
