package dupedirs

import (
	"context"
	"io/fs"
	"iter"
	"path/filepath"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"

	"github.com/idelchi/dupedirs/internal/diag"
)

// Tree is the result of a walk: every readable directory under the root.
type Tree struct {
	entries []DirectoryEntry
	skipped int
}

// All yields every walked directory exactly once, ordered by path.
func (t *Tree) All() iter.Seq[DirectoryEntry] {
	return func(yield func(DirectoryEntry) bool) {
		for _, e := range t.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the number of walked directories.
func (t *Tree) Len() int {
	return len(t.entries)
}

// Skipped returns the number of directories that could not be read.
func (t *Tree) Skipped() int {
	return t.skipped
}

// treeCollector gathers directory listings from concurrent fastwalk callbacks.
type treeCollector struct {
	mu      sync.Mutex // Protect concurrent access
	dirs    map[string]*DirectoryEntry
	skipped map[string]struct{}
}

func newTreeCollector() *treeCollector {
	return &treeCollector{
		dirs:    make(map[string]*DirectoryEntry),
		skipped: make(map[string]struct{}),
	}
}

// entry returns the entry for dir, creating it when needed. Callers hold c.mu.
func (c *treeCollector) entry(dir string) *DirectoryEntry {
	e, ok := c.dirs[dir]
	if !ok {
		e = &DirectoryEntry{Path: dir}
		c.dirs[dir] = e
	}

	return e
}

func (c *treeCollector) addDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry(dir)
}

func (c *treeCollector) addSubdir(parent, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(parent)
	e.Subdirs = append(e.Subdirs, name)
}

func (c *treeCollector) addFile(parent, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(parent)
	e.Files = append(e.Files, name)
}

func (c *treeCollector) skip(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.skipped[dir] = struct{}{}
}

func (c *treeCollector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.dirs)
}

// finalize drops unreadable directories and orders the rest by path.
func (c *treeCollector) finalize() *Tree {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]DirectoryEntry, 0, len(c.dirs))

	for dir, e := range c.dirs {
		if _, ok := c.skipped[dir]; ok {
			continue
		}

		entries = append(entries, *e)
	}

	slices.SortFunc(entries, func(a, b DirectoryEntry) int {
		return compareFold(a.Path, b.Path)
	})

	return &Tree{entries: entries, skipped: len(c.skipped)}
}

// Walker enumerates the directories of a tree.
type Walker struct {
	log      *logrus.Entry
	excludes []*regexp.Regexp
	workers  int
	interval time.Duration
}

// NewWalker creates a Walker. Paths matching any of excludes are not visited.
func NewWalker(log *logrus.Entry, excludes []*regexp.Regexp, workers int) *Walker {
	return &Walker{log: log, excludes: excludes, workers: workers}
}

// shouldExcludeByPattern checks if path matches any exclusion regex.
func shouldExcludeByPattern(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}

	fPath := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}

// Walk lists every directory under root without following symlinks.
// Directories that cannot be read are logged and left out; the walk continues.
// progress, if non-nil, receives the running directory count at regular intervals.
func (w *Walker) Walk(ctx context.Context, root string, progress func(dirs int64)) (*Tree, error) {
	root = filepath.Clean(root)

	collector := newTreeCollector()
	collector.addDir(root)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, func() int64 { return int64(collector.count()) }, progress, w.interval)

	conf := &fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: w.workers,
	}

	//nolint:varnamelen // d is standard for DirEntry
	err := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		clean := filepath.Clean(path)

		if err != nil {
			w.log.WithError(err).Warnf("skipping %s", diag.Safe(clean))

			if d == nil || d.IsDir() {
				collector.skip(clean)
			}

			return nil
		}

		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		if clean == root {
			return nil
		}

		if re := shouldExcludeByPattern(clean, w.excludes); re != nil {
			w.log.Debugf("excluding %s (matched %s)", diag.Safe(clean), re)

			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		parent := filepath.Dir(clean)

		switch {
		case d.IsDir():
			collector.addDir(clean)
			collector.addSubdir(parent, d.Name())
		case d.Type()&fs.ModeSymlink != 0 && isDirLink(path, d):
			collector.addSubdir(parent, d.Name())
		default:
			collector.addFile(parent, d.Name())
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	tree := collector.finalize()
	for _, e := range tree.entries {
		w.log.Debugf("visited %s: %d subdirectories, %d files", diag.Safe(e.Path), len(e.Subdirs), len(e.Files))
	}

	return tree, nil
}

// isDirLink reports whether the symlink d resolves to a directory.
func isDirLink(path string, d fs.DirEntry) bool {
	fi, err := fastwalk.StatDirEntry(path, d)

	return err == nil && fi.IsDir()
}
