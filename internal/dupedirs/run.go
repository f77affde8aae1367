package dupedirs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/dupedirs/internal/diag"
)

// displayer turns walk paths into the form shown to the user: relative to the
// working directory for trees inside it, absolute otherwise.
type displayer struct {
	root       string
	absRoot    string
	cwd        string
	outsideCwd bool
}

func newDisplayer(root string) (displayer, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return displayer{}, fmt.Errorf("getting current directory: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return displayer{}, fmt.Errorf("resolving absolute path: %w", err)
	}

	relToRoot, err := filepath.Rel(cwd, absRoot)
	outsideCwd := err != nil || strings.HasPrefix(relToRoot, "..")

	return displayer{root: filepath.Clean(root), absRoot: absRoot, cwd: cwd, outsideCwd: outsideCwd}, nil
}

// path maps p, which must lie under the displayer's root, without touching the filesystem.
func (d displayer) path(p string) string {
	rel, err := filepath.Rel(d.root, p)
	if err != nil {
		return p
	}

	abs := filepath.Join(d.absRoot, rel)
	if d.outsideCwd {
		return abs
	}

	rel, err = filepath.Rel(d.cwd, abs)
	if err != nil {
		return abs
	}

	return rel
}

// Run scans opt.Path and returns the duplicate leaf directories found in it.
// Directories are listed by a parallel walk, then fingerprinted by a bounded
// pool of workers; the report order is independent of both.
//
// Only setup problems are returned as errors. Unreadable directories and files
// that vanish mid-scan are logged to log and the scan carries on.
// progressHook, if non-nil, receives the number of directories walked so far.
func Run(ctx context.Context, opt Options, log *logrus.Entry, progressHook func(dirs int64)) (*Result, error) {
	if opt.Path == "" {
		opt.Path = "."
	}

	opt.Path = filepath.Clean(opt.Path)

	display, err := newDisplayer(opt.Path)
	if err != nil {
		return nil, err
	}

	// validate path exists and is accessible
	if statInfo, err := os.Stat(opt.Path); err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", opt.Path, err)
	} else if !statInfo.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", opt.Path)
	}

	excludeRegexes := make([]*regexp.Regexp, 0, len(opt.Excludes))

	for _, p := range opt.Excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		excludeRegexes = append(excludeRegexes, re)
	}

	if opt.Workers <= 0 {
		opt.Workers = runtime.NumCPU()
	}

	start := time.Now()

	log.Infof("scanning %s", diag.Safe(display.path(opt.Path)))

	walker := NewWalker(log, excludeRegexes, opt.Workers)
	walker.interval = opt.ProgressInterval

	tree, err := walker.Walk(ctx, opt.Path, progressHook)
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", opt.Path, err)
	}

	log.Infof("walked %d directories, fingerprinting leaves", tree.Len())

	fingerprinter := NewFingerprinter(log, opt.MinSize)
	index := NewStampIndex()
	leaves := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opt.Workers)

	for entry := range tree.All() {
		if !entry.IsLeaf() {
			log.WithField("dir", diag.Safe(entry.Path)).Debug("no fingerprint: has subdirectories")

			continue
		}

		leaves++

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if stamp, ok := fingerprinter.Fingerprint(entry.Path, entry.Subdirs, entry.Files); ok {
				index.Add(stamp, display.path(entry.Path))
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{
		Groups:       index.Groups(),
		DirCount:     tree.Len(),
		LeafCount:    leaves,
		StampCount:   index.Len(),
		SkippedCount: tree.Skipped(),
		Elapsed:      time.Since(start),
	}, nil
}
