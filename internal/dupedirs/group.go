package dupedirs

import (
	"slices"
	"strings"
	"sync"
)

// bucket holds the directories sharing one fingerprint.
type bucket struct {
	stamp Stamp
	paths map[string]struct{}
}

// StampIndex maps fingerprints to the directories carrying them.
// It is safe for concurrent use.
type StampIndex struct {
	mu      sync.Mutex
	buckets map[Fingerprint]*bucket
	count   int
}

// NewStampIndex creates an empty index.
func NewStampIndex() *StampIndex {
	return &StampIndex{buckets: make(map[Fingerprint]*bucket)}
}

// Add records that path carries stamp.
func (x *StampIndex) Add(stamp Stamp, path string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	b, ok := x.buckets[stamp.Fingerprint]
	if !ok {
		b = &bucket{stamp: stamp, paths: make(map[string]struct{})}
		x.buckets[stamp.Fingerprint] = b
	}

	if _, ok := b.paths[path]; !ok {
		b.paths[path] = struct{}{}
		x.count++
	}
}

// Len returns the number of distinct paths recorded.
func (x *StampIndex) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()

	return x.count
}

// Groups returns every fingerprint shared by two or more directories.
// Paths within a group and the groups themselves are sorted case-insensitively,
// so the result does not depend on insertion order.
func (x *StampIndex) Groups() []DuplicateGroup {
	x.mu.Lock()
	defer x.mu.Unlock()

	groups := make([]DuplicateGroup, 0)

	for fp, b := range x.buckets {
		if len(b.paths) < 2 {
			continue
		}

		paths := make([]string, 0, len(b.paths))
		for p := range b.paths {
			paths = append(paths, p)
		}

		slices.SortFunc(paths, compareFold)

		groups = append(groups, DuplicateGroup{
			Fingerprint: fp,
			Paths:       paths,
			Files:       b.stamp.Files,
			Bytes:       b.stamp.Bytes,
		})
	}

	slices.SortFunc(groups, func(a, b DuplicateGroup) int {
		return slices.CompareFunc(a.Paths, b.Paths, compareFold)
	})

	return groups
}

// compareFold orders strings by their lowercase form, falling back to a
// byte-wise comparison so that the order is total.
func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}

	return strings.Compare(a, b)
}
