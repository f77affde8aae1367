package dupedirs

import (
	"time"
)

// DefaultMinSize is the size at which a file starts to count towards a fingerprint.
const DefaultMinSize = 100 * 1024

// DirectoryEntry is a directory as observed by the walk.
type DirectoryEntry struct {
	// Path is the cleaned directory path.
	Path string
	// Subdirs holds the names of the immediate subdirectories.
	Subdirs []string
	// Files holds the names of the immediate non-directory entries.
	Files []string
}

// IsLeaf reports whether the directory has no subdirectories.
func (e DirectoryEntry) IsLeaf() bool {
	return len(e.Subdirs) == 0
}

// SizedFile pairs a file name with its size at fingerprint time.
type SizedFile struct {
	// Name is the file name relative to its directory.
	Name string
	// Size is the size in bytes, 0 when the file could not be sized.
	Size int64
}

// Fingerprint identifies the large-file contents of a leaf directory.
type Fingerprint string

// Stamp is the outcome of fingerprinting one directory.
type Stamp struct {
	// Fingerprint is the digest over the sorted large files.
	Fingerprint Fingerprint
	// Files is the number of large files.
	Files int
	// Bytes is the cumulative size of the large files.
	Bytes int64
}

// DuplicateGroup is a set of directories sharing one fingerprint.
type DuplicateGroup struct {
	// Fingerprint is the shared fingerprint.
	Fingerprint Fingerprint `json:"fingerprint"`
	// Paths are the member directories, sorted case-insensitively.
	Paths []string `json:"paths"`
	// Files is the number of large files in each member.
	Files int `json:"files"`
	// Bytes is the large-file size of each member.
	Bytes int64 `json:"bytes"`
}

// Reclaimable is the space held by all but one member of the group.
func (g DuplicateGroup) Reclaimable() int64 {
	return g.Bytes * int64(len(g.Paths)-1)
}

// Result holds the outcome of a scan.
type Result struct {
	// Groups are the duplicate groups in report order.
	Groups []DuplicateGroup `json:"groups"`
	// DirCount is the number of directories visited.
	DirCount int `json:"dir_count"`
	// LeafCount is the number of visited directories without subdirectories.
	LeafCount int `json:"leaf_count"`
	// StampCount is the number of directories that received a fingerprint.
	StampCount int `json:"stamp_count"`
	// SkippedCount is the number of directories that could not be read.
	SkippedCount int `json:"skipped_count"`
	// Elapsed is the total time taken for the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// Reclaimable sums the reclaimable bytes of all groups.
func (r *Result) Reclaimable() int64 {
	var total int64
	for _, g := range r.Groups {
		total += g.Reclaimable()
	}

	return total
}

// Options configures a scan and CLI behavior.
type Options struct {
	// Path is the directory to scan.
	Path string
	// MinSize is the large-file threshold in bytes.
	MinSize int64
	// Excludes contains regex patterns to exclude.
	Excludes []string
	// Workers bounds walk and fingerprint concurrency (0 = NumCPU).
	Workers int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Verbosity is the number of -v flags.
	Verbosity int
	// Output represents output format (text, json or paths).
	Output string
	// Integration indicates whether to output integration script.
	Integration bool
}
