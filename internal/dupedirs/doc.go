// Package dupedirs finds leaf directories that are probably identical.
//
// It walks directory trees using fastwalk for parallel traversal,
// fingerprints every subdirectory-free directory from the names and sizes
// of the large files it directly contains, and groups directories that
// share a fingerprint into a deterministic, case-insensitively sorted report.
package dupedirs
