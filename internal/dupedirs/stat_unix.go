//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package dupedirs

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// dirHandle resolves file sizes relative to an open directory descriptor,
// which keeps per-file lookups clear of path length limits.
type dirHandle struct {
	fd int
}

func openDir(dir string) (*dirHandle, error) {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: err}
	}

	return &dirHandle{fd: fd}, nil
}

// size stats name relative to the directory, following symlinks.
func (h *dirHandle) size(name string) (int64, error) {
	var st unix.Stat_t
	if err := unix.Fstatat(h.fd, name, &st, 0); err != nil {
		return 0, &fs.PathError{Op: "stat", Path: name, Err: err}
	}

	return st.Size, nil
}

func (h *dirHandle) Close() error {
	return unix.Close(h.fd)
}
