//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package dupedirs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// dirHandle resolves file sizes relative to an opened directory root.
type dirHandle struct {
	dir  string
	root *os.Root
}

func openDir(dir string) (*dirHandle, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}

	return &dirHandle{dir: dir, root: root}, nil
}

// size stats name relative to the directory, following symlinks. The root
// refuses links that leave the directory; those are resolved by path instead.
func (h *dirHandle) size(name string) (int64, error) {
	fi, err := h.root.Stat(name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fi, err = os.Stat(filepath.Join(h.dir, name))
	}

	if err != nil {
		return 0, err
	}

	return fi.Size(), nil
}

func (h *dirHandle) Close() error {
	return h.root.Close()
}
