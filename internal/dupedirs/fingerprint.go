package dupedirs

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io/fs"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zeebo/blake3"

	"github.com/idelchi/dupedirs/internal/diag"
)

// Fingerprinter derives fingerprints for leaf directories.
type Fingerprinter struct {
	log     *logrus.Entry
	minSize int64
}

// NewFingerprinter creates a Fingerprinter counting files of at least minSize bytes.
// A non-positive minSize selects DefaultMinSize.
func NewFingerprinter(log *logrus.Entry, minSize int64) *Fingerprinter {
	if minSize <= 0 {
		minSize = DefaultMinSize
	}

	return &Fingerprinter{log: log, minSize: minSize}
}

// Fingerprint returns the stamp of dir, or false when dir is not a candidate:
// it has subdirectories, or none of its files reaches the size threshold.
// Files that vanish before they are sized count as empty and are reported as warnings.
func (f *Fingerprinter) Fingerprint(dir string, subdirs, files []string) (Stamp, bool) {
	log := f.log.WithField("dir", diag.Safe(dir))

	if len(subdirs) > 0 {
		log.Debug("no fingerprint: has subdirectories")

		return Stamp{}, false
	}

	large := slices.DeleteFunc(f.sizeAll(dir, files), func(s SizedFile) bool {
		return s.Size < f.minSize
	})
	if len(large) == 0 {
		log.Debug("no fingerprint: no large files")

		return Stamp{}, false
	}

	slices.SortFunc(large, func(a, b SizedFile) int {
		return strings.Compare(a.Name, b.Name)
	})

	stamp := Stamp{Fingerprint: digest(large), Files: len(large)}
	for _, s := range large {
		stamp.Bytes += s.Size
	}

	if log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		for _, s := range large {
			log.Debugf("fingerprint input %s %d", diag.Safe(s.Name), s.Size)
		}

		log.Debugf("fingerprint %s", stamp.Fingerprint)
	}

	return stamp, true
}

// sizeAll resolves the size of every name relative to dir.
func (f *Fingerprinter) sizeAll(dir string, names []string) []SizedFile {
	sized := make([]SizedFile, len(names))
	for i, name := range names {
		sized[i].Name = name
	}

	if len(names) == 0 {
		return sized
	}

	h, err := openDir(dir)
	if err != nil {
		f.log.WithError(err).Warnf("cannot open %s, its files count as empty", diag.Safe(dir))

		return sized
	}
	defer h.Close()

	for i, name := range names {
		size, err := h.size(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				f.log.WithError(err).Warnf("%s vanished from %s", diag.Safe(name), diag.Safe(dir))
			} else {
				f.log.WithError(err).Warnf("cannot size %s in %s", diag.Safe(name), diag.Safe(dir))
			}

			continue
		}

		sized[i].Size = size
	}

	return sized
}

// digest hashes files, which must be sorted by name. Each entry is encoded as
// uvarint(len(name)) | name | big-endian uint64 size, so distinct inputs never share an encoding.
func digest(files []SizedFile) Fingerprint {
	h := blake3.New()

	var buf [binary.MaxVarintLen64]byte

	for _, f := range files {
		n := binary.PutUvarint(buf[:], uint64(len(f.Name)))
		_, _ = h.Write(buf[:n])
		_, _ = h.Write([]byte(f.Name))

		binary.BigEndian.PutUint64(buf[:8], uint64(f.Size)) //nolint:gosec // Sizes are never negative
		_, _ = h.Write(buf[:8])
	}

	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}
