package dupedirs

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"slices"
	"testing"
)

func walkAll(t *testing.T, w *Walker, root string) map[string]DirectoryEntry {
	t.Helper()

	tree, err := w.Walk(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	got := make(map[string]DirectoryEntry)

	for e := range tree.All() {
		if _, dup := got[e.Path]; dup {
			t.Errorf("%s visited twice", e.Path)
		}

		slices.Sort(e.Subdirs)
		slices.Sort(e.Files)
		got[e.Path] = e
	}

	return got
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	writeSized(t, filepath.Join(root, "A", "f"), 1)
	writeSized(t, filepath.Join(root, "B", "h"), 1)
	writeSized(t, filepath.Join(root, "B", "C", "g"), 1)
	mkdir(t, filepath.Join(root, "E"))

	log, _ := testLog()
	got := walkAll(t, NewWalker(log, nil, 2), root)

	want := map[string]DirectoryEntry{
		root:                          {Path: root, Subdirs: []string{"A", "B", "E"}},
		filepath.Join(root, "A"):      {Path: filepath.Join(root, "A"), Files: []string{"f"}},
		filepath.Join(root, "B"):      {Path: filepath.Join(root, "B"), Subdirs: []string{"C"}, Files: []string{"h"}},
		filepath.Join(root, "B", "C"): {Path: filepath.Join(root, "B", "C"), Files: []string{"g"}},
		filepath.Join(root, "E"):      {Path: filepath.Join(root, "E")},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestWalkSymlinkedDirectory(t *testing.T) {
	root := t.TempDir()
	writeSized(t, filepath.Join(root, "A", "big.bin"), big)

	if err := os.Symlink(filepath.Join(root, "A"), filepath.Join(root, "L")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	log, _ := testLog()
	got := walkAll(t, NewWalker(log, nil, 1), root)

	if _, ok := got[filepath.Join(root, "L")]; ok {
		t.Error("symlinked directory was followed")
	}

	if !slices.Contains(got[root].Subdirs, "L") {
		t.Errorf("root subdirs = %v, want the symlink counted", got[root].Subdirs)
	}
}

func TestWalkExcludes(t *testing.T) {
	root := t.TempDir()
	writeSized(t, filepath.Join(root, "keep", "f"), 1)
	writeSized(t, filepath.Join(root, "keep", "skip.log"), 1)
	writeSized(t, filepath.Join(root, "skip", "g"), 1)

	log, _ := testLog()
	excludes := []*regexp.Regexp{regexp.MustCompile(`/skip$`), regexp.MustCompile(`\.log$`)}
	got := walkAll(t, NewWalker(log, excludes, 1), root)

	if _, ok := got[filepath.Join(root, "skip")]; ok {
		t.Error("excluded directory was walked")
	}

	if subdirs := got[root].Subdirs; !reflect.DeepEqual(subdirs, []string{"keep"}) {
		t.Errorf("root subdirs = %v, want [keep]", subdirs)
	}

	if files := got[filepath.Join(root, "keep")].Files; !reflect.DeepEqual(files, []string{"f"}) {
		t.Errorf("keep files = %v, want [f]", files)
	}
}

func TestWalkUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := t.TempDir()
	writeSized(t, filepath.Join(root, "ok", "f"), 1)
	writeSized(t, filepath.Join(root, "locked", "g"), 1)

	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	log, hook := testLog()

	tree, err := NewWalker(log, nil, 1).Walk(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	for e := range tree.All() {
		if e.Path == locked {
			t.Error("unreadable directory was listed")
		}
	}

	if tree.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", tree.Skipped())
	}

	if tree.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (root and ok)", tree.Len())
	}

	if len(warnings(hook)) == 0 {
		t.Error("no warning for an unreadable directory")
	}
}

func TestWalkSymlinkedFile(t *testing.T) {
	root := t.TempDir()
	writeSized(t, filepath.Join(root, "big.bin"), big)
	mkdir(t, filepath.Join(root, "A"))

	if err := os.Symlink(filepath.Join(root, "big.bin"), filepath.Join(root, "A", "big.bin")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "A", "dangling")); err != nil {
		t.Fatal(err)
	}

	log, _ := testLog()
	got := walkAll(t, NewWalker(log, nil, 1), root)

	a := got[filepath.Join(root, "A")]
	if !reflect.DeepEqual(a.Files, []string{"big.bin", "dangling"}) || len(a.Subdirs) != 0 {
		t.Errorf("A = %+v, want both links listed as files", a)
	}
}
