package nono

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDirRejectsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "leaf")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := resolveDir("allow_path", file)
	if !IsKind(err, KindWrongKind) {
		t.Fatalf("expected WrongKind, got %v", err)
	}
}

func TestResolveFileRejectsDir(t *testing.T) {
	dir := t.TempDir()
	_, err := resolveFile("allow_file", dir)
	if !IsKind(err, KindWrongKind) {
		t.Fatalf("expected WrongKind, got %v", err)
	}
}

func TestResolveDirMissing(t *testing.T) {
	_, err := resolveDir("allow_path", filepath.Join(t.TempDir(), "does-not-exist"))
	if !IsKind(err, KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestResolveBestEffortDoesNotFail(t *testing.T) {
	p := resolveBestEffort(filepath.Join(t.TempDir(), "ghost", "path"))
	if p == "" {
		t.Fatal("resolveBestEffort returned empty string")
	}
	if !filepath.IsAbs(p) {
		t.Fatalf("resolveBestEffort result not absolute: %q", p)
	}
}

func TestIsUnderOrEqual(t *testing.T) {
	cases := []struct {
		p, dir string
		want   bool
	}{
		{"/a/b", "/a/b", true},
		{"/a/b/c", "/a/b", true},
		{"/a/bc", "/a/b", false},
		{"/a", "/a/b", false},
		{"/a/../b", "/b", true},
	}
	for _, c := range cases {
		if got := isUnderOrEqual(filepath.Clean(c.p), filepath.Clean(c.dir)); got != c.want {
			t.Errorf("isUnderOrEqual(%q, %q) = %v, want %v", c.p, c.dir, got, c.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	got, err := expandHome("~/foo")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(home, "foo")
	if got != want {
		t.Errorf("expandHome(~/foo) = %q, want %q", got, want)
	}
}

func TestResolveAnyClassifies(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "leaf")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, isFile, err := resolveAny("query", file)
	if err != nil {
		t.Fatal(err)
	}
	if !isFile {
		t.Error("expected file classification")
	}

	_, isFile, err = resolveAny("query", dir)
	if err != nil {
		t.Fatal(err)
	}
	if isFile {
		t.Error("expected directory classification")
	}
}
