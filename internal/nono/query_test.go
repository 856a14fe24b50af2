package nono

import (
	"os"
	"path/filepath"
	"testing"
)

func TestQueryPathGrantedAndDenied(t *testing.T) {
	dir := t.TempDir()
	caps := NewCapabilitySet()
	if err := caps.AllowPath(dir, Read); err != nil {
		t.Fatal(err)
	}
	q := NewQueryContext(caps)

	inside := filepath.Join(dir, "file.txt")
	out := q.QueryPath(inside, Read)
	if out.Status != StatusAllowed {
		t.Fatalf("expected granted, got %+v", out)
	}

	out = q.QueryPath(inside, Write)
	if out.Status != StatusDenied || out.Reason != "insufficient_access" {
		t.Fatalf("expected denied/insufficient_access, got %+v", out)
	}

	outside := filepath.Join(t.TempDir(), "elsewhere.txt")
	out = q.QueryPath(outside, Read)
	if out.Status != StatusDenied || out.Reason != "path_not_granted" {
		t.Fatalf("expected denied/path_not_granted, got %+v", out)
	}
}

// TestQueryPathJoinsOverlappingCapabilities covers spec.md §4.4 step 4: when
// more than one capability matches a path, the granted access is the join
// over all of them, not just the most specific match's own access.
func TestQueryPathJoinsOverlappingCapabilities(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	caps := NewCapabilitySet()
	if err := caps.AllowFile(file, Read); err != nil {
		t.Fatal(err)
	}
	if err := caps.AllowPath(dir, Write); err != nil {
		t.Fatal(err)
	}

	q := NewQueryContext(caps)
	out := q.QueryPath(file, ReadWrite)
	if out.Status != StatusAllowed {
		t.Fatalf("expected join(R,W)=RW to cover a ReadWrite request, got %+v", out)
	}
	if out.Granted != ReadWrite {
		t.Fatalf("expected Granted to report the join RW, got %v", out.Granted)
	}
}

func TestQueryPathMostSpecificWins(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	caps := NewCapabilitySet()
	if err := caps.AllowPath(dir, Read); err != nil {
		t.Fatal(err)
	}
	if err := caps.AllowFile(file, ReadWrite); err != nil {
		t.Fatal(err)
	}

	q := NewQueryContext(caps)
	out := q.QueryPath(file, Write)
	if out.Status != StatusAllowed {
		t.Fatalf("expected the more specific file grant to win, got %+v", out)
	}
	if want := resolveBestEffort(file); out.GrantedPath != want {
		t.Fatalf("expected granted path %q (the file grant), got %q", want, out.GrantedPath)
	}
}

func TestQueryContextIsImmutableSnapshot(t *testing.T) {
	dir := t.TempDir()
	caps := NewCapabilitySet()
	q := NewQueryContext(caps)

	if err := caps.AllowPath(dir, Read); err != nil {
		t.Fatal(err)
	}

	out := q.QueryPath(dir, Read)
	if out.Status != StatusDenied {
		t.Fatalf("query context must not observe grants added after snapshot, got %+v", out)
	}
}

func TestQueryNetwork(t *testing.T) {
	caps := NewCapabilitySet()
	q := NewQueryContext(caps)
	if q.QueryNetwork().Status != StatusAllowed {
		t.Error("expected network allowed by default")
	}

	caps.BlockNetwork()
	q2 := NewQueryContext(caps)
	out := q2.QueryNetwork()
	if out.Status != StatusDenied || out.Reason != "network_blocked" {
		t.Fatalf("expected denied/network_blocked, got %+v", out)
	}
}
