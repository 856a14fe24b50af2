package main

import "testing"

func TestResolveShellExplicitPathWins(t *testing.T) {
	path, flag, err := resolveShell("/bin/custom-shell", shellModeUser, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/bin/custom-shell" || flag != "-c" {
		t.Fatalf("got %q %q", path, flag)
	}
}

func TestResolveShellLoginFlag(t *testing.T) {
	_, flag, err := resolveShell("/bin/custom-shell", shellModeDefault, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flag != "-lc" {
		t.Fatalf("expected login flag -lc, got %q", flag)
	}
}

func TestResolveShellRejectsInvalidMode(t *testing.T) {
	_, _, err := resolveShell("", "bogus", false)
	if err == nil {
		t.Fatal("expected error for invalid shell mode")
	}
}

func TestResolveShellUserModeRejectsRelativeShellEnv(t *testing.T) {
	t.Setenv("SHELL", "bash")
	_, _, err := resolveShell("", shellModeUser, false)
	if err == nil {
		t.Fatal("expected error for relative $SHELL")
	}
}
