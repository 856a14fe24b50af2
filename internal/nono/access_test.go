package nono

import "testing"

func TestAccessModeJoin(t *testing.T) {
	cases := []struct {
		a, b, want AccessMode
	}{
		{Read, Write, ReadWrite},
		{Read, Read, Read},
		{ReadWrite, Read, ReadWrite},
		{Write, Write, Write},
	}
	for _, c := range cases {
		if got := join(c.a, c.b); got != c.want {
			t.Errorf("join(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestAccessModeCovers(t *testing.T) {
	if !covers(ReadWrite, Read) {
		t.Error("RW should cover R")
	}
	if !covers(ReadWrite, Write) {
		t.Error("RW should cover W")
	}
	if covers(Read, Write) {
		t.Error("R should not cover W")
	}
	if covers(Write, Read) {
		t.Error("W should not cover R")
	}
	if !covers(Read, Read) {
		t.Error("R should cover R")
	}
}

func TestAccessModeStringRoundTrip(t *testing.T) {
	for _, m := range []AccessMode{Read, Write, ReadWrite} {
		short := m.shortString()
		got, ok := accessModeFromShort(short)
		if !ok {
			t.Fatalf("accessModeFromShort(%q) failed", short)
		}
		if got != m {
			t.Errorf("round trip %v -> %q -> %v", m, short, got)
		}
	}
}

func TestAccessModeFromShortRejectsGarbage(t *testing.T) {
	if _, ok := accessModeFromShort("X"); ok {
		t.Error("expected failure for invalid short form")
	}
	if _, ok := accessModeFromShort(""); ok {
		t.Error("expected failure for empty short form")
	}
}

func TestAccessModeOrdering(t *testing.T) {
	if cmp(Read, Write) >= 0 {
		t.Error("R should sort before W")
	}
	if cmp(Write, ReadWrite) >= 0 {
		t.Error("W should sort before RW")
	}
	if cmp(Read, ReadWrite) >= 0 {
		t.Error("R should sort before RW")
	}
}
