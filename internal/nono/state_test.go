package nono

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFromTextRejectsEmptyObject(t *testing.T) {
	_, err := FromText("{}")
	if !IsKind(err, KindInvalid) {
		t.Fatalf("expected Invalid for empty object, got %v", err)
	}
}

func TestFromTextRejectsUnknownVersion(t *testing.T) {
	doc := `{"fs":[],"net_blocked":false,"cmd_allow":[],"cmd_block":[],"raw_rules":[],"version":99}`
	_, err := FromText(doc)
	if !IsKind(err, KindInvalid) {
		t.Fatalf("expected Invalid for unknown version, got %v", err)
	}
}

func TestFromTextRejectsExtraKey(t *testing.T) {
	doc := `{"fs":[],"net_blocked":false,"cmd_allow":[],"cmd_block":[],"raw_rules":[],"version":1,"bogus":true}`
	_, err := FromText(doc)
	if !IsKind(err, KindInvalid) {
		t.Fatalf("expected Invalid for extra key, got %v", err)
	}
}

func TestFromTextRejectsMalformedJSON(t *testing.T) {
	_, err := FromText("not json")
	if !IsKind(err, KindInvalid) {
		t.Fatalf("expected Invalid for malformed json, got %v", err)
	}
}

func TestToTextFromTextRoundTrip(t *testing.T) {
	dir := t.TempDir()
	caps := NewCapabilitySet()
	if err := caps.AllowPath(dir, ReadWrite); err != nil {
		t.Fatal(err)
	}
	caps.BlockNetwork()
	caps.AllowCommand("ls")
	if err := caps.PlatformRule(`(allow file-read* (subpath "/tmp/scoped"))`); err != nil {
		t.Fatal(err)
	}

	state := FromCaps(caps)
	text, err := state.ToText()
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(text, `{"fs":`) {
		t.Fatalf("expected fs to be the first key, got %q", text)
	}

	decoded, err := FromText(text)
	if err != nil {
		t.Fatal(err)
	}

	rebuilt, err := decoded.ToCaps()
	if err != nil {
		t.Fatal(err)
	}

	if !rebuilt.IsNetworkBlocked() {
		t.Error("expected network_blocked to survive round trip")
	}
	if len(rebuilt.FsCapabilities()) != 1 {
		t.Fatalf("expected 1 fs capability, got %d", len(rebuilt.FsCapabilities()))
	}
	if rebuilt.FsCapabilities()[0].Access != ReadWrite {
		t.Errorf("expected RW access to survive round trip, got %v", rebuilt.FsCapabilities()[0].Access)
	}
	if len(rebuilt.CommandAllowList()) != 1 || rebuilt.CommandAllowList()[0] != "ls" {
		t.Errorf("expected command allow list to survive round trip, got %v", rebuilt.CommandAllowList())
	}
	if len(rebuilt.RawRules()) != 1 {
		t.Error("expected raw rules to survive round trip")
	}
}

func TestToCapsFailsOnVanishedPath(t *testing.T) {
	dir := t.TempDir()
	caps := NewCapabilitySet()
	if err := caps.AllowPath(dir, Read); err != nil {
		t.Fatal(err)
	}
	state := FromCaps(caps)

	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	_, err := state.ToCaps()
	if !IsKind(err, KindNotFound) {
		t.Fatalf("expected NotFound for a vanished path, got %v", err)
	}
}

func TestToCapsFailsWhenKindChanged(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "was-a-dir")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}

	caps := NewCapabilitySet()
	if err := caps.AllowPath(target, Read); err != nil {
		t.Fatal(err)
	}
	state := FromCaps(caps)

	if err := os.RemoveAll(target); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("now a file"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := state.ToCaps()
	if !IsKind(err, KindWrongKind) {
		t.Fatalf("expected WrongKind when a directory capability now resolves to a file, got %v", err)
	}
}

func TestToTextCommandListsAreSorted(t *testing.T) {
	caps := NewCapabilitySet()
	caps.AllowCommand("zz")
	caps.AllowCommand("aa")
	state := FromCaps(caps)
	text, err := state.ToText()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Index(text, `"aa"`) > strings.Index(text, `"zz"`) {
		t.Fatalf("expected sorted command list in output: %s", text)
	}
}
