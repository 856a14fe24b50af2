package nono

import "testing"

func TestSupportInfoMatchesIsSupported(t *testing.T) {
	info := Support()
	if info.IsSupported != IsSupported() {
		t.Errorf("Support().IsSupported = %v, IsSupported() = %v", info.IsSupported, IsSupported())
	}
}

func TestSupportInfoReportsAPlatform(t *testing.T) {
	info := Support()
	if info.Platform == "" {
		t.Error("expected a non-empty platform string")
	}
	if info.Details == "" {
		t.Error("expected a non-empty details string")
	}
}
