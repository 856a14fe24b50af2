//go:build darwin

package nono

func probeSupport() SupportInfo {
	if !seatbeltAvailable {
		return SupportInfo{IsSupported: false, Platform: "macos", Details: "seatbelt unavailable"}
	}
	return SupportInfo{IsSupported: true, Platform: "macos", Details: "seatbelt (libsandbox) available"}
}
