//go:build !linux && !darwin

package nono

import "runtime"

func probeSupport() SupportInfo {
	return SupportInfo{
		IsSupported: false,
		Platform:    runtime.GOOS,
		Details:     "no sandboxing back-end implemented for this platform",
	}
}
