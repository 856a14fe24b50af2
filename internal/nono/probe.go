package nono

// SupportInfo describes whether the current host can enforce a sandbox and
// why, per §4.8. Probing has no side effects.
type SupportInfo struct {
	IsSupported bool
	Platform    string
	Details     string
}

// IsSupported is a shorthand for Support().IsSupported.
func IsSupported() bool {
	return probeSupport().IsSupported
}

// Support returns the full probe result.
func Support() SupportInfo {
	return probeSupport()
}
