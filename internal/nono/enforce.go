package nono

import "sync/atomic"

// applied is a process-wide latch: apply narrows the current process
// permanently, so a second call is a programming error rather than
// something retriable. sync/atomic keeps the check itself lock-free and
// safe if callers race two Apply calls from different goroutines.
var applied atomic.Bool

// Apply builds the platform-specific ruleset from caps' fs capabilities,
// network flag and already-vetted raw rules, and commits it irreversibly
// via enforceCaps. Called once per process. On success the narrowing is
// permanent and every later call fails with KindAlreadyApplied; on failure
// the process is left as before the call, so a caller may retry with a
// corrected capability set.
func Apply(caps *CapabilitySet) error {
	if applied.Load() {
		return newErr(KindAlreadyApplied, "apply", "", "sandbox already applied in this process", nil)
	}
	if err := enforceCaps(caps); err != nil {
		return err
	}
	applied.Store(true)
	return nil
}
