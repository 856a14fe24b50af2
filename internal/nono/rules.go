package nono

import "strings"

// isRuleTooBroad implements the raw-rule safety filter (C6): it rejects
// platform_rule fragments that would grant unconditional or root-subtree
// access, regardless of platform syntax. This runs before a raw rule is
// ever handed to a backend, so a rejected rule never reaches Landlock or
// Seatbelt.
//
// The filter is deliberately textual and conservative: it looks for the
// clause shapes known to blow a hole through the sandbox rather than
// parsing a full S-expression grammar, since a raw rule is an escape
// hatch of last resort and false positives are cheaper than false
// negatives here.
func isRuleTooBroad(raw string) (reason, fragment string, tooBroad bool) {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)

	if strings.Contains(lower, "(allow default)") {
		return "rule_too_broad", trimmed, true
	}

	for _, verb := range []string{"file-read*", "file-read-data", "file-write*", "file-write-data", "process-exec", "network*", "network-outbound", "network-inbound"} {
		if !strings.Contains(lower, verb) {
			continue
		}
		if !strings.Contains(lower, "allow") {
			continue
		}
		if mentionsRootSubpath(lower) {
			return "rule_too_broad", trimmed, true
		}
	}

	return "", "", false
}

// mentionsRootSubpath reports whether a rule's (subpath ...) or
// (literal ...) clause names the filesystem root, which would make the
// surrounding allow unconditional in practice.
func mentionsRootSubpath(lower string) bool {
	for _, clause := range []string{`(subpath "/")`, `(subpath "/" )`, `(literal "/")`, `(regex #"^/")`} {
		if strings.Contains(lower, clause) {
			return true
		}
	}
	return false
}
