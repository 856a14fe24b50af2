package nono

import (
	"fmt"
	"sort"
	"strings"
)

// SourceKind tags the origin of a capability grant. Purely informational —
// it never affects enforcement or subsumption.
type SourceKind string

const (
	SourceUser  SourceKind = "user"
	SourceGroup SourceKind = "group"
	SourceSystem SourceKind = "system"
)

// CapabilitySource identifies where a grant came from.
type CapabilitySource struct {
	Kind  SourceKind
	Group string // set only when Kind == SourceGroup
}

// UserSource, SystemSource and GroupSource construct the three possible
// capability sources.
func UserSource() CapabilitySource   { return CapabilitySource{Kind: SourceUser} }
func SystemSource() CapabilitySource { return CapabilitySource{Kind: SourceSystem} }
func GroupSource(name string) CapabilitySource {
	return CapabilitySource{Kind: SourceGroup, Group: name}
}

// FsCap is a single filesystem capability grant (§3 Filesystem Capability).
type FsCap struct {
	Original string
	Resolved string
	Access   AccessMode
	IsFile   bool
	Source   CapabilitySource
}

// matches reports whether this capability covers path p per §4.4's match
// rule: exact match for a file capability, exact-or-subpath for a directory.
func (c FsCap) matches(p string) bool {
	if c.IsFile {
		return p == c.Resolved
	}
	return isUnderOrEqual(p, c.Resolved)
}

// CapabilitySet is the mutable builder described in §3/§4.3.
type CapabilitySet struct {
	fs         []FsCap
	netBlocked bool
	cmdAllow   map[string]struct{}
	cmdBlock   map[string]struct{}
	rawRules   []string
}

// NewCapabilitySet returns an empty capability set: no filesystem grants,
// network allowed, no command metadata, no raw rules.
func NewCapabilitySet() *CapabilitySet {
	return &CapabilitySet{
		cmdAllow: make(map[string]struct{}),
		cmdBlock: make(map[string]struct{}),
	}
}

// AllowPath grants access to a directory subtree.
func (c *CapabilitySet) AllowPath(path string, mode AccessMode) error {
	resolved, err := resolveDir("allow_path", path)
	if err != nil {
		return err
	}
	c.fs = append(c.fs, FsCap{Original: path, Resolved: resolved, Access: mode, IsFile: false, Source: UserSource()})
	return nil
}

// AllowFile grants access to a single file.
func (c *CapabilitySet) AllowFile(path string, mode AccessMode) error {
	resolved, err := resolveFile("allow_file", path)
	if err != nil {
		return err
	}
	c.fs = append(c.fs, FsCap{Original: path, Resolved: resolved, Access: mode, IsFile: true, Source: UserSource()})
	return nil
}

// allowResolved appends a pre-resolved capability (used by SandboxState and
// config import, where the source may not be SourceUser).
func (c *CapabilitySet) allowResolved(cap FsCap) {
	c.fs = append(c.fs, cap)
}

// BlockNetwork sets the network-blocked flag. Idempotent.
func (c *CapabilitySet) BlockNetwork() {
	c.netBlocked = true
}

// AllowCommand adds name to the command allow list. Metadata only — see §4.3.
func (c *CapabilitySet) AllowCommand(name string) {
	c.cmdAllow[name] = struct{}{}
}

// BlockCommand adds name to the command block list. Metadata only.
func (c *CapabilitySet) BlockCommand(name string) {
	c.cmdBlock[name] = struct{}{}
}

// PlatformRule vets raw via the raw-rule safety filter (C6) and, if
// accepted, appends it to the raw rule list.
func (c *CapabilitySet) PlatformRule(raw string) error {
	if reason, frag, bad := isRuleTooBroad(raw); bad {
		return newErr(KindInvalid, "platform_rule", "", fmt.Sprintf("%s: %q", reason, frag), nil)
	}
	c.rawRules = append(c.rawRules, raw)
	return nil
}

// Deduplicate merges fs entries sharing (resolved, is_file), joining their
// access and collapsing source per §3's Capability Set invariant.
func (c *CapabilitySet) Deduplicate() {
	type key struct {
		resolved string
		isFile   bool
	}
	order := make([]key, 0, len(c.fs))
	merged := make(map[key]*FsCap)

	for _, e := range c.fs {
		k := key{e.Resolved, e.IsFile}
		if existing, ok := merged[k]; ok {
			existing.Access = join(existing.Access, e.Access)
			existing.Source = mergeSource(existing.Source, e.Source)
			continue
		}
		copyE := e
		merged[k] = &copyE
		order = append(order, k)
	}

	deduped := make([]FsCap, 0, len(order))
	for _, k := range order {
		deduped = append(deduped, *merged[k])
	}
	c.fs = deduped
}

func mergeSource(a, b CapabilitySource) CapabilitySource {
	if a.Kind == SourceUser || b.Kind == SourceUser {
		return UserSource()
	}
	if a == b {
		return a
	}
	return SystemSource()
}

// FsCapabilities returns the current ordered sequence of filesystem
// capabilities, by value — callers cannot mutate the set through them.
func (c *CapabilitySet) FsCapabilities() []FsCap {
	out := make([]FsCap, len(c.fs))
	copy(out, c.fs)
	return out
}

// IsNetworkBlocked reports the network flag.
func (c *CapabilitySet) IsNetworkBlocked() bool {
	return c.netBlocked
}

// CommandAllowList and CommandBlockList return sorted snapshots of the
// command metadata lists.
func (c *CapabilitySet) CommandAllowList() []string { return sortedKeys(c.cmdAllow) }
func (c *CapabilitySet) CommandBlockList() []string { return sortedKeys(c.cmdBlock) }

// RawRules returns the vetted raw platform rules, in insertion order.
func (c *CapabilitySet) RawRules() []string {
	out := make([]string, len(c.rawRules))
	copy(out, c.rawRules)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// PathCovered resolves p best-effort (a missing path is treated as its
// literal absolute form) and reports whether any FsCap covers it.
func (c *CapabilitySet) PathCovered(p string) bool {
	resolved := resolveBestEffort(p)
	for _, e := range c.fs {
		if e.matches(resolved) {
			return true
		}
	}
	return false
}

// Summary returns a short human-readable multi-line description of the set.
func (c *CapabilitySet) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CapabilitySet (fs=%d)\n", len(c.fs))
	for _, e := range c.fs {
		kind := "dir"
		if e.IsFile {
			kind = "file"
		}
		fmt.Fprintf(&b, "  %s [%s] %s (%s)\n", e.Resolved, e.Access.shortString(), kind, e.Source.Kind)
	}
	if c.netBlocked {
		b.WriteString("  network: blocked\n")
	} else {
		b.WriteString("  network: allowed\n")
	}
	if len(c.cmdAllow) > 0 {
		fmt.Fprintf(&b, "  command allow: %s\n", strings.Join(c.CommandAllowList(), ", "))
	}
	if len(c.cmdBlock) > 0 {
		fmt.Fprintf(&b, "  command block: %s\n", strings.Join(c.CommandBlockList(), ", "))
	}
	if len(c.rawRules) > 0 {
		fmt.Fprintf(&b, "  raw rules: %d\n", len(c.rawRules))
	}
	return b.String()
}

func (c *CapabilitySet) String() string {
	status := "allowed"
	if c.netBlocked {
		status = "blocked"
	}
	return fmt.Sprintf("CapabilitySet{fs=%d, network=%s}", len(c.fs), status)
}

// clone returns a deep copy, used by QueryContext to take an immutable
// snapshot per §4.4's "constructed by deep copy" requirement.
func (c *CapabilitySet) clone() *CapabilitySet {
	out := NewCapabilitySet()
	out.fs = append(out.fs, c.fs...)
	out.netBlocked = c.netBlocked
	for k := range c.cmdAllow {
		out.cmdAllow[k] = struct{}{}
	}
	for k := range c.cmdBlock {
		out.cmdBlock[k] = struct{}{}
	}
	out.rawRules = append(out.rawRules, c.rawRules...)
	return out
}
