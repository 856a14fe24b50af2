package nono

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// schemaVersion is the only SandboxState schema version this package
// understands. Bumping it is a breaking change to the wire format.
const schemaVersion = 1

// sourceWire is the canonical on-wire shape of a CapabilitySource.
type sourceWire struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
}

func (s CapabilitySource) toWire() sourceWire {
	switch s.Kind {
	case SourceGroup:
		return sourceWire{Kind: "group", Name: s.Group}
	case SourceSystem:
		return sourceWire{Kind: "system"}
	default:
		return sourceWire{Kind: "user"}
	}
}

func (w sourceWire) toSource() (CapabilitySource, error) {
	switch w.Kind {
	case "user":
		return UserSource(), nil
	case "system":
		return SystemSource(), nil
	case "group":
		if w.Name == "" {
			return CapabilitySource{}, fmt.Errorf("group source missing name")
		}
		return GroupSource(w.Name), nil
	default:
		return CapabilitySource{}, fmt.Errorf("unknown source kind %q", w.Kind)
	}
}

// fsEntryWire is the canonical on-wire shape of one fs capability.
type fsEntryWire struct {
	Original string     `json:"original"`
	Access   string     `json:"access"`
	IsFile   bool       `json:"is_file"`
	Source   sourceWire `json:"source"`
}

// stateWire mirrors §4.5's key table, in the required key order. Go's
// encoding/json emits struct fields in declaration order, which is what
// gives to_text its determinism — no map is ever marshaled directly.
type stateWire struct {
	Fs        []fsEntryWire `json:"fs"`
	NetBlocked bool         `json:"net_blocked"`
	CmdAllow  []string      `json:"cmd_allow"`
	CmdBlock  []string      `json:"cmd_block"`
	RawRules  []string      `json:"raw_rules"`
	Version   int           `json:"version"`
}

// SandboxState is the transport-safe, filesystem-independent form of a
// CapabilitySet (§4.5). It never touches the filesystem; only ToCaps does,
// by re-resolving every stored original path.
type SandboxState struct {
	fs       []fsEntryWire
	netBlocked bool
	cmdAllow []string
	cmdBlock []string
	rawRules []string
}

// FromCaps captures caps as a SandboxState, in insertion order, with
// command lists sorted per the canonical form.
func FromCaps(caps *CapabilitySet) *SandboxState {
	entries := make([]fsEntryWire, 0, len(caps.fs))
	for _, c := range caps.fs {
		entries = append(entries, fsEntryWire{
			Original: c.Original,
			Access:   c.Access.shortString(),
			IsFile:   c.IsFile,
			Source:   c.Source.toWire(),
		})
	}
	return &SandboxState{
		fs:         entries,
		netBlocked: caps.netBlocked,
		cmdAllow:   caps.CommandAllowList(),
		cmdBlock:   caps.CommandBlockList(),
		rawRules:   caps.RawRules(),
	}
}

// ToCaps re-resolves every stored original path via C1 and rebuilds a live
// CapabilitySet. Any NotFound or WrongKind aborts the conversion, reporting
// which entry failed.
func (s *SandboxState) ToCaps() (*CapabilitySet, error) {
	out := NewCapabilitySet()
	for i, e := range s.fs {
		mode, ok := accessModeFromShort(e.Access)
		if !ok {
			return nil, newErr(KindInvalid, "to_caps", e.Original, fmt.Sprintf("fs[%d]: invalid access %q", i, e.Access), nil)
		}
		source, err := e.Source.toSource()
		if err != nil {
			return nil, newErr(KindInvalid, "to_caps", e.Original, fmt.Sprintf("fs[%d]: %s", i, err), nil)
		}

		var resolved string
		if e.IsFile {
			resolved, err = resolveFile("to_caps", e.Original)
		} else {
			resolved, err = resolveDir("to_caps", e.Original)
		}
		if err != nil {
			return nil, err
		}

		out.allowResolved(FsCap{
			Original: e.Original,
			Resolved: resolved,
			Access:   mode,
			IsFile:   e.IsFile,
			Source:   source,
		})
	}
	if s.netBlocked {
		out.BlockNetwork()
	}
	for _, c := range s.cmdAllow {
		out.AllowCommand(c)
	}
	for _, c := range s.cmdBlock {
		out.BlockCommand(c)
	}
	for _, r := range s.rawRules {
		if err := out.PlatformRule(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ToText renders the canonical JSON form: key order fs, net_blocked,
// cmd_allow, cmd_block, raw_rules, version, with fs in insertion order and
// command lists pre-sorted by FromCaps.
func (s *SandboxState) ToText() (string, error) {
	wire := stateWire{
		Fs:         s.fs,
		NetBlocked: s.netBlocked,
		CmdAllow:   s.cmdAllow,
		CmdBlock:   s.cmdBlock,
		RawRules:   s.rawRules,
		Version:    schemaVersion,
	}
	if wire.Fs == nil {
		wire.Fs = []fsEntryWire{}
	}
	if wire.CmdAllow == nil {
		wire.CmdAllow = []string{}
	}
	if wire.CmdBlock == nil {
		wire.CmdBlock = []string{}
	}
	if wire.RawRules == nil {
		wire.RawRules = []string{}
	}
	buf, err := json.Marshal(wire)
	if err != nil {
		return "", newErr(KindInvalid, "to_text", "", "cannot marshal state", err)
	}
	return string(buf), nil
}

// requiredStateKeys are the exact top-level keys a canonical state document
// must carry — no more, no fewer. FromText("{}") failing is the load-bearing
// case this guards: an empty object is missing every required key.
var requiredStateKeys = []string{"fs", "net_blocked", "cmd_allow", "cmd_block", "raw_rules", "version"}

// FromText decodes a canonical state document, strictly validating the
// schema: unknown version, and missing or extra top-level keys, are all
// Invalid errors. Decoding never touches the filesystem.
func FromText(text string) (*SandboxState, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	if err := dec.Decode(&raw); err != nil {
		return nil, newErr(KindInvalid, "from_text", "", "malformed json", err)
	}

	for _, k := range requiredStateKeys {
		if _, ok := raw[k]; !ok {
			return nil, newErr(KindInvalid, "from_text", "", fmt.Sprintf("missing key %q", k), nil)
		}
	}
	if len(raw) != len(requiredStateKeys) {
		return nil, newErr(KindInvalid, "from_text", "", "unrecognized extra key in state document", nil)
	}

	var wire stateWire
	strict := json.NewDecoder(bytes.NewReader([]byte(text)))
	strict.DisallowUnknownFields()
	if err := strict.Decode(&wire); err != nil {
		return nil, newErr(KindInvalid, "from_text", "", "schema violation", err)
	}

	if wire.Version != schemaVersion {
		return nil, newErr(KindInvalid, "from_text", "", fmt.Sprintf("unsupported version %d", wire.Version), nil)
	}

	for i, e := range wire.Fs {
		if _, ok := accessModeFromShort(e.Access); !ok {
			return nil, newErr(KindInvalid, "from_text", e.Original, fmt.Sprintf("fs[%d]: invalid access %q", i, e.Access), nil)
		}
		if _, err := e.Source.toSource(); err != nil {
			return nil, newErr(KindInvalid, "from_text", e.Original, fmt.Sprintf("fs[%d]: %s", i, err), nil)
		}
	}

	return &SandboxState{
		fs:         wire.Fs,
		netBlocked: wire.NetBlocked,
		cmdAllow:   wire.CmdAllow,
		cmdBlock:   wire.CmdBlock,
		rawRules:   wire.RawRules,
	}, nil
}

// NetBlocked reports the network flag carried by the state.
func (s *SandboxState) NetBlocked() bool {
	return s.netBlocked
}
