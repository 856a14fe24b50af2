package nono

// AccessMode is a point in the three-element access lattice {R, W, RW}.
// The bit layout makes join a plain OR and covers a plain AND-equals-b
// check, mirroring the lattice's algebra directly in the representation.
type AccessMode uint8

const (
	Read AccessMode = 1 << iota
	Write
)

// ReadWrite is the join of Read and Write, the top of the lattice.
const ReadWrite = Read | Write

func (a AccessMode) String() string {
	switch a {
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "read+write"
	default:
		return "none"
	}
}

// shortString renders the canonical serialized form ("R", "W", "RW").
func (a AccessMode) shortString() string {
	switch a {
	case Read:
		return "R"
	case Write:
		return "W"
	case ReadWrite:
		return "RW"
	default:
		return ""
	}
}

// MarshalJSON renders the canonical "R"/"W"/"RW" wire form instead of the
// underlying uint8, matching the form shortString/state.go already use.
func (a AccessMode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.shortString() + `"`), nil
}

func accessModeFromShort(s string) (AccessMode, bool) {
	switch s {
	case "R":
		return Read, true
	case "W":
		return Write, true
	case "RW":
		return ReadWrite, true
	default:
		return 0, false
	}
}

// join returns a ⊔ b, the least upper bound in the lattice.
func join(a, b AccessMode) AccessMode {
	return a | b
}

// covers reports covers(a, b) ≡ b ⊑ a: whether access level a is sufficient
// to satisfy a request for access level b.
func covers(a, b AccessMode) bool {
	return a&b == b
}

// cmp gives a total order over the three values for canonical serialization:
// R < W < RW.
func cmp(a, b AccessMode) int {
	rank := func(m AccessMode) int {
		switch m {
		case Read:
			return 0
		case Write:
			return 1
		case ReadWrite:
			return 2
		default:
			return -1
		}
	}
	ra, rb := rank(a), rank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}
