//go:build darwin

package nono

/*
#cgo LDFLAGS: -lsandbox
#include <sandbox.h>
#include <stdlib.h>
*/
import "C"

import (
	"strings"
	"unsafe"
)

// seatbeltAvailable is the availability constant §4.8 asks C8 to report on
// macOS: every shipping Darwin kernel carries libsandbox, so this is
// unconditionally true on the darwin build.
const seatbeltAvailable = true

// buildSeatbeltProfile translates caps into an S-expression Seatbelt
// profile per §4.7: deny-by-default, one allow clause per filesystem
// capability (literal for files, subpath for directories), a network
// clause gated on net_blocked, and every already-vetted raw rule appended
// verbatim.
func buildSeatbeltProfile(caps *CapabilitySet) string {
	var b strings.Builder
	b.WriteString("(version 1)\n(deny default)\n")

	for _, c := range caps.FsCapabilities() {
		matcher := "subpath"
		if c.IsFile {
			matcher = "literal"
		}
		quoted := seatbeltQuote(c.Resolved)
		if covers(c.Access, Read) {
			b.WriteString("(allow file-read* (" + matcher + " " + quoted + "))\n")
		}
		if covers(c.Access, Write) {
			b.WriteString("(allow file-write* (" + matcher + " " + quoted + "))\n")
		}
	}

	if !caps.IsNetworkBlocked() {
		b.WriteString("(allow network*)\n")
	}

	for _, r := range caps.RawRules() {
		b.WriteString(r)
		b.WriteString("\n")
	}

	return b.String()
}

// seatbeltQuote wraps a path in double quotes, escaping any embedded quote
// or backslash so a path cannot break out of the S-expression string.
func seatbeltQuote(p string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(p)
	return `"` + escaped + `"`
}

// enforceCaps submits caps as a Seatbelt profile via sandbox_init, applying
// it to the calling process itself rather than spawning a child — unlike
// every sandbox-exec-based wrapper, this narrows the process already in
// flight.
func enforceCaps(caps *CapabilitySet) error {
	profile := buildSeatbeltProfile(caps)

	cProfile := C.CString(profile)
	defer C.free(unsafe.Pointer(cProfile))

	var cErr *C.char
	rc := C.sandbox_init(cProfile, 0, &cErr)
	if rc != 0 {
		msg := "sandbox_init failed"
		if cErr != nil {
			msg = C.GoString(cErr)
			C.sandbox_free_error(cErr)
		}
		return newErr(KindEnforceFailed, "apply", "", msg, nil)
	}
	return nil
}
