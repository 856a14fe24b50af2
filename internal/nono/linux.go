//go:build linux

package nono

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux Landlock ABI surface. golang.org/x/sys/unix does not export these
// (Landlock support landed in the kernel after the last syscall table
// refresh this module vendors), so the ruleset attribute layout and
// syscall numbers are reproduced here directly, matching the kernel UAPI
// header landlock.h.
const (
	sysLandlockCreateRuleset = 444
	sysLandlockAddRule       = 445
	sysLandlockRestrictSelf  = 446

	landlockCreateRulesetVersion = 1 << 0

	landlockRuleTypePathBeneath = 1
	landlockRuleTypeNetPort     = 2

	landlockAccessFSExecute     = 1 << 0
	landlockAccessFSWriteFile   = 1 << 1
	landlockAccessFSReadFile    = 1 << 2
	landlockAccessFSReadDir     = 1 << 3
	landlockAccessFSRemoveDir   = 1 << 4
	landlockAccessFSRemoveFile  = 1 << 5
	landlockAccessFSMakeChar    = 1 << 6
	landlockAccessFSMakeDir     = 1 << 7
	landlockAccessFSMakeReg     = 1 << 8
	landlockAccessFSMakeSock    = 1 << 9
	landlockAccessFSMakeFifo    = 1 << 10
	landlockAccessFSMakeBlock   = 1 << 11
	landlockAccessFSMakeSym     = 1 << 12
	landlockAccessFSRefer       = 1 << 13
	landlockAccessFSTruncate    = 1 << 14
	landlockAccessFSIoctlDev    = 1 << 15

	landlockAccessNetBindTCP    = 1 << 0
	landlockAccessNetConnectTCP = 1 << 1
)

// landlockRulesetAttr mirrors struct landlock_ruleset_attr.
type landlockRulesetAttr struct {
	handledAccessFS  uint64
	handledAccessNet uint64
}

// landlockPathBeneathAttr mirrors struct landlock_path_beneath_attr.
type landlockPathBeneathAttr struct {
	allowedAccess uint64
	parentFd      int32
	_             [4]byte
}

// landlockABIVersion probes the running kernel's Landlock ABI version using
// the documented zero-argument query form. Returns 0 if Landlock is
// unavailable.
func landlockABIVersion() int {
	v, _, errno := unix.Syscall(sysLandlockCreateRuleset, 0, 0, landlockCreateRulesetVersion)
	if errno != 0 {
		return 0
	}
	return int(v)
}

// allFSAccessRights returns the full read+write access-right bitmask this
// kernel's ABI version supports, used as the ruleset's handled-access set
// (Landlock requires declaring the full set of rights a ruleset governs up
// front, independent of what any individual rule grants).
func allFSAccessRights(abi int) uint64 {
	bits := uint64(landlockAccessFSExecute | landlockAccessFSWriteFile | landlockAccessFSReadFile |
		landlockAccessFSReadDir | landlockAccessFSRemoveDir | landlockAccessFSRemoveFile |
		landlockAccessFSMakeChar | landlockAccessFSMakeDir | landlockAccessFSMakeReg |
		landlockAccessFSMakeSock | landlockAccessFSMakeFifo | landlockAccessFSMakeBlock |
		landlockAccessFSMakeSym)
	if abi >= 2 {
		bits |= landlockAccessFSRefer
	}
	if abi >= 3 {
		bits |= landlockAccessFSTruncate
	}
	if abi >= 4 {
		bits |= landlockAccessFSIoctlDev
	}
	return bits
}

// accessRightsFor maps an AccessMode to the Landlock rights granted for a
// path-beneath rule, per §4.7: R -> read-file + read-dir + execute,
// W -> write-file + make-* + remove-*, RW -> both.
func accessRightsFor(mode AccessMode) uint64 {
	var bits uint64
	if covers(mode, Read) {
		bits |= landlockAccessFSReadFile | landlockAccessFSReadDir | landlockAccessFSExecute
	}
	if covers(mode, Write) {
		bits |= landlockAccessFSWriteFile | landlockAccessFSRemoveDir | landlockAccessFSRemoveFile |
			landlockAccessFSMakeChar | landlockAccessFSMakeDir | landlockAccessFSMakeReg |
			landlockAccessFSMakeSock | landlockAccessFSMakeFifo | landlockAccessFSMakeBlock |
			landlockAccessFSMakeSym
	}
	return bits
}

// enforceCaps builds a Landlock ruleset from caps and restricts the current
// thread/process. Raw platform rules are ignored on Linux per §4.7.
func enforceCaps(caps *CapabilitySet) error {
	abi := landlockABIVersion()
	if abi < 1 {
		return newErr(KindUnsupported, "apply", "", "landlock unavailable on this kernel", nil)
	}

	netBits := uint64(0)
	if caps.IsNetworkBlocked() {
		if abi < 4 {
			return newErr(KindUnsupported, "apply", "", "net_block_unsupported: kernel landlock ABI lacks network control", nil)
		}
		netBits = landlockAccessNetBindTCP | landlockAccessNetConnectTCP
	}

	attr := landlockRulesetAttr{
		handledAccessFS:  allFSAccessRights(abi),
		handledAccessNet: netBits,
	}

	rulesetFd, _, errno := unix.Syscall(sysLandlockCreateRuleset, uintptr(unsafe.Pointer(&attr)), unsafe.Sizeof(attr), 0)
	if errno != 0 {
		return newErr(KindEnforceFailed, "apply", "", "landlock_create_ruleset failed", errno)
	}
	fd := int(rulesetFd)
	defer unix.Close(fd)

	for _, c := range caps.FsCapabilities() {
		if err := addPathBeneathRule(fd, c.Resolved, accessRightsFor(c.Access)&attr.handledAccessFS); err != nil {
			return err
		}
	}

	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return newErr(KindEnforceFailed, "apply", "", "prctl(PR_SET_NO_NEW_PRIVS) failed", err)
	}

	_, _, errno = unix.Syscall(sysLandlockRestrictSelf, uintptr(fd), 0, 0)
	if errno != 0 {
		return newErr(KindEnforceFailed, "apply", "", "landlock_restrict_self failed", errno)
	}
	return nil
}

// addPathBeneathRule opens path as O_PATH and registers it with the
// ruleset. The descriptor is always closed before return.
func addPathBeneathRule(rulesetFd int, path string, access uint64) error {
	pathFd, err := unix.Open(path, unix.O_PATH|unix.O_CLOEXEC, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return newErr(KindNotFound, "apply", path, "path vanished before enforcement", err)
		}
		return newErr(KindEnforceFailed, "apply", path, "open(O_PATH) failed", err)
	}
	defer unix.Close(pathFd)

	attr := landlockPathBeneathAttr{
		allowedAccess: access,
		parentFd:      int32(pathFd),
	}
	_, _, errno := unix.Syscall(sysLandlockAddRule, uintptr(rulesetFd), landlockRuleTypePathBeneath, uintptr(unsafe.Pointer(&attr)))
	if errno != 0 {
		return newErr(KindEnforceFailed, "apply", path, "landlock_add_rule failed", errno)
	}
	return nil
}
