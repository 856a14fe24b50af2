package nono

import (
	"os"
	"path/filepath"
	"strings"
)

// resolveAbs turns p into an absolute, symlink-canonicalized path, following
// the same tilde/relative handling the teacher's NormalizePath used for
// sandbox paths, minus glob awareness (globs are expanded one layer up, in
// nonoconfig, before reaching the resolver).
func resolveAbs(p string) (string, error) {
	expanded, err := expandHome(p)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	// EvalSymlinks fails on a nonexistent path; callers check existence
	// separately and report NotFound with the lexical absolute form.
	return abs, nil
}

func expandHome(p string) (string, error) {
	if p == "~" || (len(p) >= 2 && p[:2] == "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if p == "~" {
			return home, nil
		}
		return filepath.Join(home, p[2:]), nil
	}
	return p, nil
}

// resolveDir implements resolve_dir: canonicalize p, require it to exist and
// be a directory.
func resolveDir(op, original string) (resolved string, err error) {
	resolved, err = resolveAbs(original)
	if err != nil {
		return "", newErr(KindNotFound, op, original, "cannot resolve path", err)
	}
	info, statErr := os.Stat(resolved)
	if statErr != nil {
		return "", newErr(KindNotFound, op, original, "path does not exist", statErr)
	}
	if !info.IsDir() {
		return "", newErr(KindWrongKind, op, original, "file given where directory expected", nil)
	}
	return resolved, nil
}

// resolveFile implements resolve_file: canonicalize p, require it to exist
// and be a regular (non-directory) file.
func resolveFile(op, original string) (resolved string, err error) {
	resolved, err = resolveAbs(original)
	if err != nil {
		return "", newErr(KindNotFound, op, original, "cannot resolve path", err)
	}
	info, statErr := os.Stat(resolved)
	if statErr != nil {
		return "", newErr(KindNotFound, op, original, "path does not exist", statErr)
	}
	if info.IsDir() {
		return "", newErr(KindWrongKind, op, original, "directory given where file expected", nil)
	}
	return resolved, nil
}

// resolveAny implements resolve_any: canonicalize p, auto-classify file vs.
// directory, require existence.
func resolveAny(op, original string) (resolved string, isFile bool, err error) {
	resolved, err = resolveAbs(original)
	if err != nil {
		return "", false, newErr(KindNotFound, op, original, "cannot resolve path", err)
	}
	info, statErr := os.Stat(resolved)
	if statErr != nil {
		return "", false, newErr(KindNotFound, op, original, "path does not exist", statErr)
	}
	return resolved, !info.IsDir(), nil
}

// resolveBestEffort canonicalizes p without failing when it does not exist,
// as required by path_covered (§4.3) and the query engine (§4.4): a missing
// path is treated as its literal absolute form.
func resolveBestEffort(original string) string {
	expanded, err := expandHome(original)
	if err != nil {
		expanded = original
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return original
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// isUnderOrEqual reports whether p is lexically equal to dir or a strict
// descendant of it along path-component boundaries — the subpath match
// relation from the glossary.
func isUnderOrEqual(p, dir string) bool {
	if p == dir {
		return true
	}
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}
