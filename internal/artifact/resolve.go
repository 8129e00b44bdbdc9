package artifact

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Target is the concrete destination computed from caller-supplied path
// hints: an absolute directory plus an optional filename applied only to the
// first artifact of a batch.
type Target struct {
	Dir              string
	FilenameOverride string
}

// pathKind classifies a save_path as naming a file or a directory.
type pathKind int

const (
	kindDir pathKind = iota
	kindFile
)

// classifyPath decides file-vs-directory from the path shape alone.
//
// A path is file-like when it carries a non-empty extension and its base name
// differs from its directory component (so a bare root or directory marker is
// never a file). The heuristic misclassifies extension-less filenames and
// dotted directory names; it is kept for compatibility and isolated here so
// the retrieval flow never depends on how the call is made.
func classifyPath(p string) pathKind {
	if filepath.Ext(p) != "" && filepath.Base(p) != filepath.Dir(p) {
		return kindFile
	}
	return kindDir
}

// hasSeparator reports whether p contains any path separator.
func hasSeparator(p string) bool {
	return strings.ContainsAny(p, `/\`)
}

// ValidateSavePath checks a caller-supplied save_path before any I/O.
//
// Accepted forms are an absolute path (platform path-root test) or a bare
// filename with no separators, which later resolves against base_dir. A
// relative path containing separators is ambiguous and rejected.
func ValidateSavePath(p string) error {
	if p == "" || filepath.IsAbs(p) || !hasSeparator(p) {
		return nil
	}
	return fmt.Errorf("save_path must be an absolute path or a bare filename, got %q", p)
}

// ResolveTarget computes the destination directory and optional first-file
// name override for a retrieval batch.
//
// The function is pure and deterministic: it inspects only its arguments,
// never the filesystem. savePath may be empty (use defaultSaveDir), a bare
// filename (joined onto baseDir), an absolute file path, or a directory.
func ResolveTarget(savePath, baseDir, defaultSaveDir string) Target {
	if savePath == "" {
		return Target{Dir: defaultSaveDir}
	}

	var dir, override string
	if classifyPath(savePath) == kindFile {
		if !hasSeparator(savePath) {
			// Bare filename: directory comes entirely from baseDir.
			override = savePath
		} else {
			dir = filepath.Dir(savePath)
			override = filepath.Base(savePath)
		}
	} else {
		dir = savePath
	}

	if filepath.IsAbs(dir) {
		dir = filepath.Clean(dir)
	} else {
		dir = filepath.Join(baseDir, dir)
	}

	return Target{Dir: dir, FilenameOverride: override}
}

// artifactName returns the filename for the artifact at index i. The override
// applies only to index 0; every other artifact gets the deterministic
// {task_id}_{i}.png form, so names are unique within a batch.
func artifactName(override, taskID string, i int) string {
	if i == 0 && override != "" {
		return override
	}
	return fmt.Sprintf("%s_%d.png", taskID, i)
}
