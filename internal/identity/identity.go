// Package identity maps a working-directory path to the short, stable
// project identifier used as a record filename and as a cross-reference
// key in the global project index.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
)

// IDLength is the number of hex characters kept from the path digest.
const IDLength = 12

// Resolve returns the project id for path. The path is cleaned (trailing
// separators dropped) and made absolute before hashing, so equivalent
// spellings of the same directory resolve to the same id.
//
// The digest is MD5 to stay compatible with stores written by earlier
// tooling. The id is a filename, not a security boundary.
func Resolve(path string) string {
	sum := md5.Sum([]byte(Normalize(path)))
	return hex.EncodeToString(sum[:])[:IDLength]
}

// Normalize cleans path and makes it absolute. If the working directory
// cannot be determined a relative path is returned cleaned but unchanged.
func Normalize(path string) string {
	if path == "" {
		return path
	}
	cleaned := filepath.Clean(path)
	if filepath.IsAbs(cleaned) {
		return cleaned
	}
	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return cleaned
	}
	return abs
}

// Name returns the display name of a project: the last element of its path.
func Name(path string) string {
	return filepath.Base(Normalize(path))
}

// ParentName returns the name of the directory containing the project.
// It is empty for a path at the filesystem root.
func ParentName(path string) string {
	parent := filepath.Dir(Normalize(path))
	name := filepath.Base(parent)
	if name == string(filepath.Separator) || name == "." {
		return ""
	}
	return name
}

// Valid reports whether id has the shape Resolve produces: IDLength
// lowercase hex characters. Anything else cannot name a project record.
func Valid(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
