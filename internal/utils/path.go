package utils

import (
	"path/filepath"
	"strings"
)

// IsBareFileName reports whether name is a plain file name that stays inside
// the directory it is joined to. Empty names, dot entries and anything with a
// slash or backslash are rejected regardless of host OS.
func IsBareFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}

// JoinOutputPath joins a validated file name onto the output directory.
// The second result is false when name is not a bare file name.
func JoinOutputPath(dir, name string) (string, bool) {
	if !IsBareFileName(name) {
		return "", false
	}
	return filepath.Join(dir, name), true
}
