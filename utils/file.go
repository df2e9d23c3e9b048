package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.viam.com/utils"
)

// RemoveFileNoError will remove the file at the given path if it exists. Any
// errors will be suppressed.
func RemoveFileNoError(path string) {
	utils.UncheckedErrorFunc(func() error {
		if _, err := os.Stat(path); err == nil {
			return os.Remove(path)
		}
		return nil
	})
}

// SafeJoinDir performs a filepath.Join of 'parent' and 'subdir' but returns an error
// if the resulting path points outside of 'parent'.
func SafeJoinDir(parent, subdir string) (string, error) {
	res := filepath.Join(parent, subdir)
	if !strings.HasPrefix(filepath.Clean(res), filepath.Clean(parent)+string(os.PathSeparator)) {
		return res, errors.Errorf("unsafe path join: '%s' with '%s'", parent, subdir)
	}
	return res, nil
}

// HasExtensionFold reports whether name ends with ext. ASCII letters match regardless of
// case; every other byte, including multi-byte UTF-8, must match exactly.
func HasExtensionFold(name, ext string) bool {
	if len(name) < len(ext) {
		return false
	}
	suffix := name[len(name)-len(ext):]
	for i := 0; i < len(ext); i++ {
		if lowerASCII(suffix[i]) != lowerASCII(ext[i]) {
			return false
		}
	}
	return true
}

// HasAnyExtensionFold is HasExtensionFold over a set of extensions.
func HasAnyExtensionFold(name string, exts ...string) bool {
	return lo.ContainsBy(exts, func(ext string) bool {
		return HasExtensionFold(name, ext)
	})
}

// ReplaceExtension swaps the extension of the base name of path for ext.
func ReplaceExtension(path, ext string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

func lowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
