package aws

import (
	"regexp"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	maxFilenameLength = 255
)

var (
	reservedName = regexp.MustCompile(`(?i)^(CON|PRN|AUX|NUL|COM[1-9]|LPT[1-9])(\.|$)`)
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ValidFilename reports whether a filename is safe to use in an object key
func ValidFilename(filename string) bool {
	if filename == "" || len(filename) > maxFilenameLength {
		return false
	}
	if strings.Contains(filename, "../") || strings.ContainsAny(filename, `<>:"|?*`) {
		return false
	}
	return !reservedName.MatchString(filename)
}
