package dataroom

import (
	"strings"
	"unicode/utf8"
)

// forbiddenChars are rejected anywhere in a container or leaf name. The set
// matches the usual filesystem-hostile characters so exported trees stay
// portable.
const forbiddenChars = `<>:"/\|?*`

// maxNameLength is the longest accepted name after normalization.
const maxNameLength = 255

// reservedNames are device names rejected case-insensitively (ignoring a
// leaf's extension).
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// Normalize trims leading/trailing whitespace and collapses internal
// whitespace runs to a single space. Pure and total: any input yields a
// (possibly empty) result without error.
func Normalize(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// SplitExtension splits a leaf name into base and extension.
//
// The extension is the substring from the last '.' onward. A name with no
// dot, or a dot only at position 0 (hidden-file style), has an empty
// extension and the whole name as base.
func SplitExtension(name string) (base, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}

// ValidateName checks a normalized container or leaf name against the naming
// rules. Room names are not validated here: rooms only get normalized, plus
// a non-empty check applied by the room orchestrator.
//
// Rules, in check order:
//   - non-empty after normalization
//   - at most 255 characters
//   - none of < > : " / \ | ? *
//   - not a reserved device name (case-insensitive; for leaves the
//     extension is ignored when comparing)
//   - leaves only: non-empty base name, and any present extension must be
//     the supported one
//
// All failures are reported as KindNameValidation.
func ValidateName(name string, kind EntityKind) error {
	if name == "" {
		return nameValidation("name cannot be empty", "")
	}

	// the limit counts characters, not bytes, so multibyte names are not
	// penalized
	if utf8.RuneCountInString(name) > maxNameLength {
		return nameValidation("name exceeds 255 characters", name)
	}

	if strings.ContainsAny(name, forbiddenChars) {
		return nameValidation(`name contains a forbidden character (< > : " / \ | ? *)`, name)
	}

	base := name
	var ext string
	if kind == EntityLeaf {
		base, ext = SplitExtension(name)
	}

	if _, reserved := reservedNames[strings.ToUpper(base)]; reserved {
		return nameValidation("name is a reserved device name", name)
	}

	if kind == EntityLeaf {
		if base == "" {
			return nameValidation("file name must have a non-empty base", name)
		}
		if ext != "" && !strings.EqualFold(ext, SupportedExtension) {
			return nameValidation("unsupported file extension (only "+SupportedExtension+" is accepted)", name)
		}
	}

	return nil
}
