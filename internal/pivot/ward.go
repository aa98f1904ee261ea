package pivot

import (
	"regexp"
	"strings"
)

var (
	// "25 C-128 C": a hyphenated label whose trailing run packs two ward numbers together.
	packedRangeWard = regexp.MustCompile(`^(.+-)(\d)(\d+\s*\p{L}.*)$`)
	// "26 A27 C": two "<digits><letters>" groups written without a separator.
	concatenatedWard = regexp.MustCompile(`^(\d+\s*\p{L}+)(\d+\s*\p{L}+)$`)
)

// NormalizeWard returns the display form of a ward identifier. It is only used for
// column headers; lookups always use the raw identifier.
func NormalizeWard(ward string) string {
	if ward == "" {
		return ""
	}
	if !strings.Contains(ward, ",") {
		if m := packedRangeWard.FindStringSubmatch(ward); m != nil {
			return m[1] + m[2] + "," + m[3]
		}
	}
	if m := concatenatedWard.FindStringSubmatch(ward); m != nil {
		return m[1] + "," + m[2]
	}
	return ward
}
