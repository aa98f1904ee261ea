package pivot

import "strings"

// naturalPart is one run of a label: either text or an unsigned decimal number.
type naturalPart struct {
	text  string
	isNum bool
}

// NaturalKeyParts is a label split into alternating text and digit runs.
type NaturalKeyParts []naturalPart

// NaturalKey splits s so that embedded numbers compare by value ("ward2" < "ward10")
// and text compares case-insensitively.
func NaturalKey(s string) NaturalKeyParts {
	var parts NaturalKeyParts
	start := 0
	for start < len(s) {
		end := start
		digits := isDigit(s[start])
		for end < len(s) && isDigit(s[end]) == digits {
			end++
		}
		run := s[start:end]
		if digits {
			run = strings.TrimLeft(run, "0")
		} else {
			run = strings.ToLower(run)
		}
		parts = append(parts, naturalPart{text: run, isNum: digits})
		start = end
	}
	return parts
}

// Compare orders two keys part by part. Numbers sort before text at the same position.
func (k NaturalKeyParts) Compare(other NaturalKeyParts) int {
	for i := 0; i < len(k) && i < len(other); i++ {
		a, b := k[i], other[i]
		switch {
		case a.isNum && b.isNum:
			if c := compareDigits(a.text, b.text); c != 0 {
				return c
			}
		case a.isNum != b.isNum:
			if a.isNum {
				return -1
			}
			return 1
		default:
			if c := strings.Compare(a.text, b.text); c != 0 {
				return c
			}
		}
	}
	switch {
	case len(k) < len(other):
		return -1
	case len(k) > len(other):
		return 1
	}
	return 0
}

// CompareNatural is a total order over labels: natural order first, then byte order
// so that "A" and "a" (or "01" and "1") still have a fixed relative position.
func CompareNatural(a, b string) int {
	if c := NaturalKey(a).Compare(NaturalKey(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// NaturalLess reports whether a sorts before b under CompareNatural.
func NaturalLess(a, b string) bool {
	return CompareNatural(a, b) < 0
}

// compareDigits compares two digit strings with leading zeros stripped.
func compareDigits(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
