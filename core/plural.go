package core

import "strings"

// irregularPlurals covers the labels whose plural is not formed by a suffix rule.
var irregularPlurals = map[string]string{
	"information": "information",
	"none":        "none",
	"child":       "children",
	"person":      "people",
	"datum":       "data",
}

// Pluralize returns the English plural of a message type label. It is used
// to derive per-type counter keys, so "warning" is counted as "warnings".
func Pluralize(label string) string {
	if label == "" {
		return label
	}
	lower := strings.ToLower(label)
	if p, ok := irregularPlurals[lower]; ok {
		return p
	}

	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"), strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		return label + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(lower[len(lower)-2]):
		return label[:len(label)-1] + "ies"
	default:
		return label + "s"
	}
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
