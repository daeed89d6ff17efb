package matching

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LabelSet is a set of canonical labels.
type LabelSet map[string]struct{}

// Canonicalize trims surrounding whitespace and lower-cases the label.
func Canonicalize(label string) string {
	// cases.Caser keeps state, so a fresh one is used per call.
	return cases.Lower(language.Und).String(strings.TrimSpace(label))
}

// CanonicalSet canonicalizes labels, collapsing duplicates and dropping blanks.
func CanonicalSet(labels []string) LabelSet {
	set := make(LabelSet, len(labels))
	for _, label := range labels {
		canonical := Canonicalize(label)
		if canonical == "" {
			continue
		}
		set[canonical] = struct{}{}
	}
	return set
}

func (s LabelSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

func (s LabelSet) Len() int {
	return len(s)
}

// Intersect returns the labels of s that are also present in other, sorted.
// The result is never nil.
func (s LabelSet) Intersect(other LabelSet) []string {
	matched := make([]string, 0, len(s))
	for label := range s {
		if other.Has(label) {
			matched = append(matched, label)
		}
	}
	sort.Strings(matched)
	return matched
}

// Sorted returns the labels in lexical order.
func (s LabelSet) Sorted() []string {
	labels := make([]string, 0, len(s))
	for label := range s {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func sameLabel(a, b string) bool {
	a, b = Canonicalize(a), Canonicalize(b)
	return a != "" && a == b
}
