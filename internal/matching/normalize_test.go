package matching

import (
	"reflect"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  BLS ":          "bls",
		"Critical Care":   "critical care",
		"ÉQUIPE MOBILE":   "équipe mobile",
		"\t\n":            "",
		"already-lowered": "already-lowered",
	}

	for in, want := range tests {
		if got := Canonicalize(in); got != want {
			t.Fatalf("Canonicalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCanonicalSetCollapsesDuplicatesAndBlanks(t *testing.T) {
	t.Parallel()

	set := CanonicalSet([]string{"BLS", "bls ", " ", "", "ACLS"})
	if set.Len() != 2 {
		t.Fatalf("expected 2 labels, got %d: %v", set.Len(), set.Sorted())
	}
	if !set.Has("bls") || !set.Has("acls") {
		t.Fatalf("unexpected labels: %v", set.Sorted())
	}
}

func TestIntersectIsSortedAndNeverNil(t *testing.T) {
	t.Parallel()

	left := CanonicalSet([]string{"Telemetry", "ACLS", "BLS"})
	right := CanonicalSet([]string{"bls", "telemetry"})

	if got := left.Intersect(right); !reflect.DeepEqual(got, []string{"bls", "telemetry"}) {
		t.Fatalf("unexpected intersection: %v", got)
	}

	empty := CanonicalSet(nil).Intersect(right)
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestSameLabelIgnoresBlankClaims(t *testing.T) {
	t.Parallel()

	if sameLabel("", "") {
		t.Fatal("blank labels must not match")
	}
	if !sameLabel(" ICU", "icu ") {
		t.Fatal("expected case and whitespace insensitive match")
	}
	if sameLabel("ICU", "ER") {
		t.Fatal("different labels must not match")
	}
}
