package buildinfo

import (
	"strings"
	"testing"
	"time"
)

func TestNewBuildIDIsUnique(t *testing.T) {
	a, b := NewBuildID(), NewBuildID()
	if a == b {
		t.Fatal("expected two build ids to differ")
	}
}

func TestDirectiveIncludesBuildIDAndSize(t *testing.T) {
	d := Directive("abc-123", 2048, 5*time.Second)
	if !strings.HasPrefix(d, "# build abc-123 size ") {
		t.Fatalf("unexpected directive: %q", d)
	}
}

func TestCompareVersionSelf(t *testing.T) {
	if CompareVersion(Version) != 0 {
		t.Fatalf("expected CompareVersion(Version) == 0")
	}
}

func TestCompareVersionNormalizesMissingV(t *testing.T) {
	trimmed := strings.TrimPrefix(Version, "v")
	if CompareVersion(trimmed) != 0 {
		t.Fatalf("expected CompareVersion to tolerate a missing leading 'v'")
	}
}

func TestCompareVersionOlderIsNegative(t *testing.T) {
	if CompareVersion("v99.0.0") >= 0 {
		t.Fatalf("expected the current version to compare less than v99.0.0")
	}
}
