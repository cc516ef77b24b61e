package tags

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		version string
		rt      ReleaseType
		want    []string
	}{
		{"latest", "22.2.2.2", ReleaseLatest, []string{"latest", "22", "22.2", "22.2.2", "22.2.2.2"}},
		{"major", "22.2.2.2", ReleaseMajor, []string{"22", "22.2", "22.2.2", "22.2.2.2"}},
		{"minor", "22.2.2.2", ReleaseMinor, []string{"22.2", "22.2.2", "22.2.2.2"}},
		{"patch", "22.2.2.2", ReleasePatch, []string{"22.2.2", "22.2.2.2"}},
		{"head", "22.2.2.2", ReleaseHead, []string{"head"}},
		{"head ignores version", "", ReleaseHead, []string{"head"}},
		{"three components patch", "22.2.2", ReleasePatch, []string{"22.2.2"}},
		{"two components patch", "22.2", ReleasePatch, []string{}},
		{"two components minor", "22.2", ReleaseMinor, []string{"22.2"}},
		{"one component major", "22", ReleaseMajor, []string{"22"}},
		{"one component latest", "22", ReleaseLatest, []string{"latest", "22"}},
		{"five components capped", "22.2.2.2.9", ReleaseMajor, []string{"22", "22.2", "22.2.2", "22.2.2.2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.version, tt.rt)
			if err != nil {
				t.Fatalf("Generate(%q, %q) unexpected error: %v", tt.version, tt.rt, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Generate(%q, %q) mismatch (-want +got):\n%s", tt.version, tt.rt, diff)
			}
		})
	}
}

func TestGenerateLatestShape(t *testing.T) {
	for _, v := range []string{"1.2.3.4", "23.10.1.1134", "99.0.0.0"} {
		got, err := Generate(v, ReleaseLatest)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 5 {
			t.Fatalf("Generate(%q, latest) = %v, want 5 tags", v, got)
		}
		if got[0] != "latest" {
			t.Fatalf("first tag = %q, want latest", got[0])
		}
		for i := 2; i < len(got); i++ {
			if len(got[i]) <= len(got[i-1]) || !strings.HasPrefix(got[i], got[i-1]) {
				t.Fatalf("tag %q is not a longer prefix extension of %q", got[i], got[i-1])
			}
		}
		if got[4] != v {
			t.Fatalf("last tag = %q, want full version %q", got[4], v)
		}
	}
}

func TestGenerateInvalidReleaseType(t *testing.T) {
	for _, rt := range []ReleaseType{"", "stable", "LATEST", "prerelease"} {
		if _, err := Generate("22.2.2.2", rt); !errors.Is(err, ErrInvalidReleaseType) {
			t.Fatalf("Generate with %q error = %v, want ErrInvalidReleaseType", rt, err)
		}
	}
}

func TestParseReleaseType(t *testing.T) {
	for _, rt := range ReleaseTypes {
		got, err := ParseReleaseType(string(rt))
		if err != nil {
			t.Fatalf("ParseReleaseType(%q): %v", rt, err)
		}
		if got != rt {
			t.Fatalf("ParseReleaseType(%q) = %q", rt, got)
		}
	}

	if _, err := ParseReleaseType("nightly"); !errors.Is(err, ErrInvalidReleaseType) {
		t.Fatalf("ParseReleaseType(nightly) error = %v, want ErrInvalidReleaseType", err)
	}
}
