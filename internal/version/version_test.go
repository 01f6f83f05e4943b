package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	orig := Commit
	defer func() { Commit = orig }()

	Commit = "0123456789abcdef"
	got := String()
	if !strings.HasPrefix(got, "casesla dev (commit: 0123456,") {
		t.Errorf("unexpected version string %q", got)
	}
}
