package version

import "testing"

func TestString_ExplicitVersion(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	Version = "v1.2.3"
	if got := String(); got != "v1.2.3" {
		t.Errorf("String() = %q, want %q", got, "v1.2.3")
	}
}

func TestString_DevFallback(t *testing.T) {
	original := Version
	defer func() { Version = original }()

	Version = "dev"
	if got := String(); got == "" {
		t.Error("String() returned empty version")
	}
}
