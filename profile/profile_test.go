package profile

import (
	"slices"
	"testing"
)

func TestMake_Options(t *testing.T) {
	c := Make(WithMode("cpu"), WithPath("/tmp/out"), WithQuiet(true))

	mode, path, quiet := c()
	if mode != "cpu" || path != "/tmp/out" || !quiet {
		t.Errorf("Make() = (%q, %q, %v)", mode, path, quiet)
	}

	// Later options override earlier ones without disturbing other fields.
	mode, path, quiet = WithMode("heap")(c)()
	if mode != "heap" || path != "/tmp/out" || !quiet {
		t.Errorf("WithMode override = (%q, %q, %v)", mode, path, quiet)
	}
}

func TestStart_EmptyModeIsNoop(t *testing.T) {
	p := Make().Start()
	if _, ok := p.(ignore); !ok {
		t.Fatalf("expected no-op profiler, got %T", p)
	}

	p.Stop()
}

func TestStart_UnknownModeIsNoop(t *testing.T) {
	if slices.Contains(slices.Collect(Modes()), "bogus") {
		t.Fatal("unexpected mode")
	}

	p := Make(WithMode("bogus")).Start()
	if _, ok := p.(ignore); !ok {
		t.Fatalf("expected no-op profiler, got %T", p)
	}
}
