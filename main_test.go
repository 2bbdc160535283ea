package main

import (
	"io"
	"strings"
	"testing"

	"github.com/olivier-w/drumvis/internal/config"
	"github.com/olivier-w/drumvis/internal/render"
	"github.com/olivier-w/drumvis/internal/termview"
)

func parseArgs(t *testing.T, args ...string) (*cliFlags, error) {
	t.Helper()
	f := newFlags()
	f.fs.SetOutput(io.Discard)
	return f, f.parse(args)
}

func TestMirrorFlagDescribesRightToLeftReflection(t *testing.T) {
	usage := newFlags().fs.Lookup("mirror").Usage
	if !strings.Contains(usage, "right half") || !strings.Contains(usage, "onto the left") {
		t.Fatalf("unexpected -mirror usage %q", usage)
	}
}

func TestParseFlagsDefaults(t *testing.T) {
	f, err := parseArgs(t, "song.mp3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.blendMode != render.BlendAdditive {
		t.Fatalf("expected additive blend, got %v", f.blendMode)
	}
	if f.fs.Arg(0) != "song.mp3" {
		t.Fatalf("unexpected argument %q", f.fs.Arg(0))
	}
	if len(f.analyserOptions()) != 2 {
		t.Fatal("expected smoothing and decibel options")
	}
}

func TestParseFlagsBlendAndColor(t *testing.T) {
	f, err := parseArgs(t, "-blend", "screen", "-color", "ansi256", "song.mp3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.blendMode != render.BlendScreen {
		t.Fatalf("expected screen blend, got %v", f.blendMode)
	}
	if f.colorMode != termview.ModeANSI256 {
		t.Fatalf("expected ansi256, got %v", f.colorMode)
	}
}

func TestParseFlagsRejectsBadValues(t *testing.T) {
	for _, args := range [][]string{
		{"-blend", "multiply"},
		{"-color", "sepia"},
		{"-smoothing", "1.5"},
		{"-min-db", "-20", "-max-db", "-30"},
		{"-size", "4"},
	} {
		if _, err := parseArgs(t, args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestApplyOverridesOnlyGivenFlags(t *testing.T) {
	base := config.Default()
	base.Mirror = false
	base.Easing = "easeOutCubic"

	f, err := parseArgs(t, "song.mp3")
	if err != nil {
		t.Fatal(err)
	}
	if got := f.apply(base); got != base {
		t.Fatalf("expected config unchanged, got %+v", got)
	}

	f, err = parseArgs(t, "-mirror", "-easing", "linear", "song.mp3")
	if err != nil {
		t.Fatal(err)
	}
	got := f.apply(base)
	if !got.Mirror || got.Easing != "linear" {
		t.Fatalf("expected overrides, got mirror=%v easing=%q", got.Mirror, got.Easing)
	}
}
