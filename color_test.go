package vgc

import (
	"errors"
	"testing"
)

func TestRgbaCSS(t *testing.T) {
	if got := NewRgba(255, 255, 255, 255).CSS(); got != "rgba(255,255,255,255)" {
		t.Errorf("got %q, want %q", got, "rgba(255,255,255,255)")
	}
	if got := Transparent.CSS(); got != "rgba(0,0,0,0)" {
		t.Errorf("got %q, want %q", got, "rgba(0,0,0,0)")
	}
}

func TestRgbaHex(t *testing.T) {
	c := NewRgba(0x12, 0x34, 0xab, 0x80)
	if got := c.Hex(); got != "#1234ab80" {
		t.Errorf("got %q, want %q", got, "#1234ab80")
	}
	parsed, err := ParseHex(c.Hex())
	if err != nil {
		t.Fatal(err)
	}
	diff(t, c, parsed)

	opaque, err := ParseHex("#ff0000")
	if err != nil {
		t.Fatal(err)
	}
	diff(t, NewRgba(255, 0, 0, 255), opaque)

	for _, s := range []string{"", "ff0000", "#ff00", "#gg0000"} {
		if _, err := ParseHex(s); !errors.Is(err, errBadHex) {
			t.Errorf("ParseHex(%q): got error %v, want %v", s, err, errBadHex)
		}
	}
}
