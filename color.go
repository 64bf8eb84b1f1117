package vgc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Rgba is an 8-bit per channel color with straight alpha.
type Rgba struct {
	R, G, B, A uint8
}

var (
	Black       = Rgba{0, 0, 0, 255}
	White       = Rgba{255, 255, 255, 255}
	Transparent = Rgba{0, 0, 0, 0}
)

var errBadHex = errors.New("malformed hex color")

func NewRgba(r, g, b, a uint8) Rgba {
	return Rgba{R: r, G: g, B: b, A: a}
}

// CSS formats the color as rgba(r,g,b,a) with all four channels in the range
// 0 to 255.
func (c Rgba) CSS() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%d)", c.R, c.G, c.B, c.A)
}

// Hex formats the color as #rrggbbaa.
func (c Rgba) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Rgba) String() string {
	return c.CSS()
}

// ParseHex parses #rrggbb or #rrggbbaa. A missing alpha channel is opaque.
func ParseHex(s string) (Rgba, error) {
	h, ok := strings.CutPrefix(s, "#")
	if !ok || (len(h) != 6 && len(h) != 8) {
		return Rgba{}, fmt.Errorf("%q: %w", s, errBadHex)
	}
	if len(h) == 6 {
		h += "ff"
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Rgba{}, fmt.Errorf("%q: %w", s, errBadHex)
	}
	return Rgba{
		R: uint8(n >> 24),
		G: uint8(n >> 16),
		B: uint8(n >> 8),
		A: uint8(n),
	}, nil
}

// MarshalText implements [encoding.TextMarshaler] using [Rgba.Hex].
func (c Rgba) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler] using [ParseHex].
func (c *Rgba) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
