package color

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/cellblend/pkg/errors"
)

// ErrInvalidColor is the cause of every color parse failure.
var ErrInvalidColor = stderrors.New("invalid hex color")

// Black is returned when there is nothing to average.
const Black Hex = "#000000"

// Hex is a color in "#RRGGBB" form. Values produced by this package are
// always canonical (uppercase, leading '#'); values from callers may not be.
type Hex string

// String implements fmt.Stringer.
func (h Hex) String() string { return string(h) }

// RGB returns the channels of h.
func (h Hex) RGB() (RGB, error) { return HexToRGB(string(h)) }

// Valid reports whether h parses.
func (h Hex) Valid() bool {
	_, err := HexToRGB(string(h))
	return err == nil
}

// RGB is a color as three 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// Hex encodes c in canonical form.
func (c RGB) Hex() Hex {
	return RGBToHex(int(c.R), int(c.G), int(c.B))
}

// HexToRGB parses a hex color string.
//
// A single leading '#' is stripped and 3-digit shorthand is expanded
// ("abc" becomes "aabbcc"). Anything other than exactly six hex digits
// after expansion is rejected with an error wrapping [ErrInvalidColor].
func HexToRGB(s string) (RGB, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) == 3 {
		digits = string([]byte{
			digits[0], digits[0],
			digits[1], digits[1],
			digits[2], digits[2],
		})
	}
	if len(digits) != 6 || !isHexDigits(digits) {
		return RGB{}, errors.Wrap(errors.ErrCodeInvalidColor, ErrInvalidColor, "parse %q", s)
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGB{}, errors.Wrap(errors.ErrCodeInvalidColor, ErrInvalidColor, "parse %q", s)
	}
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// RGBToHex encodes channel values as "#RRGGBB".
// Channels outside [0, 255] are clamped.
func RGBToHex(r, g, b int) Hex {
	return Hex(fmt.Sprintf("#%02X%02X%02X", clampChannel(r), clampChannel(g), clampChannel(b)))
}

func clampChannel(v int) int {
	return max(0, min(v, 255))
}

// Normalize returns the canonical form of s.
func Normalize(s string) (Hex, error) {
	c, err := HexToRGB(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// MustNormalize is like [Normalize] but panics on invalid input.
// It is intended for package-level palette literals.
func MustNormalize(s string) Hex {
	h, err := Normalize(s)
	if err != nil {
		panic(err)
	}
	return h
}
