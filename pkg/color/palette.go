package color

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/cellblend/pkg/errors"
)

// Palette is an ordered set of colors used to seed point colors.
type Palette []Hex

// DefaultPalette is the palette new diagrams are drawn from.
var DefaultPalette = Palette{
	"#CB4533", "#E9B3BB", "#9580B5", "#BCC692", "#A4BFDD",
	"#EFD4EA", "#FAD424", "#68A4E7", "#7CB145", "#E9FEFE",
}

// Pick returns a uniformly random palette entry, or [Black] if p is empty.
func (p Palette) Pick(rng *rand.Rand) Hex {
	if len(p) == 0 {
		return Black
	}
	return p[rng.IntN(len(p))]
}

// Contains reports whether h is in p, comparing canonical forms.
func (p Palette) Contains(h Hex) bool {
	want, err := Normalize(string(h))
	if err != nil {
		return false
	}
	for _, c := range p {
		if got, err := Normalize(string(c)); err == nil && got == want {
			return true
		}
	}
	return false
}

// ParsePalette normalizes every entry of colors.
// The first invalid entry aborts parsing.
func ParsePalette(colors []string) (Palette, error) {
	if len(colors) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "palette cannot be empty")
	}
	p := make(Palette, len(colors))
	for i, s := range colors {
		h, err := Normalize(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "palette entry %d", i)
		}
		p[i] = h
	}
	return p, nil
}

const goldenRatio = 0.618033988749895

// GeneratePalette returns n colors with hues spread by the golden ratio,
// starting from a random hue drawn from rng.
func GeneratePalette(n int, rng *rand.Rand) Palette {
	if n <= 0 {
		return nil
	}
	hue := rng.Float64()
	p := make(Palette, n)
	for i := range p {
		c := colorful.Hsl(hue*360, 0.65, 0.6).Clamped()
		p[i] = MustNormalize(c.Hex())
		hue += goldenRatio
		hue -= float64(int(hue))
	}
	return p
}

// Contrast returns black or white, whichever reads better on top of h.
// Invalid colors get white text.
func Contrast(h Hex) Hex {
	c, err := HexToRGB(string(h))
	if err != nil {
		return "#FFFFFF"
	}
	l, _, _ := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Lab()
	if l > 0.6 {
		return Black
	}
	return "#FFFFFF"
}
