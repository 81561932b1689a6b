package color

import (
	"math/rand/v2"
	"testing"
)

func TestDefaultPaletteCanonical(t *testing.T) {
	if len(DefaultPalette) != 10 {
		t.Fatalf("DefaultPalette has %d colors, want 10", len(DefaultPalette))
	}
	for _, c := range DefaultPalette {
		n, err := Normalize(string(c))
		if err != nil {
			t.Fatalf("palette color %s invalid: %v", c, err)
		}
		if n != c {
			t.Errorf("palette color %s not canonical (%s)", c, n)
		}
	}
}

func TestPalettePick(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	seen := make(map[Hex]bool)
	for range 1000 {
		c := DefaultPalette.Pick(rng)
		if !DefaultPalette.Contains(c) {
			t.Fatalf("Pick returned %s outside palette", c)
		}
		seen[c] = true
	}
	if len(seen) != len(DefaultPalette) {
		t.Errorf("Pick covered %d of %d colors", len(seen), len(DefaultPalette))
	}

	if got := Palette(nil).Pick(rng); got != Black {
		t.Errorf("empty Pick = %s, want %s", got, Black)
	}
}

func TestParsePalette(t *testing.T) {
	p, err := ParsePalette([]string{"#abc", "112233"})
	if err != nil {
		t.Fatalf("ParsePalette() error: %v", err)
	}
	if p[0] != "#AABBCC" || p[1] != "#112233" {
		t.Errorf("ParsePalette() = %v", p)
	}

	if _, err := ParsePalette(nil); err == nil {
		t.Error("empty palette should fail")
	}
	if _, err := ParsePalette([]string{"#abc", "zz"}); err == nil {
		t.Error("invalid entry should fail")
	}
}

func TestGeneratePalette(t *testing.T) {
	p := GeneratePalette(12, rand.New(rand.NewPCG(3, 4)))
	if len(p) != 12 {
		t.Fatalf("GeneratePalette(12) returned %d colors", len(p))
	}
	for _, c := range p {
		if n, err := Normalize(string(c)); err != nil || n != c {
			t.Errorf("generated color %q not canonical", c)
		}
	}
	if GeneratePalette(0, rand.New(rand.NewPCG(1, 1))) != nil {
		t.Error("GeneratePalette(0) should be nil")
	}
}

func TestContrast(t *testing.T) {
	if got := Contrast("#FFFFFF"); got != Black {
		t.Errorf("Contrast(white) = %s", got)
	}
	if got := Contrast("#000000"); got != "#FFFFFF" {
		t.Errorf("Contrast(black) = %s", got)
	}
	if got := Contrast("xyz"); got != "#FFFFFF" {
		t.Errorf("Contrast(xyz) = %s", got)
	}
}
