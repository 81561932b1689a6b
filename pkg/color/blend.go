package color

import "math"

// DefaultThreshold is the distance below which two colors count as similar.
const DefaultThreshold = 50.0

// Average returns the per-channel mean of colors, rounded to the nearest
// integer with halves rounded away from zero.
//
// Colors that fail to parse contribute nothing to the channel sums but are
// still counted in the divisor. An empty input yields [Black].
func Average(colors ...Hex) Hex {
	if len(colors) == 0 {
		return Black
	}

	var r, g, b int
	for _, h := range colors {
		c, err := HexToRGB(string(h))
		if err != nil {
			continue
		}
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
	}

	n := float64(len(colors))
	return RGBToHex(
		int(math.Round(float64(r)/n)),
		int(math.Round(float64(g)/n)),
		int(math.Round(float64(b)/n)),
	)
}

// Distance returns the Euclidean distance between a and b in RGB space.
func Distance(a, b Hex) (float64, error) {
	ca, err := HexToRGB(string(a))
	if err != nil {
		return 0, err
	}
	cb, err := HexToRGB(string(b))
	if err != nil {
		return 0, err
	}
	dr := float64(ca.R) - float64(cb.R)
	dg := float64(ca.G) - float64(cb.G)
	db := float64(ca.B) - float64(cb.B)
	return math.Sqrt(dr*dr + dg*dg + db*db), nil
}

// Similar reports whether a and b are strictly closer than threshold.
// It returns false if either color fails to parse.
func Similar(a, b Hex, threshold float64) bool {
	d, err := Distance(a, b)
	if err != nil {
		return false
	}
	return d < threshold
}
