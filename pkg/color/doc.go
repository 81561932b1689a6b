// Package color implements the color arithmetic behind cell blending.
//
// Colors travel through cellblend as [Hex] strings in canonical "#RRGGBB"
// form. Parsing is lenient about case, a leading '#', and 3-digit shorthand,
// and strict about everything else: malformed input yields an error wrapping
// [ErrInvalidColor] with code INVALID_COLOR rather than a panic.
//
// # Blending
//
// [Average] computes the per-channel mean of a set of colors and is the only
// blending operation the interaction controller uses. Entries that fail to
// parse are skipped in the channel sums but still counted in the divisor, so a
// malformed entry pulls the result toward black:
//
//	color.Average("#FF0000", "oops") // "#800000"
//
// [Similar] reports whether two colors are within a Euclidean RGB distance of
// each other and never fails; unparseable input is simply "not similar".
//
// # Palettes
//
// A [Palette] seeds initial point colors. [DefaultPalette] holds the ten
// colors the diagram has always shipped with; [GeneratePalette] derives an
// evenly spread palette from a random source.
package color
