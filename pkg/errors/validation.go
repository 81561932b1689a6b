package errors

import (
	"math"
	"slices"
	"strings"
)

// MaxPoints bounds the number of points a diagram may hold.
// Raster rendering and neighbor queries are quadratic in the worst case.
const MaxPoints = 5000

// ValidatePointCount validates the number of points requested for a diagram.
func ValidatePointCount(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "point count cannot be negative: %d", n)
	}
	if n > MaxPoints {
		return New(ErrCodeInvalidInput, "point count too large: %d (max %d)", n, MaxPoints)
	}
	return nil
}

// ValidateIndex validates a cell index against the current collection size.
func ValidateIndex(i, size int) error {
	if i < 0 || i >= size {
		return New(ErrCodeInvalidIndex, "cell index %d out of range [0, %d)", i, size)
	}
	return nil
}

// ValidateDimension validates a plane width or height.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be a positive finite number, got %v", name, v)
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed values.
// Comparison is case-insensitive.
func ValidateFormat(format string, allowed []string) error {
	if slices.Contains(allowed, strings.ToLower(format)) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
