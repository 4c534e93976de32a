package utils

import "math"

// ceilEpsilon absorbs binary representation noise before taking the ceiling,
// so that 1.1 stays 1.1 instead of becoming 1.11.
const ceilEpsilon = 1e-9

// RoundDecimal rounds a float64 value to the nearest value with the specified
// number of decimal places, halves away from zero.
// For example, RoundDecimal(3.14159, 2) returns 3.14.
func RoundDecimal(value float64, decimals int) float64 {
	pow := math.Pow10(decimals)
	return math.Round(value*pow) / pow
}

// CeilDecimal rounds a float64 value up to the specified number of decimal
// places. For example, CeilDecimal(0.19415, 2) returns 0.2.
func CeilDecimal(value float64, decimals int) float64 {
	pow := math.Pow10(decimals)
	r := math.Ceil(value*pow-ceilEpsilon) / pow
	if r == 0 {
		// Ceil of a value just below zero is -0, which prints as "-0.00".
		return 0
	}
	return r
}

// CeilHundredths is CeilDecimal at two decimal places.
func CeilHundredths(value float64) float64 {
	return CeilDecimal(value, 2)
}
