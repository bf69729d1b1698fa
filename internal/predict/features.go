package predict

import "math"

// MinHDL is the floor applied to HDL when it is used as a divisor.
const MinHDL = 0.01

// TotalCholesterol is LDL + HDL.
func TotalCholesterol(ldl, hdl float64) float64 {
	return ldl + hdl
}

// CholesterolRatio is LDL / HDL with HDL floored at MinHDL.
func CholesterolRatio(ldl, hdl float64) float64 {
	return ldl / math.Max(MinHDL, hdl)
}

// BPBMIInteraction is (BP * BMI) / 100.
func BPBMIInteraction(bp, bmi float64) float64 {
	return (bp * bmi) / 100
}
