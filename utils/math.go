package utils

// ClampF64 restricts num to [min, max].
func ClampF64(num, min, max float64) float64 {
	if num <= min {
		return min
	}
	if num >= max {
		return max
	}
	return num
}

// ClampInt restricts num to [min, max].
func ClampInt(num, min, max int) int {
	if num <= min {
		return min
	}
	if num >= max {
		return max
	}
	return num
}
