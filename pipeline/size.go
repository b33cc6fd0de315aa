package pipeline

import "math"

// TargetSize scales (width, height) down so that height does not exceed maxHeight.
// The width follows the same ratio, rounded to the nearest pixel. Images that
// already fit are returned unchanged; nothing is ever scaled up.
func TargetSize(width, height, maxHeight int) (int, int) {
	if height <= maxHeight || height <= 0 {
		return width, height
	}
	w := int(math.Round(float64(width) * float64(maxHeight) / float64(height)))
	if w < 1 {
		w = 1
	}
	return w, maxHeight
}
