package placement

import "math"

// Snap округляет значение до ближайшего узла сетки. Повторный вызов ничего не меняет.
func Snap(v, gridSize float64) float64 {
	if gridSize <= 0 {
		return v
	}
	return math.Round(v/gridSize) * gridSize
}
