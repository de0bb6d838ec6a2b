package placement

import (
	"math"

	"pv-configurator/internal/configurator/models"
)

// ============================================================
// Overlap check
// ============================================================

// Overlaps сообщает, пересекается ли кандидат хотя бы с одним модулем на той же грани.
func Overlaps(candidate models.PVTileConfig, existing []models.PVTileConfig, minSpacing float64) bool {
	for _, tile := range existing {
		if TilesOverlap(candidate, tile, minSpacing) {
			return true
		}
	}
	return false
}

// TilesOverlap сравнивает два модуля как прямоугольники в координатах грани,
// центрированные в (PlacementX, PlacementZ). Между краями должен оставаться
// зазор minSpacing. Модули на разных гранях не конфликтуют.
func TilesOverlap(a, b models.PVTileConfig, minSpacing float64) bool {
	if a.RoofFace != b.RoofFace {
		return false
	}

	aw, ad := a.Footprint()
	bw, bd := b.Footprint()

	dx := math.Abs(a.PlacementX - b.PlacementX)
	dz := math.Abs(a.PlacementZ - b.PlacementZ)

	return dx < aw/2+bw/2+minSpacing && dz < ad/2+bd/2+minSpacing
}
