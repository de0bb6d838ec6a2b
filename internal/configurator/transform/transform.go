// Package transform пересчитывает модули и фикстуры при перетаскивании гизмо
// и при изменении геометрии здания.
package transform

import (
	"math"

	"pv-configurator/internal/configurator/geometry"
	"pv-configurator/internal/configurator/models"
	"pv-configurator/internal/configurator/placement"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	MinRoofAngle     = 0
	MaxRoofAngle     = 45
	MinBaseDimension = 1
)

// ============================================================
// Tile drag
// ============================================================

// TranslateTile привязывает живую позицию модуля к сетке и пересчитывает высоту
// по текущей грани и углу крыши. Ориентация не меняется.
func TranslateTile(cfg models.BuildingConfig, index int, live r3.Vec, gridSize float64) (models.BuildingConfig, bool) {
	if index < 0 || index >= len(cfg.Tiles) {
		return cfg, false
	}

	tile := cfg.Tiles[index]
	tile.PlacementX = placement.Snap(live.X, gridSize)
	tile.PlacementZ = placement.Snap(live.Z, gridSize)

	posed, ok := geometry.Pose(tile, cfg.Base)
	if !ok {
		return cfg, false
	}

	next := cfg.Clone()
	next.Tiles[index] = posed
	return next, true
}

// SnapYaw округляет рыскание (градусы) до ближайшего кратного 90.
func SnapYaw(yawDeg float64) float64 {
	return math.Round(yawDeg/90) * 90
}

// OrientationForYaw: 0 и 180 - портрет, 90 и 270 - альбом.
func OrientationForYaw(yawDeg float64) int {
	if math.Mod(SnapYaw(yawDeg), 180) == 0 {
		return models.OrientationPortrait
	}
	return models.OrientationLandscape
}

// RotateTile меняет только ориентацию; позиция и координаты размещения остаются.
func RotateTile(cfg models.BuildingConfig, index int, yawDeg float64) (models.BuildingConfig, bool) {
	if index < 0 || index >= len(cfg.Tiles) {
		return cfg, false
	}

	next := cfg.Clone()
	next.Tiles[index].Orientation = OrientationForYaw(yawDeg)
	return next, true
}

// ============================================================
// Fixture drag
// ============================================================

// TranslateFixture записывает живую позицию трубы или мансарды как есть.
func TranslateFixture(cfg models.BuildingConfig, sel models.Selection, live r3.Vec) (models.BuildingConfig, bool) {
	if !sel.Resolves(cfg) {
		return cfg, false
	}

	next := cfg.Clone()
	switch sel.Kind {
	case models.SelectChimney:
		next.Chimneys[sel.Index].Position = models.FromR3(live)
	case models.SelectDormer:
		next.Dormers[sel.Index].Position = models.FromR3(live)
	default:
		return cfg, false
	}
	return next, true
}

// ============================================================
// Geometry changes
// ============================================================

// RecomputeAll выводит Position/Rotation каждого модуля заново из его
// PlacementX/PlacementZ. Сами координаты размещения не трогаются.
func RecomputeAll(tiles []models.PVTileConfig, base models.BuildingBase) []models.PVTileConfig {
	out := make([]models.PVTileConfig, len(tiles))
	for i, tile := range tiles {
		if posed, ok := geometry.Pose(tile, base); ok {
			out[i] = posed
			continue
		}
		out[i] = tile
	}
	return out
}

// SetRoofAngle меняет угол крыши (0..45) и пересчитывает все модули.
func SetRoofAngle(cfg models.BuildingConfig, angle float64) models.BuildingConfig {
	base := cfg.Base
	base.RoofAngle = math.Max(MinRoofAngle, math.Min(MaxRoofAngle, angle))
	return withBase(cfg, base)
}

// BaseUpdate - частичное изменение основы здания; nil-поля не меняются.
type BaseUpdate struct {
	Width     *float64 `json:"width,omitempty"`
	Depth     *float64 `json:"depth,omitempty"`
	Height    *float64 `json:"height,omitempty"`
	RoofAngle *float64 `json:"roofAngle,omitempty"`
}

// UpdateBase применяет изменения размеров (не меньше 1 м) и угла крыши.
func UpdateBase(cfg models.BuildingConfig, upd BaseUpdate) models.BuildingConfig {
	base := cfg.Base
	if upd.Width != nil {
		base.Width = math.Max(MinBaseDimension, *upd.Width)
	}
	if upd.Depth != nil {
		base.Depth = math.Max(MinBaseDimension, *upd.Depth)
	}
	if upd.Height != nil {
		base.Height = math.Max(MinBaseDimension, *upd.Height)
	}
	if upd.RoofAngle != nil {
		base.RoofAngle = math.Max(MinRoofAngle, math.Min(MaxRoofAngle, *upd.RoofAngle))
	}
	return withBase(cfg, base)
}

func withBase(cfg models.BuildingConfig, base models.BuildingBase) models.BuildingConfig {
	next := cfg.Clone()
	next.Base = base
	next.Tiles = RecomputeAll(cfg.Tiles, base)
	return next
}

// DeleteTile удаляет модуль по индексу.
func DeleteTile(cfg models.BuildingConfig, index int) (models.BuildingConfig, bool) {
	if index < 0 || index >= len(cfg.Tiles) {
		return cfg, false
	}

	next := cfg.Clone()
	next.Tiles = append(next.Tiles[:index], next.Tiles[index+1:]...)
	return next, true
}
