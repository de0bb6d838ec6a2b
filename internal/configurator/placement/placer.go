// Package placement ставит модули на крышу: привязка к сетке, проверка
// пересечений и сборка нового модуля с выведенной позой.
package placement

import (
	"errors"

	"pv-configurator/internal/configurator/geometry"
	"pv-configurator/internal/configurator/models"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Причины отказа в размещении. Конфигурация при отказе не меняется.
var (
	ErrNoFace  = errors.New("point is not on a roof face")
	ErrOverlap = errors.New("tile overlaps an existing tile")
)

// Rules - сетка и каталожные размеры модуля.
type Rules struct {
	GridSize   float64
	MinSpacing float64
	TileWidth  float64
	TileDepth  float64
}

func DefaultRules() Rules {
	return Rules{GridSize: 0.1, MinSpacing: 0.1, TileWidth: 1.0, TileDepth: 1.7}
}

// ============================================================
// Placer
// ============================================================

type Placer struct {
	rules Rules
	log   *zap.Logger
}

func NewPlacer(rules Rules, log *zap.Logger) *Placer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Placer{rules: rules, log: log}
}

func (p *Placer) Rules() Rules {
	return p.rules
}

// PlaceTile ставит модуль по мировой точке попадания луча в крышу.
// Возвращает новую конфигурацию с добавленным модулем; при отказе:
// исходную конфигурацию и ErrNoFace/ErrOverlap.
func (p *Placer) PlaceTile(hit r3.Vec, cfg models.BuildingConfig) (models.BuildingConfig, models.PVTileConfig, error) {
	local := geometry.ToBuildingLocal(hit, cfg.Base)

	frame, ok := geometry.Classify(local, cfg.Base)
	if !ok {
		p.log.Debug("placement rejected: no roof face",
			zap.Float64("x", local.X), zap.Float64("y", local.Y), zap.Float64("z", local.Z))
		return cfg, models.PVTileConfig{}, ErrNoFace
	}

	return p.place(frame, local, cfg)
}

// PlaceOnFace ставит модуль на заданную грань по точке в координатах здания.
// Точка вне проекции грани на план - ErrNoFace.
func (p *Placer) PlaceOnFace(local r3.Vec, face models.RoofFace, cfg models.BuildingConfig) (models.BuildingConfig, models.PVTileConfig, error) {
	frame, ok := geometry.FrameFor(face, cfg.Base)
	if !ok {
		p.log.Debug("placement rejected: unknown face", zap.String("face", string(face)))
		return cfg, models.PVTileConfig{}, ErrNoFace
	}
	if x, z := frame.ToLocal(local); !frame.OnFootprint(x, z) {
		p.log.Debug("placement rejected: point off face",
			zap.String("face", string(face)), zap.Float64("x", x), zap.Float64("z", z))
		return cfg, models.PVTileConfig{}, ErrNoFace
	}
	return p.place(frame, local, cfg)
}

func (p *Placer) place(frame geometry.Frame, local r3.Vec, cfg models.BuildingConfig) (models.BuildingConfig, models.PVTileConfig, error) {
	x, z := frame.ToLocal(local)

	candidate := models.PVTileConfig{
		RoofFace:    frame.Face(),
		Width:       p.rules.TileWidth,
		Depth:       p.rules.TileDepth,
		PlacementX:  Snap(x, p.rules.GridSize),
		PlacementZ:  Snap(z, p.rules.GridSize),
		Orientation: models.OrientationPortrait,
	}
	candidate, _ = geometry.Pose(candidate, cfg.Base)

	if Overlaps(candidate, cfg.Tiles, p.rules.MinSpacing) {
		p.log.Debug("placement rejected: overlap",
			zap.String("face", string(candidate.RoofFace)),
			zap.Float64("placementX", candidate.PlacementX),
			zap.Float64("placementZ", candidate.PlacementZ))
		return cfg, models.PVTileConfig{}, ErrOverlap
	}

	next := cfg.Clone()
	next.Tiles = append(next.Tiles, candidate)

	p.log.Debug("tile placed",
		zap.String("face", string(candidate.RoofFace)),
		zap.Float64("placementX", candidate.PlacementX),
		zap.Float64("placementZ", candidate.PlacementZ),
		zap.Int("tiles", len(next.Tiles)))
	return next, candidate, nil
}
