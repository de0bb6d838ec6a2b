package geometry

import (
	"math"

	"pv-configurator/internal/configurator/models"

	"gonum.org/v1/gonum/spatial/r3"
)

// Slope - tan угла крыши в градусах.
func Slope(roofAngle float64) float64 {
	return math.Tan(roofAngle * math.Pi / 180)
}

// RoofHeight - высота конька над карнизом.
func RoofHeight(base models.BuildingBase) float64 {
	return Slope(base.RoofAngle) * base.Width / 2
}

// RenderOffset - смещение группы здания в сцене: здание центрировано по X и Z.
func RenderOffset(base models.BuildingBase) r3.Vec {
	return r3.Vec{X: -base.Width / 2, Y: 0, Z: -base.Depth / 2}
}

// ToBuildingLocal переводит мировую точку попадания в координаты здания
// (начало - нижний передний левый угол).
func ToBuildingLocal(world r3.Vec, base models.BuildingBase) r3.Vec {
	return r3.Sub(world, RenderOffset(base))
}

// SurfaceY - высота модуля над точкой (x, z) грани, включая ZFightOffset.
func SurfaceY(x, z float64, face models.RoofFace, base models.BuildingBase) (float64, bool) {
	f, ok := FrameFor(face, base)
	if !ok {
		return 0, false
	}
	return f.HeightAt(x, z) + ZFightOffset, true
}

// IsOnFace проверяет точку (в координатах здания) против одной грани.
func IsOnFace(p r3.Vec, face models.RoofFace, base models.BuildingBase) bool {
	f, ok := FrameFor(face, base)
	return ok && f.Contains(p)
}

// Classify возвращает первую подходящую грань в порядке models.Faces.
// Это приближение: у рёбер и конька точка может подходить нескольким граням.
func Classify(p r3.Vec, base models.BuildingBase) (Frame, bool) {
	for _, face := range models.Faces {
		f, _ := FrameFor(face, base)
		if f.Contains(p) {
			return f, true
		}
	}
	return nil, false
}

// RotationForFace - Euler-углы модуля на грани. Знаки кодируют наклон грани.
func RotationForFace(face models.RoofFace, roofAngle float64) models.Vec3 {
	f, ok := FrameFor(face, models.BuildingBase{RoofAngle: roofAngle})
	if !ok {
		return models.Vec3{}
	}
	return f.Rotation()
}

// Pose пересчитывает Position и Rotation модуля из PlacementX/PlacementZ.
// Единственное место, где выводятся эти поля.
func Pose(tile models.PVTileConfig, base models.BuildingBase) (models.PVTileConfig, bool) {
	f, ok := FrameFor(tile.RoofFace, base)
	if !ok {
		return tile, false
	}
	x, z := tile.PlacementX, tile.PlacementZ
	tile.Position = models.Vec3{x, f.HeightAt(x, z) + ZFightOffset, z}
	tile.Rotation = f.Rotation()
	return tile, true
}
