// Package geometry описывает двускатную крышу: высоту поверхности каждой грани,
// принадлежность точки грани и поворот модуля, лежащего на скате.
package geometry

import (
	"math"

	"pv-configurator/internal/configurator/models"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// ZFightOffset поднимает модуль над плоскостью крыши.
	ZFightOffset = 0.02
	// FaceTolerance - полуширина полосы вокруг плоскости грани.
	FaceTolerance = 0.2
	// roofBandMargin расширяет вертикальную полосу над коньком.
	roofBandMargin = 1.0
)

// ============================================================
// Face frames
// ============================================================

// Frame - локальная система координат одной грани крыши.
type Frame interface {
	Face() models.RoofFace
	// ToLocal переводит точку в координатах здания в координаты размещения (x, z).
	ToLocal(p r3.Vec) (x, z float64)
	// HeightAt - высота поверхности грани без ZFightOffset.
	HeightAt(x, z float64) float64
	// Contains - лежит ли точка в полосе допуска грани.
	Contains(p r3.Vec) bool
	// OnFootprint - попадает ли (x, z) в проекцию грани на план здания.
	OnFootprint(x, z float64) bool
	// Rotation - Euler-углы, укладывающие модуль на скат.
	Rotation() models.Vec3
}

// FrameFor возвращает систему координат грани. ok=false для неизвестной грани.
func FrameFor(face models.RoofFace, base models.BuildingBase) (Frame, bool) {
	f := frame{base: base}
	switch face {
	case models.FaceFront:
		return frontFrame{f}, true
	case models.FaceBack:
		return backFrame{f}, true
	case models.FaceLeft:
		return leftFrame{f}, true
	case models.FaceRight:
		return rightFrame{f}, true
	}
	return nil, false
}

type frame struct {
	base models.BuildingBase
}

func (f frame) ToLocal(p r3.Vec) (x, z float64) {
	return p.X, p.Z
}

func (f frame) slope() float64 {
	return Slope(f.base.RoofAngle)
}

func (f frame) angle() float64 {
	return f.base.RoofAngle * math.Pi / 180
}

// inBand проверяет вертикальный диапазон (карниз, конёк + запас).
func (f frame) inBand(y float64) bool {
	return y > f.base.Height && y < f.base.Height+RoofHeight(f.base)+roofBandMargin
}

func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func near(v, plane float64) bool {
	return math.Abs(v-plane) <= FaceTolerance
}

// Торцы: высоту задаёт ближайший скат.
type frontFrame struct{ frame }

func (f frontFrame) Face() models.RoofFace { return models.FaceFront }

func (f frontFrame) HeightAt(x, _ float64) float64 {
	return f.base.Height + f.slope()*math.Min(x, f.base.Width-x)
}

func (f frontFrame) Contains(p r3.Vec) bool {
	return near(p.Z, 0) && f.inBand(p.Y)
}

func (f frontFrame) OnFootprint(x, z float64) bool {
	return near(z, 0) && within(x, 0, f.base.Width)
}

func (f frontFrame) Rotation() models.Vec3 { return models.Vec3{f.angle(), 0, 0} }

type backFrame struct{ frame }

func (f backFrame) Face() models.RoofFace { return models.FaceBack }

func (f backFrame) HeightAt(x, _ float64) float64 {
	return f.base.Height + f.slope()*math.Min(x, f.base.Width-x)
}

func (f backFrame) Contains(p r3.Vec) bool {
	return near(p.Z, f.base.Depth) && f.inBand(p.Y)
}

func (f backFrame) OnFootprint(x, z float64) bool {
	return near(z, f.base.Depth) && within(x, 0, f.base.Width)
}

func (f backFrame) Rotation() models.Vec3 { return models.Vec3{-f.angle(), 0, 0} }

type leftFrame struct{ frame }

func (f leftFrame) Face() models.RoofFace { return models.FaceLeft }

func (f leftFrame) HeightAt(x, _ float64) float64 {
	return f.base.Height + f.slope()*x
}

func (f leftFrame) Contains(p r3.Vec) bool {
	return near(p.X, 0) && f.inBand(p.Y)
}

// Скаты делят план по коньку x = w/2.
func (f leftFrame) OnFootprint(x, z float64) bool {
	return within(x, 0, f.base.Width/2) && within(z, 0, f.base.Depth)
}

func (f leftFrame) Rotation() models.Vec3 { return models.Vec3{0, 0, f.angle()} }

type rightFrame struct{ frame }

func (f rightFrame) Face() models.RoofFace { return models.FaceRight }

func (f rightFrame) HeightAt(x, _ float64) float64 {
	return f.base.Height + f.slope()*(f.base.Width-x)
}

func (f rightFrame) Contains(p r3.Vec) bool {
	return near(p.X, f.base.Width) && f.inBand(p.Y)
}

func (f rightFrame) OnFootprint(x, z float64) bool {
	return within(x, f.base.Width/2, f.base.Width) && within(z, 0, f.base.Depth)
}

func (f rightFrame) Rotation() models.Vec3 { return models.Vec3{0, 0, -f.angle()} }
