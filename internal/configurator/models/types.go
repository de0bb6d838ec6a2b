package models

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// ============================================================
// Geometry primitives
// ============================================================

// Vec3 - тройка [x, y, z] в метрах (или радианах для Euler-углов).
type Vec3 [3]float64

func (v Vec3) R3() r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func FromR3(v r3.Vec) Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// ============================================================
// Building
// ============================================================

// BuildingBase - основной объём здания с двускатной крышей.
// Конёк идёт вдоль оси глубины по середине ширины.
type BuildingBase struct {
	Width     float64 `json:"width"`
	Depth     float64 `json:"depth"`
	Height    float64 `json:"height"`
	RoofAngle float64 `json:"roofAngle"` // градусы, 0..45
}

type RoofFace string

const (
	FaceFront RoofFace = "front"
	FaceBack  RoofFace = "back"
	FaceLeft  RoofFace = "left"
	FaceRight RoofFace = "right"
)

// Faces - порядок проверки граней при классификации точки.
var Faces = []RoofFace{FaceFront, FaceBack, FaceLeft, FaceRight}

func (f RoofFace) Valid() bool {
	switch f {
	case FaceFront, FaceBack, FaceLeft, FaceRight:
		return true
	}
	return false
}

// Ориентация модуля относительно нормали грани.
const (
	OrientationPortrait  = 0
	OrientationLandscape = 90
)

// PVTileConfig - солнечный модуль на крыше.
//
// PlacementX/PlacementZ - канонические координаты, привязанные к сетке и не
// зависящие от угла крыши. Position и Rotation - производные, их пересчитывает
// geometry.Pose.
type PVTileConfig struct {
	RoofFace    RoofFace `json:"roofFace"`
	Width       float64  `json:"width"`
	Depth       float64  `json:"depth"`
	PlacementX  float64  `json:"placementX"`
	PlacementZ  float64  `json:"placementZ"`
	Position    Vec3     `json:"position"`
	Rotation    Vec3     `json:"rotation"`
	Orientation int      `json:"orientation"`
}

// Footprint возвращает размеры модуля по осям грани с учётом ориентации.
func (t PVTileConfig) Footprint() (width, depth float64) {
	if t.Orientation == OrientationLandscape {
		return t.Depth, t.Width
	}
	return t.Width, t.Depth
}

type ChimneyConfig struct {
	Position Vec3    `json:"position"`
	Width    float64 `json:"width"`
	Depth    float64 `json:"depth"`
	Height   float64 `json:"height"`
}

type DormerConfig struct {
	Position Vec3    `json:"position"`
	Width    float64 `json:"width"`
	Depth    float64 `json:"depth"`
	Height   float64 `json:"height"`
}

type BuildingConfig struct {
	Base     BuildingBase    `json:"base"`
	Chimneys []ChimneyConfig `json:"chimneys"`
	Dormers  []DormerConfig  `json:"dormers"`
	Tiles    []PVTileConfig  `json:"tiles"`
}

// Clone возвращает копию с собственными слайсами.
func (c BuildingConfig) Clone() BuildingConfig {
	out := c
	out.Chimneys = append([]ChimneyConfig{}, c.Chimneys...)
	out.Dormers = append([]DormerConfig{}, c.Dormers...)
	out.Tiles = append([]PVTileConfig{}, c.Tiles...)
	return out
}

// DefaultBuildingConfig - стартовая конфигурация конфигуратора.
func DefaultBuildingConfig() BuildingConfig {
	return BuildingConfig{
		Base: BuildingBase{Width: 10, Depth: 8, Height: 5, RoofAngle: 25},
		Chimneys: []ChimneyConfig{
			{Position: Vec3{2, 5, 1.5}, Width: 0.8, Depth: 0.8, Height: 1.5},
		},
		Dormers: []DormerConfig{
			{Position: Vec3{3, 5.5, 1.5}, Width: 1.8, Depth: 1.5, Height: 1.3},
			{Position: Vec3{7, 5.5, 1.5}, Width: 1.8, Depth: 1.5, Height: 1.3},
		},
		Tiles: []PVTileConfig{},
	}
}

// ============================================================
// Selection
// ============================================================

type SelectionKind string

const (
	SelectTile    SelectionKind = "tile"
	SelectChimney SelectionKind = "chimney"
	SelectDormer  SelectionKind = "dormer"
)

// Selection ссылается на объект конфигурации по типу и индексу.
// Нулевое значение - ничего не выбрано.
type Selection struct {
	Kind  SelectionKind `json:"kind"`
	Index int           `json:"index"`
}

func (s Selection) IsNone() bool {
	return s.Kind == ""
}

// Resolves проверяет, что выбор указывает на существующий объект.
func (s Selection) Resolves(cfg BuildingConfig) bool {
	if s.Index < 0 {
		return false
	}
	switch s.Kind {
	case SelectTile:
		return s.Index < len(cfg.Tiles)
	case SelectChimney:
		return s.Index < len(cfg.Chimneys)
	case SelectDormer:
		return s.Index < len(cfg.Dormers)
	}
	return false
}

// ============================================================
// Project
// ============================================================

type Project struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Config    BuildingConfig `json:"config"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
