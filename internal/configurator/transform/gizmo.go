package transform

import (
	"pv-configurator/internal/configurator/models"

	"go.uber.org/zap"
)

// ============================================================
// Gizmo
// ============================================================

type Mode string

const (
	ModeTranslate Mode = "translate"
	ModeRotate    Mode = "rotate"
)

func (m Mode) Valid() bool {
	return m == ModeTranslate || m == ModeRotate
}

// DragUpdate - одно событие перетаскивания: живая позиция объекта
// в координатах здания и его рыскание в градусах.
type DragUpdate struct {
	Position models.Vec3 `json:"position"`
	YawDeg   float64     `json:"yawDeg"`
}

// Gizmo - состояние взаимодействия: Idle → Dragging(mode) → Idle.
// Доменные данные здесь не хранятся, только выбор и режим.
type Gizmo struct {
	selection models.Selection
	mode      Mode
	dragging  bool
	gridSize  float64
	log       *zap.Logger
}

func NewGizmo(gridSize float64, log *zap.Logger) *Gizmo {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gizmo{mode: ModeTranslate, gridSize: gridSize, log: log}
}

func (g *Gizmo) Selection() models.Selection { return g.selection }

func (g *Gizmo) Dragging() bool { return g.dragging }

// Mode - действующий режим. Поворот доступен только для модулей.
func (g *Gizmo) Mode() Mode {
	if g.selection.Kind != models.SelectTile {
		return ModeTranslate
	}
	return g.mode
}

// Select выбирает объект и возвращает режим переноса. Ссылка на
// несуществующий объект игнорируется.
func (g *Gizmo) Select(sel models.Selection, cfg models.BuildingConfig) bool {
	if !sel.Resolves(cfg) {
		return false
	}
	g.selection = sel
	g.mode = ModeTranslate
	g.dragging = false
	return true
}

// Deselect сбрасывает выбор (Escape, удаление).
func (g *Gizmo) Deselect() {
	g.selection = models.Selection{}
	g.mode = ModeTranslate
	g.dragging = false
}

// SetMode переключает режим. Для труб и мансард разрешён только перенос.
func (g *Gizmo) SetMode(m Mode) bool {
	if !m.Valid() {
		return false
	}
	if m == ModeRotate && g.selection.Kind != models.SelectTile {
		return false
	}
	g.mode = m
	return true
}

func (g *Gizmo) BeginDrag() bool {
	if g.selection.IsNone() {
		return false
	}
	g.dragging = true
	return true
}

func (g *Gizmo) EndDrag() {
	g.dragging = false
}

// Drag применяет одно событие перетаскивания к конфигурации.
// Без активного перетаскивания или при висячей ссылке - no-op.
func (g *Gizmo) Drag(upd DragUpdate, cfg models.BuildingConfig) (models.BuildingConfig, bool) {
	if !g.dragging || !g.selection.Resolves(cfg) {
		g.log.Debug("drag ignored",
			zap.Bool("dragging", g.dragging),
			zap.String("kind", string(g.selection.Kind)),
			zap.Int("index", g.selection.Index))
		return cfg, false
	}

	sel := g.selection
	if sel.Kind != models.SelectTile {
		return TranslateFixture(cfg, sel, upd.Position.R3())
	}

	if g.Mode() == ModeRotate {
		return RotateTile(cfg, sel.Index, upd.YawDeg)
	}
	return TranslateTile(cfg, sel.Index, upd.Position.R3(), g.gridSize)
}
