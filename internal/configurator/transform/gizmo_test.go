package transform

import (
	"testing"

	"pv-configurator/internal/configurator/models"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestGizmoStateMachine(t *testing.T) {
	cfg := configWithTiles(t, r3.Vec{X: 1.0, Z: 2.0})
	g := NewGizmo(0.1, nil)

	if g.BeginDrag() {
		t.Fatal("drag without selection must not start")
	}
	if g.SetMode(ModeRotate) {
		t.Error("rotate must be refused without a tile selected")
	}

	if !g.Select(models.Selection{Kind: models.SelectTile, Index: 0}, cfg) {
		t.Fatal("Select() refused an existing tile")
	}
	if !g.SetMode(ModeRotate) {
		t.Fatal("rotate must be allowed for tiles")
	}
	if g.Mode() != ModeRotate {
		t.Errorf("expected rotate mode, got %s", g.Mode())
	}

	if _, ok := g.Drag(DragUpdate{YawDeg: 95}, cfg); ok {
		t.Error("drag update before BeginDrag must be a no-op")
	}

	if !g.BeginDrag() || !g.Dragging() {
		t.Fatal("expected dragging state")
	}
	next, ok := g.Drag(DragUpdate{Position: models.Vec3{4, 4, 4}, YawDeg: 95}, cfg)
	if !ok {
		t.Fatal("rotate drag not applied")
	}
	if next.Tiles[0].Orientation != models.OrientationLandscape {
		t.Errorf("expected landscape, got %d", next.Tiles[0].Orientation)
	}
	if next.Tiles[0].Position != cfg.Tiles[0].Position {
		t.Error("rotate drag moved the tile")
	}

	g.EndDrag()
	if g.Dragging() {
		t.Error("expected idle after EndDrag")
	}
}

func TestGizmoTranslateTile(t *testing.T) {
	cfg := configWithTiles(t, r3.Vec{X: 1.0, Z: 2.0})
	g := NewGizmo(0.1, nil)
	g.Select(models.Selection{Kind: models.SelectTile, Index: 0}, cfg)
	g.BeginDrag()

	next, ok := g.Drag(DragUpdate{Position: models.Vec3{2.04, 0, 2.96}}, cfg)
	if !ok {
		t.Fatal("translate drag not applied")
	}
	assertNear(t, "placementX", next.Tiles[0].PlacementX, 2.0, 1e-9)
	assertNear(t, "placementZ", next.Tiles[0].PlacementZ, 3.0, 1e-9)
}

func TestGizmoFixturesAreTranslateOnly(t *testing.T) {
	cfg := models.DefaultBuildingConfig()
	cfg.Tiles = configWithTiles(t, r3.Vec{X: 1.0, Z: 2.0}).Tiles
	g := NewGizmo(0.1, nil)

	g.Select(models.Selection{Kind: models.SelectTile, Index: 0}, cfg)
	g.SetMode(ModeRotate)

	g.Select(models.Selection{Kind: models.SelectChimney, Index: 0}, cfg)
	if g.Mode() != ModeTranslate {
		t.Errorf("chimney must be translate-only, got %s", g.Mode())
	}
	if g.SetMode(ModeRotate) {
		t.Error("rotate must be refused for chimneys")
	}

	g.BeginDrag()
	next, ok := g.Drag(DragUpdate{Position: models.Vec3{3.33, 5, 1.11}, YawDeg: 90}, cfg)
	if !ok {
		t.Fatal("chimney drag not applied")
	}
	if next.Chimneys[0].Position != (models.Vec3{3.33, 5, 1.11}) {
		t.Errorf("chimney position = %v", next.Chimneys[0].Position)
	}
}

func TestGizmoSelectionResetsMode(t *testing.T) {
	cfg := configWithTiles(t, r3.Vec{X: 1.0, Z: 2.0}, r3.Vec{X: 1.0, Z: 5.0})
	g := NewGizmo(0.1, nil)
	tile := models.Selection{Kind: models.SelectTile, Index: 0}

	g.Select(tile, cfg)
	g.SetMode(ModeRotate)
	g.Select(models.Selection{Kind: models.SelectChimney, Index: 0}, cfg)
	g.Select(tile, cfg)
	if g.Mode() != ModeTranslate {
		t.Errorf("reselecting a tile must start in translate, got %s", g.Mode())
	}

	g.SetMode(ModeRotate)
	g.Select(models.Selection{Kind: models.SelectTile, Index: 1}, cfg)
	if g.Mode() != ModeTranslate {
		t.Errorf("switching tiles must start in translate, got %s", g.Mode())
	}

	g.SetMode(ModeRotate)
	g.Deselect()
	g.Select(tile, cfg)
	if g.Mode() != ModeTranslate {
		t.Errorf("selection after Deselect must start in translate, got %s", g.Mode())
	}

	// отказ в выборе не трогает текущий режим
	g.SetMode(ModeRotate)
	if g.Select(models.Selection{Kind: models.SelectTile, Index: 9}, cfg) {
		t.Fatal("selection of a missing tile must be refused")
	}
	if g.Mode() != ModeRotate {
		t.Errorf("refused selection changed mode to %s", g.Mode())
	}
}

func TestGizmoDanglingSelection(t *testing.T) {
	cfg := configWithTiles(t, r3.Vec{X: 1.0, Z: 2.0})
	g := NewGizmo(0.1, nil)

	if g.Select(models.Selection{Kind: models.SelectTile, Index: 4}, cfg) {
		t.Error("selection of a missing tile must be refused")
	}
	if g.Select(models.Selection{Kind: "wing", Index: 0}, cfg) {
		t.Error("selection of an unknown kind must be refused")
	}

	g.Select(models.Selection{Kind: models.SelectTile, Index: 0}, cfg)
	g.BeginDrag()

	// модуль удалён, пока гизмо держит ссылку
	emptied, _ := DeleteTile(cfg, 0)
	next, ok := g.Drag(DragUpdate{Position: models.Vec3{2, 0, 2}}, emptied)
	if ok {
		t.Error("drag on a dangling selection must be a no-op")
	}
	if len(next.Tiles) != 0 {
		t.Error("no-op drag must return the config unchanged")
	}

	g.Deselect()
	if !g.Selection().IsNone() || g.Dragging() {
		t.Error("Deselect must clear selection and drag state")
	}
}
