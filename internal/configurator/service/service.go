package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pv-configurator/internal/configurator/models"
	"pv-configurator/internal/configurator/placement"
	"pv-configurator/internal/configurator/repository"
	"pv-configurator/internal/configurator/transform"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrProjectNotFound = errors.New("project not found")

// Store - хранилище конфигураций проектов.
type Store interface {
	Create(ctx context.Context, p *models.Project) error
	Get(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id string) error
}

// PlacementResult - итог попытки поставить модуль. Отказ не является ошибкой.
type PlacementResult struct {
	Project *models.Project      `json:"project"`
	Placed  bool                 `json:"placed"`
	Tile    *models.PVTileConfig `json:"tile,omitempty"`
	Reason  string               `json:"reason,omitempty"`
}

// GizmoState - снимок состояния взаимодействия для клиента.
type GizmoState struct {
	Selection *models.Selection `json:"selection"`
	Mode      transform.Mode    `json:"mode"`
	Dragging  bool              `json:"dragging"`
}

// ============================================================
// Configuration Store Service
// ============================================================

// Service владеет конфигурациями зданий. Каждая операция выполняется под
// мьютексом: чтение, пересчёт и запись одного взаимодействия не перемежаются
// с другими.
type Service struct {
	mu       sync.Mutex
	store    Store
	placer   *placement.Placer
	sessions *SessionManager
	log      *zap.Logger
	now      func() time.Time
}

func New(store Store, placer *placement.Placer, sessions *SessionManager, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		placer:   placer,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

// ============================================================
// Projects
// ============================================================

func (s *Service) Create(ctx context.Context, name string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled building"
	}

	p := &models.Project{
		ID:        uuid.NewString(),
		Name:      name,
		Config:    models.DefaultBuildingConfig(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.log.Info("project created", zap.String("project", p.ID))
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return mapNotFound(err, id)
	}
	s.sessions.Drop(id)

	s.log.Info("project deleted", zap.String("project", id))
	return nil
}

// ============================================================
// Building geometry
// ============================================================

// UpdateBase меняет размеры или угол крыши и пересчитывает все модули.
func (s *Service) UpdateBase(ctx context.Context, id string, upd transform.BaseUpdate) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Config = transform.UpdateBase(p.Config, upd)
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}

	s.log.Debug("base updated",
		zap.String("project", id),
		zap.Float64("roofAngle", p.Config.Base.RoofAngle),
		zap.Int("tiles", len(p.Config.Tiles)))
	return p, nil
}

// ============================================================
// Tiles
// ============================================================

// PlaceTile ставит модуль по мировой точке попадания луча.
func (s *Service) PlaceTile(ctx context.Context, id string, hit r3.Vec) (*PlacementResult, error) {
	return s.placeWith(ctx, id, func(cfg models.BuildingConfig) (models.BuildingConfig, models.PVTileConfig, error) {
		return s.placer.PlaceTile(hit, cfg)
	})
}

// PlaceOnFace ставит модуль на явно заданную грань по точке в координатах здания.
func (s *Service) PlaceOnFace(ctx context.Context, id string, local r3.Vec, face models.RoofFace) (*PlacementResult, error) {
	return s.placeWith(ctx, id, func(cfg models.BuildingConfig) (models.BuildingConfig, models.PVTileConfig, error) {
		return s.placer.PlaceOnFace(local, face, cfg)
	})
}

type placeFunc func(cfg models.BuildingConfig) (models.BuildingConfig, models.PVTileConfig, error)

func (s *Service) placeWith(ctx context.Context, id string, place placeFunc) (*PlacementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	next, tile, err := place(p.Config)
	switch {
	case errors.Is(err, placement.ErrNoFace):
		return &PlacementResult{Project: p, Reason: "no_face"}, nil
	case errors.Is(err, placement.ErrOverlap):
		return &PlacementResult{Project: p, Reason: "overlap"}, nil
	case err != nil:
		return nil, err
	}

	p.Config = next
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return &PlacementResult{Project: p, Placed: true, Tile: &tile}, nil
}

// DeleteTile удаляет модуль по индексу и снимает выбор в гизмо.
// false - индекса нет, конфигурация не изменилась.
func (s *Service) DeleteTile(ctx context.Context, id string, index int) (*models.Project, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}

	next, ok := transform.DeleteTile(p.Config, index)
	if !ok {
		return p, false, nil
	}

	p.Config = next
	if err := s.save(ctx, p); err != nil {
		return nil, false, err
	}

	// индексы после удалённого сдвинулись
	s.sessions.Gizmo(id).Deselect()
	return p, true, nil
}

// ============================================================
// Gizmo
// ============================================================

func (s *Service) Gizmo(ctx context.Context, id string) (GizmoState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(ctx, id); err != nil {
		return GizmoState{}, err
	}
	return s.gizmoState(id), nil
}

// Select выбирает объект. false - ссылка ни на что не указывает.
func (s *Service) Select(ctx context.Context, id string, sel models.Selection) (GizmoState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return GizmoState{}, false, err
	}

	ok := s.sessions.Gizmo(id).Select(sel, p.Config)
	return s.gizmoState(id), ok, nil
}

func (s *Service) Deselect(ctx context.Context, id string) (GizmoState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(ctx, id); err != nil {
		return GizmoState{}, err
	}
	s.sessions.Gizmo(id).Deselect()
	return s.gizmoState(id), nil
}

func (s *Service) SetMode(ctx context.Context, id string, mode transform.Mode) (GizmoState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(ctx, id); err != nil {
		return GizmoState{}, false, err
	}
	ok := s.sessions.Gizmo(id).SetMode(mode)
	return s.gizmoState(id), ok, nil
}

func (s *Service) BeginDrag(ctx context.Context, id string) (GizmoState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(ctx, id); err != nil {
		return GizmoState{}, false, err
	}
	ok := s.sessions.Gizmo(id).BeginDrag()
	return s.gizmoState(id), ok, nil
}

// Drag применяет одно событие перетаскивания. false - no-op.
func (s *Service) Drag(ctx context.Context, id string, upd transform.DragUpdate) (*models.Project, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}

	next, ok := s.sessions.Gizmo(id).Drag(upd, p.Config)
	if !ok {
		return p, false, nil
	}

	p.Config = next
	if err := s.save(ctx, p); err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *Service) EndDrag(ctx context.Context, id string) (GizmoState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(ctx, id); err != nil {
		return GizmoState{}, err
	}
	s.sessions.Gizmo(id).EndDrag()
	return s.gizmoState(id), nil
}

// ============================================================
// Helpers
// ============================================================

func (s *Service) gizmoState(id string) GizmoState {
	g := s.sessions.Gizmo(id)
	state := GizmoState{Mode: g.Mode(), Dragging: g.Dragging()}
	if sel := g.Selection(); !sel.IsNone() {
		state.Selection = &sel
	}
	return state
}

func (s *Service) load(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, id)
	}
	return p, nil
}

func (s *Service) save(ctx context.Context, p *models.Project) error {
	p.UpdatedAt = s.now().UTC()
	if err := s.store.Update(ctx, p); err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, mapNotFound(err, p.ID))
	}
	return nil
}

func mapNotFound(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return err
}
