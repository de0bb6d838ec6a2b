package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pv-configurator/internal/configurator/models"
	"pv-configurator/internal/configurator/service"
	"pv-configurator/internal/configurator/transform"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Project Handler
// ============================================================

type ProjectHandler struct {
	svc *service.Service
	log *zap.Logger
}

func NewProjectHandler(svc *service.Service, log *zap.Logger) *ProjectHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectHandler{svc: svc, log: log}
}

// Register монтирует маршруты проектов на роутер.
func (h *ProjectHandler) Register(r fiber.Router) {
	r.Get("/projects", h.List)
	r.Post("/projects", h.Create)
	r.Get("/projects/:id", h.Get)
	r.Delete("/projects/:id", h.Delete)

	r.Put("/projects/:id/base", h.UpdateBase)

	r.Post("/projects/:id/tiles", h.PlaceTile)
	r.Delete("/projects/:id/tiles/:index", h.DeleteTile)

	r.Get("/projects/:id/gizmo", h.Gizmo)
	r.Put("/projects/:id/selection", h.Select)
	r.Delete("/projects/:id/selection", h.Deselect)
	r.Put("/projects/:id/gizmo/mode", h.SetMode)
	r.Post("/projects/:id/gizmo/begin", h.BeginDrag)
	r.Post("/projects/:id/gizmo/drag", h.Drag)
	r.Post("/projects/:id/gizmo/end", h.EndDrag)
}

type createRequest struct {
	Name string `json:"name"`
}

// placeRequest - точка попадания луча. Без face точка мировая и грань
// определяется классификацией; с face точка в координатах здания.
type placeRequest struct {
	Point models.Vec3     `json:"point"`
	Face  models.RoofFace `json:"face,omitempty"`
}

type modeRequest struct {
	Mode transform.Mode `json:"mode"`
}

type dragResponse struct {
	Applied bool            `json:"applied"`
	Project *models.Project `json:"project"`
}

type tileDeleteResponse struct {
	Deleted bool            `json:"deleted"`
	Project *models.Project `json:"project"`
}

// ============================================================
// Projects
// ============================================================

func (h *ProjectHandler) List(c fiber.Ctx) error {
	projects, err := h.svc.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return c.JSON(projects)
}

func (h *ProjectHandler) Create(c fiber.Ctx) error {
	var req createRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}

	p, err := h.svc.Create(c.Context(), req.Name)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(p)
}

func (h *ProjectHandler) Get(c fiber.Ctx) error {
	p, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

func (h *ProjectHandler) Delete(c fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// UpdateBase принимает частичное обновление размеров и угла крыши.
func (h *ProjectHandler) UpdateBase(c fiber.Ctx) error {
	var upd transform.BaseUpdate
	if err := json.Unmarshal(c.Body(), &upd); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	p, err := h.svc.UpdateBase(c.Context(), c.Params("id"), upd)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

// ============================================================
// Tiles
// ============================================================

// PlaceTile ставит модуль. Отказ по грани или пересечению - 200 с placed=false.
func (h *ProjectHandler) PlaceTile(c fiber.Ctx) error {
	var req placeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Face != "" && !req.Face.Valid() {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "unknown roof face"})
	}

	var (
		res *service.PlacementResult
		err error
	)
	if req.Face != "" {
		res, err = h.svc.PlaceOnFace(c.Context(), c.Params("id"), req.Point.R3(), req.Face)
	} else {
		res, err = h.svc.PlaceTile(c.Context(), c.Params("id"), req.Point.R3())
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}

func (h *ProjectHandler) DeleteTile(c fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid tile index"})
	}

	p, ok, err := h.svc.DeleteTile(c.Context(), c.Params("id"), index)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(tileDeleteResponse{Deleted: ok, Project: p})
}

// ============================================================
// Gizmo
// ============================================================

func (h *ProjectHandler) Gizmo(c fiber.Ctx) error {
	state, err := h.svc.Gizmo(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

func (h *ProjectHandler) Select(c fiber.Ctx) error {
	var sel models.Selection
	if err := json.Unmarshal(c.Body(), &sel); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	state, ok, err := h.svc.Select(c.Context(), c.Params("id"), sel)
	if err != nil {
		return h.fail(c, err)
	}
	if !ok {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": "selection does not resolve"})
	}
	return c.JSON(state)
}

func (h *ProjectHandler) Deselect(c fiber.Ctx) error {
	state, err := h.svc.Deselect(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

func (h *ProjectHandler) SetMode(c fiber.Ctx) error {
	var req modeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if !req.Mode.Valid() {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "unknown gizmo mode"})
	}

	state, ok, err := h.svc.SetMode(c.Context(), c.Params("id"), req.Mode)
	if err != nil {
		return h.fail(c, err)
	}
	if !ok {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "mode not available for selection"})
	}
	return c.JSON(state)
}

func (h *ProjectHandler) BeginDrag(c fiber.Ctx) error {
	state, ok, err := h.svc.BeginDrag(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if !ok {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "nothing selected"})
	}
	return c.JSON(state)
}

// Drag применяет событие перетаскивания. No-op - 200 с applied=false.
func (h *ProjectHandler) Drag(c fiber.Ctx) error {
	var upd transform.DragUpdate
	if err := json.Unmarshal(c.Body(), &upd); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	p, ok, err := h.svc.Drag(c.Context(), c.Params("id"), upd)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dragResponse{Applied: ok, Project: p})
}

func (h *ProjectHandler) EndDrag(c fiber.Ctx) error {
	state, err := h.svc.EndDrag(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

func (h *ProjectHandler) fail(c fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrProjectNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}

	h.log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
