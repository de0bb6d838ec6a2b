package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pv-configurator/internal/gateway/proxy"
	"pv-configurator/internal/gateway/pvgis"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// PVGIS Handler
// ============================================================

type PVGISHandler struct {
	client *pvgis.Client
	proxy  *proxy.Proxy
	log    *zap.Logger
}

func NewPVGISHandler(client *pvgis.Client, p *proxy.Proxy, log *zap.Logger) *PVGISHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PVGISHandler{client: client, proxy: p, log: log}
}

// Calc принимает параметры формы PVcalc и отвечает конвертом
// {"status":"success","data":...} или {"status":"error","message":...}.
func (h *PVGISHandler) Calc(c fiber.Ctx) error {
	params := pvgis.DefaultParams()
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &params); err != nil {
			return c.Status(http.StatusBadRequest).JSON(pvgis.Failure("invalid json"))
		}
	}

	res, err := h.client.PVCalc(c.Context(), params)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, pvgis.ErrInvalidParams) {
			status = http.StatusBadRequest
		}
		h.log.Warn("pvcalc failed", zap.Error(err))
		return c.Status(status).JSON(pvgis.Failure(pvgis.Message(err)))
	}

	return c.JSON(pvgis.Success(res.Raw))
}

// Passthrough пересылает GET на инструмент PVGIS с исходной query string.
func (h *PVGISHandler) Passthrough(c fiber.Ctx) error {
	endpoint := pvgis.Endpoint(c.Params("endpoint"))
	if !endpoint.Valid() {
		return c.Status(http.StatusNotFound).JSON(pvgis.Failure("unknown pvgis endpoint"))
	}

	target := h.client.URL(endpoint)
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		target += "?" + qs
	}
	return h.proxy.Forward(c, target)
}
