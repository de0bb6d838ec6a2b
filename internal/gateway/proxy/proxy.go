package proxy

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Proxy Handler
// ============================================================

// hop-by-hop заголовки не передаются клиенту
var skipHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Content-Length":    true,
}

type Proxy struct {
	client *http.Client
	log    *zap.Logger
}

func New(timeout time.Duration, log *zap.Logger) *Proxy {
	if log == nil {
		log = zap.NewNop()
	}
	return &Proxy{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Prefix проксирует всё под маршрутом с wildcard на baseURL, сохраняя
// хвост пути и query string.
func (p *Proxy) Prefix(baseURL, upstreamPrefix string) fiber.Handler {
	base := strings.TrimRight(baseURL, "/") + upstreamPrefix
	return func(c fiber.Ctx) error {
		target := base
		if rest := c.Params("*"); rest != "" {
			target += "/" + rest
		}
		return p.Forward(c, withQuery(c, target))
	}
}

// Forward проксирует запрос по переданному URL (для динамических путей).
func (p *Proxy) Forward(c fiber.Ctx, targetURL string) error {
	p.log.Debug("forwarding request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("target", targetURL),
		zap.Int("content_length", len(c.Body())))

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, bytes.NewReader(c.Body()))
	if err != nil {
		p.log.Error("build request failed", zap.String("target", targetURL), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	if ct := c.Get("Content-Type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	if accept := c.Get("Accept"); accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn("upstream unreachable", zap.String("target", targetURL), zap.Error(err))
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return p.copyResponse(c, resp)
}

func (p *Proxy) copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		p.log.Warn("read upstream response failed", zap.Error(err))
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if len(values) > 0 && !skipHeaders[key] {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}

func withQuery(c fiber.Ctx, target string) string {
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		return target + "?" + qs
	}
	return target
}
