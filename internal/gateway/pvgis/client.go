package pvgis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ============================================================
// PVGIS Client
// ============================================================

const DefaultBaseURL = "https://re.jrc.ec.europa.eu/api/v5_3"

// APIError - отказ PVGIS с его собственным сообщением.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pvgis: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// URL собирает адрес инструмента PVGIS.
func (c *Client) URL(endpoint Endpoint) string {
	return c.baseURL + "/" + string(endpoint)
}

// PVCalc запрашивает оценку выработки сетевой системы.
func (c *Client) PVCalc(ctx context.Context, params Params) (*CalcResponse, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	target := c.URL(EndpointPVCalc) + "?" + params.Query().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build pvcalc request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pvcalc request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pvcalc response: %w", err)
	}

	c.log.Debug("pvcalc",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Float64("lat", params.Lat),
		zap.Float64("lon", params.Lon))

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body, resp.Status)}
	}

	var out CalcResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode pvcalc response: %w", err)
	}
	out.Raw = body
	return &out, nil
}

// errorMessage достаёт поле message из тела ошибки PVGIS.
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 {
		return text
	}
	return fallback
}

// Message - текст ошибки для клиента.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
