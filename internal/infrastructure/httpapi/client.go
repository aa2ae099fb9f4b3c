package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/application/ports"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/pkg/config"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa DashboardAPI.
var _ ports.DashboardAPI = (*Client)(nil)

const (
	// maxResponseSize tope de lectura del cuerpo; la analítica completa puede ser grande.
	maxResponseSize = 8 << 20

	// Cabecera de correlación enviada en cada petición.
	HeaderRequestID = "X-Request-ID"

	defaultTimeout = 30 * time.Second
)

// Client adaptador HTTP del backend de analítica de inventario.
// Usa net/http de la librería estándar; el token se lee del SessionStore en cada llamada.
type Client struct {
	baseURL       string
	analyticsPath string
	skuPath       string
	cachePath     string
	session       ports.SessionStore
	httpClient    *http.Client
	log           *logger.Logger
}

// NewClient construye el adaptador a partir de la configuración de la API.
func NewClient(cfg config.APIConfig, session ports.SessionStore, log *logger.Logger) *Client {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		analyticsPath: cfg.AnalyticsPath,
		skuPath:       cfg.SKUPath,
		cachePath:     cfg.CachePath,
		session:       session,
		// Timeout de red; la cancelación fina la impone el contexto del coordinador.
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("httpapi"),
	}
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// FetchAnalytics GET <analytics>?fast_mode=&force_refresh=&platform=
func (c *Client) FetchAnalytics(ctx context.Context, q dto.AnalyticsQuery) (*dto.AnalyticsResponse, error) {
	params := url.Values{}
	params.Set("fast_mode", strconv.FormatBool(q.FastMode))
	params.Set("force_refresh", strconv.FormatBool(q.ForceRefresh))
	params.Set("platform", platformParam(q.Platform))

	raw, err := c.do(ctx, http.MethodGet, c.analyticsPath, params)
	if err != nil {
		return nil, fmt.Errorf("analítica: %w", err)
	}

	out := &dto.AnalyticsResponse{Body: raw}
	if err := json.Unmarshal(raw, &out.Envelope); err != nil {
		return nil, fmt.Errorf("analítica: deserializar respuesta: %w", err)
	}
	return out, nil
}

// FetchSKUs GET <skus>?page=&page_size=&use_cache=&force_refresh=&platform=
func (c *Client) FetchSKUs(ctx context.Context, q dto.SKUQuery) (*dto.SKUListResponse, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("page_size", strconv.Itoa(q.PageSize))
	params.Set("use_cache", strconv.FormatBool(q.UseCache))
	params.Set("force_refresh", strconv.FormatBool(q.ForceRefresh))
	params.Set("platform", platformParam(q.Platform))

	raw, err := c.do(ctx, http.MethodGet, c.skuPath, params)
	if err != nil {
		return nil, fmt.Errorf("skus: %w", err)
	}

	var out dto.SKUListResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("skus: deserializar respuesta: %w", err)
	}
	return &out, nil
}

// InvalidateCache DELETE <cache>. Cualquier 2xx se considera éxito.
func (c *Client) InvalidateCache(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodDelete, c.cachePath, nil); err != nil {
		return fmt.Errorf("invalidar caché: %w", err)
	}
	return nil
}

// ── Transporte ───────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	token, ok := c.session.Token()
	if !ok {
		return nil, domain.ErrNoSession
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("crear HTTP request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
		}
		return nil, fmt.Errorf("%w: leer respuesta: %w", domain.ErrBackendUnavailable, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrNoSession, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: HTTP %d: %s", domain.ErrBackendUnavailable, resp.StatusCode, snippet(raw))
	}
	return raw, nil
}

func platformParam(p entity.Platform) string {
	if p == "" {
		return string(entity.PlatformAll)
	}
	return string(p)
}

// snippet recorta el cuerpo de error para el mensaje.
func snippet(raw []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(raw))
	if len(s) > limit {
		return s[:limit] + "…"
	}
	return s
}
