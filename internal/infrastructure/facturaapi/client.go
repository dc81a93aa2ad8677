package facturaapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tu-usuario/margin-sync/internal/application/sync"
	"github.com/tu-usuario/margin-sync/internal/domain"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
	"github.com/tu-usuario/margin-sync/pkg/logger"
)

// Valores calibrados contra el límite publicado del API (60 llamadas/min):
// 300ms por llamada más una pausa de 5s cada 20 deja el sostenido por debajo
// de 50/min incluso con jitter de scheduling desfavorable.
const (
	DefaultPageSize     = 100
	DefaultCallInterval = 300 * time.Millisecond
	DefaultPauseEvery   = 20
	DefaultPause        = 5 * time.Second
	DefaultMaxAttempts  = 4
	DefaultRetryBase    = time.Second
)

// Config del cliente del API de facturación.
type Config struct {
	BaseURL      string
	Token        string
	PageSize     int
	CallInterval time.Duration
	PauseEvery   int
	Pause        time.Duration
	MaxAttempts  int
	RetryBase    time.Duration
}

func (c *Config) defaults() {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.CallInterval == 0 {
		c.CallInterval = DefaultCallInterval
	}
	if c.PauseEvery == 0 {
		c.PauseEvery = DefaultPauseEvery
	}
	if c.Pause == 0 {
		c.Pause = DefaultPause
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryBase == 0 {
		c.RetryBase = DefaultRetryBase
	}
}

var _ sync.DocumentFetcher = (*Client)(nil)

// Client adaptador HTTP del API de facturación. Serializa todas las llamadas
// salientes bajo el techo global de llamadas por minuto (sleeps de pacing) y
// envuelve cada una en un reintento acotado con backoff exponencial.
//
// No es seguro para uso concurrente: el modelo de ejecución es una sola
// invocación activa a la vez, y el contador de llamadas no está protegido.
type Client struct {
	cfg   Config
	http  *http.Client
	log   *logger.Logger
	calls int
}

// NewClient construye el cliente. Falla rápido si faltan credenciales, antes
// de cualquier llamada de red.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" || cfg.Token == "" {
		return nil, fmt.Errorf("%w: FACTURA_API_URL y FACTURA_API_TOKEN son obligatorios", domain.ErrMissingConfig)
	}
	cfg.defaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  log,
	}, nil
}

// PageSize registros máximos por página del API.
func (c *Client) PageSize() int { return c.cfg.PageSize }

// FetchProductsPage una página del catálogo de productos.
func (c *Client) FetchProductsPage(ctx context.Context, page int) ([]*entity.CatalogProduct, error) {
	var body struct {
		Products []productPayload `json:"products"`
	}
	if err := c.get(ctx, "/api/products", pageQuery(page), &body); err != nil {
		return nil, err
	}
	out := make([]*entity.CatalogProduct, 0, len(body.Products))
	for i := range body.Products {
		prod, err := body.Products[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, prod)
	}
	return out, nil
}

// FetchStockDocumentsPage una página de resúmenes de documentos de almacén.
func (c *Client) FetchStockDocumentsPage(ctx context.Context, page int) ([]*entity.StockDocument, error) {
	var body struct {
		Documents []stockDocumentPayload `json:"documents"`
	}
	if err := c.get(ctx, "/api/warehouse-documents", pageQuery(page), &body); err != nil {
		return nil, err
	}
	out := make([]*entity.StockDocument, 0, len(body.Documents))
	for i := range body.Documents {
		doc, err := body.Documents[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// FetchStockDocument el documento de almacén completo, con acciones.
func (c *Client) FetchStockDocument(ctx context.Context, id int64) (*entity.StockDocument, error) {
	var body struct {
		Document stockDocumentPayload `json:"document"`
	}
	path := "/api/warehouse-documents/" + strconv.FormatInt(id, 10)
	if err := c.get(ctx, path, nil, &body); err != nil {
		return nil, err
	}
	return body.Document.toEntity()
}

// FetchSalesPage una página de documentos de venta con sus líneas.
func (c *Client) FetchSalesPage(ctx context.Context, page int) ([]*entity.SaleDocument, error) {
	var body struct {
		Invoices []saleDocumentPayload `json:"invoices"`
	}
	if err := c.get(ctx, "/api/invoices", pageQuery(page), &body); err != nil {
		return nil, err
	}
	out := make([]*entity.SaleDocument, 0, len(body.Invoices))
	for i := range body.Invoices {
		doc, err := body.Invoices[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	return q
}

// get hace GET con pacing y reintento acotado. Respuestas 429/5xx y timeouts
// se reintentan con backoff exponencial (base duplicándose por intento);
// 401/403 propaga de inmediato como error de credenciales.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.pace(ctx); err != nil {
		return err
	}

	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			// 1s, 2s, 4s, ...
			delay := c.cfg.RetryBase << (attempt - 2)
			c.log.Warn().Str("path", path).Int("attempt", attempt).Dur("backoff", delay).
				Msg("reintentando llamada al API")
			if err := sleepCtx(ctx, delay); err != nil {
				return err
			}
		}

		body, err := c.do(ctx, u)
		if err == nil {
			return json.Unmarshal(body, out)
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrAPIUnavailable, path, lastErr)
}

// do ejecuta una sola petición y clasifica la respuesta.
func (c *Client) do(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &transientError{err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return io.ReadAll(resp.Body)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w (HTTP %d)", domain.ErrAPIAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusInternalServerError,
		resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable:
		return nil, &transientError{err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	default:
		return nil, fmt.Errorf("respuesta inesperada del API: HTTP %d", resp.StatusCode)
	}
}

// pace duerme el intervalo fijo entre llamadas y la pausa larga cada N.
func (c *Client) pace(ctx context.Context) error {
	c.calls++
	if c.cfg.PauseEvery > 0 && c.calls%c.cfg.PauseEvery == 0 {
		return sleepCtx(ctx, c.cfg.Pause)
	}
	return sleepCtx(ctx, c.cfg.CallInterval)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// transientError marca fallas reintentables (429, 5xx, timeout de red).
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func retryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
