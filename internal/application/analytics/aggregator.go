// Package analytics agrega los datos del dashboard de inventario: lanza en paralelo
// las consultas de cada dominio (SKUs, analítica) para una o varias plataformas,
// normaliza las respuestas a un único modelo de vista y expone refresco y paginación.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/application/ports"
	"github.com/jhoicas/Inventario-dashboard/internal/application/requestmgr"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// Domain conjunto de datos que el agregador sabe consultar.
type Domain string

const (
	DomainSKUInventory       Domain = "sku_inventory"
	DomainInventoryAnalytics Domain = "inventory_analytics"
)

// Status estado del agregador: idle → loading → success | error.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const defaultPageSize = 50

// Config parámetros de una instancia del agregador.
type Config struct {
	Name       string          // identifica la instancia en logs y en el servidor de vistas
	Platform   entity.Platform // shopify | amazon | all
	Domains    []Domain        // vacío = todos
	PageSize   int
	CacheTTL   time.Duration // <= 0 usa el TTL del coordinador
	FastMode   bool
	Thresholds entity.StockThresholds
}

// Snapshot copia del estado visible del agregador.
// Los slices se reemplazan en cada actualización, nunca se modifican: tratarlos como solo lectura.
type Snapshot struct {
	Name         string
	Status       Status
	Loading      bool
	Error        string // vacío = sin error
	Platform     entity.Platform
	Platforms    entity.PlatformViewModel
	HasAnalytics bool
	SKUs         []entity.SKU
	Pagination   entity.Pagination
	Summary      entity.SummaryStats
	HasSKUs      bool
	Cached       bool
	CurrentPage  int
	UpdatedAt    time.Time
}

// Alerts alertas de la vista correspondiente a la plataforma consultada.
func (s Snapshot) Alerts() []entity.Alert {
	return s.Platforms.View(s.Platform).Alerts()
}

// Aggregator orquesta las consultas de una vista del dashboard.
type Aggregator struct {
	api     ports.DashboardAPI
	session ports.SessionStore
	coord   *requestmgr.Coordinator
	cfg     Config
	log     *logger.Logger

	mu        sync.Mutex
	snap      Snapshot
	active    int               // cargas en curso (guarda de reentrada)
	stamps    map[Domain]uint64 // sello monotónico por dominio
	domainErr map[Domain]error
	cached    map[Domain]bool
	keys      map[string]struct{} // claves iniciadas por esta instancia
	closed    bool
	epoch     uint64 // cambia en cada Close: invalida las cargas anteriores
	runs      map[uint64]*loadRun
	nextRun   uint64
	listeners map[int]func(Snapshot)
	nextID    int
}

// NewAggregator construye el agregador.
func NewAggregator(
	api ports.DashboardAPI,
	session ports.SessionStore,
	coord *requestmgr.Coordinator,
	cfg Config,
	log *logger.Logger,
) *Aggregator {
	if cfg.Platform == "" {
		cfg.Platform = entity.PlatformAll
	}
	if len(cfg.Domains) == 0 {
		cfg.Domains = []Domain{DomainSKUInventory, DomainInventoryAnalytics}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Thresholds == (entity.StockThresholds{}) {
		cfg.Thresholds = entity.DefaultStockThresholds()
	}
	if cfg.Name == "" {
		cfg.Name = string(cfg.Platform)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Aggregator{
		api:     api,
		session: session,
		coord:   coord,
		cfg:     cfg,
		log:     log.Named("analytics"),
		snap: Snapshot{
			Name:        cfg.Name,
			Status:      StatusIdle,
			Platform:    cfg.Platform,
			CurrentPage: 1,
		},
		stamps:    make(map[Domain]uint64),
		domainErr: make(map[Domain]error),
		cached:    make(map[Domain]bool),
		keys:      make(map[string]struct{}),
		runs:      make(map[uint64]*loadRun),
		listeners: make(map[int]func(Snapshot)),
	}
}

// Config devuelve la configuración efectiva (con valores por defecto aplicados).
func (a *Aggregator) Config() Config { return a.cfg }

// ── claves del coordinador ───────────────────────────────────────────────────

// SKUKey clave de caché de una página de SKUs: sku-inventory-<plataforma>-<página>-<tamaño>.
func SKUKey(p entity.Platform, page, pageSize int) string {
	return fmt.Sprintf("sku-inventory-%s-%d-%d", p, page, pageSize)
}

// AnalyticsKey clave de caché de la analítica: inventory-analytics-<plataforma>-<fast|full>.
func AnalyticsKey(p entity.Platform, fast bool) string {
	mode := "full"
	if fast {
		mode = "fast"
	}
	return fmt.Sprintf("inventory-analytics-%s-%s", p, mode)
}

// keyFor clave del coordinador para un dominio y una página.
func (a *Aggregator) keyFor(d Domain, page int) string {
	switch d {
	case DomainSKUInventory:
		return SKUKey(a.cfg.Platform, page, a.cfg.PageSize)
	case DomainInventoryAnalytics:
		return AnalyticsKey(a.cfg.Platform, a.cfg.FastMode)
	default:
		return ""
	}
}

// ── carga ────────────────────────────────────────────────────────────────────

// loadRun una carga en curso. Close cancela su contexto y espera done.
type loadRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// domainResult resultado de un dominio dentro de una carga.
type domainResult struct {
	domain   Domain
	stamp    uint64
	skus     entity.SKUPage
	decoded  DecodedAnalytics
	page     int
	cached   bool
	err      error
}

// FetchAll carga todos los dominios configurados en paralelo.
// Sin sesión es un no-op. Con una carga en curso y sin force también es un no-op.
// Un dominio que falla no impide que los demás actualicen su estado; el error devuelto
// agrupa los fallos reales, nunca las cancelaciones.
func (a *Aggregator) FetchAll(ctx context.Context, force bool) error {
	a.mu.Lock()
	page := a.snap.CurrentPage
	a.mu.Unlock()
	return a.load(ctx, a.cfg.Domains, page, force, force)
}

// LoadPage carga la página indicada del listado de SKUs. Fuera de rango no hace nada.
func (a *Aggregator) LoadPage(ctx context.Context, page int) error {
	if !a.hasDomain(DomainSKUInventory) {
		return nil
	}
	a.mu.Lock()
	pag, hasSKUs := a.snap.Pagination, a.snap.HasSKUs
	a.mu.Unlock()

	if !hasSKUs || !pag.InRange(page) {
		a.log.Debug().Str("aggregator", a.cfg.Name).Int("page", page).Int("total_pages", pag.TotalPages).
			Msg("página fuera de rango; se ignora")
		return nil
	}
	// Cambiar de página reemplaza la carga de SKUs en curso pero respeta la caché.
	return a.load(ctx, []Domain{DomainSKUInventory}, page, false, true)
}

// Refresh recarga todos los dominios. Con force pide antes al backend que invalide su
// caché (best-effort: un fallo solo se registra) y omite la caché local.
func (a *Aggregator) Refresh(ctx context.Context, force bool) error {
	if force {
		if _, ok := a.session.Token(); ok {
			if err := a.api.InvalidateCache(ctx); err != nil && !requestmgr.IsCancelled(err) {
				a.log.Warn().Err(err).Str("aggregator", a.cfg.Name).Msg("no se pudo invalidar la caché del backend")
			}
		}
		a.coord.ClearCache(a.ownedKeys()...)
	}
	return a.FetchAll(ctx, force)
}

// load lanza la carga de domains. force omite la caché del coordinador; supersede
// permite arrancar aunque haya otra carga en curso.
func (a *Aggregator) load(ctx context.Context, domains []Domain, page int, force, supersede bool) error {
	if a.Closed() {
		return nil
	}
	if _, ok := a.session.Token(); !ok {
		a.mu.Lock()
		if a.closed {
			a.mu.Unlock()
			return nil
		}
		a.snap.Loading = a.active > 0
		snap := a.snap
		a.mu.Unlock()
		a.log.Debug().Str("aggregator", a.cfg.Name).Msg("sin sesión; no se consulta el backend")
		a.notify(snap)
		return nil
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	if a.active > 0 && !supersede {
		a.mu.Unlock()
		a.log.Debug().Str("aggregator", a.cfg.Name).Msg("carga en curso; se ignora la nueva")
		return nil
	}
	epoch := a.epoch
	results := make([]*domainResult, 0, len(domains))
	for _, d := range domains {
		a.stamps[d]++
		if k := a.keyFor(d, page); k != "" {
			a.keys[k] = struct{}{}
		}
		results = append(results, &domainResult{domain: d, stamp: a.stamps[d], page: page})
	}
	// La carga queda registrada en la misma sección que comprueba closed: un Close
	// posterior siempre la encuentra y la cancela.
	ctx, cancel := context.WithCancel(ctx)
	runID := a.nextRun
	a.nextRun++
	run := &loadRun{cancel: cancel, done: make(chan struct{})}
	a.runs[runID] = run
	defer func() {
		a.mu.Lock()
		delete(a.runs, runID)
		a.mu.Unlock()
		cancel()
		close(run.done)
	}()

	a.active++
	a.snap.Loading = true
	a.snap.Status = StatusLoading
	snap := a.snap
	a.mu.Unlock()
	a.notify(snap)

	var g errgroup.Group
	for _, r := range results {
		g.Go(func() error {
			switch r.domain {
			case DomainSKUInventory:
				r.skus, r.err = a.fetchSKUs(ctx, page, force)
				r.cached = r.skus.Cached
			case DomainInventoryAnalytics:
				var res analyticsResult
				res, r.err = a.fetchAnalytics(ctx, force)
				r.decoded, r.cached = res.decoded, res.cached
			default:
				r.err = fmt.Errorf("dominio desconocido %q: %w", r.domain, domain.ErrInvalidInput)
			}
			return r.err
		})
	}
	// Los errores se recogen por dominio en results.
	_ = g.Wait()

	return a.apply(epoch, results)
}

// apply publica los resultados que siguen vigentes. Un dominio cuyo sello cambió
// (carga más reciente) o un agregador cerrado descartan el resultado.
func (a *Aggregator) apply(epoch uint64, results []*domainResult) error {
	var failures []error

	a.mu.Lock()
	if a.closed || epoch != a.epoch {
		a.mu.Unlock()
		a.log.Debug().Str("aggregator", a.cfg.Name).Msg("agregador cerrado; resultados descartados")
		return nil
	}
	a.active--
	if a.active < 0 {
		a.active = 0
	}

	for _, r := range results {
		if r.stamp != a.stamps[r.domain] {
			a.log.Debug().Str("aggregator", a.cfg.Name).Str("domain", string(r.domain)).Msg("resultado obsoleto descartado")
			continue
		}
		switch {
		case r.err == nil:
			a.domainErr[r.domain] = nil
			a.cached[r.domain] = r.cached
			a.applyDomain(r)
		case requestmgr.IsCancelled(r.err):
			// La cancelación no es un error visible: se conserva el estado previo.
			a.log.Debug().Str("aggregator", a.cfg.Name).Str("domain", string(r.domain)).Msg("carga cancelada")
		default:
			a.domainErr[r.domain] = r.err
			failures = append(failures, fmt.Errorf("%s: %w", r.domain, r.err))
		}
	}

	a.recomputeStatusLocked()
	snap := a.snap
	a.mu.Unlock()

	if len(failures) > 0 {
		a.log.Warn().Err(errors.Join(failures...)).Str("aggregator", a.cfg.Name).Msg("carga con errores")
	}
	a.notify(snap)
	return errors.Join(failures...)
}

// applyDomain vuelca un resultado exitoso en el snapshot. Requiere a.mu.
func (a *Aggregator) applyDomain(r *domainResult) {
	switch r.domain {
	case DomainSKUInventory:
		a.snap.SKUs = r.skus.SKUs
		a.snap.Pagination = r.skus.Pagination
		a.snap.Summary = r.skus.Summary
		a.snap.HasSKUs = true
		a.snap.CurrentPage = r.page
	case DomainInventoryAnalytics:
		a.snap.Platforms = r.decoded.View
		a.snap.HasAnalytics = true
	}
	a.snap.UpdatedAt = time.Now()
}

// recomputeStatusLocked deriva Status, Loading, Error y Cached. Requiere a.mu.
func (a *Aggregator) recomputeStatusLocked() {
	var errs []error
	cached := true
	for _, d := range a.cfg.Domains {
		if err := a.domainErr[d]; err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d, err))
		}
		cached = cached && a.cached[d]
	}
	a.snap.Loading = a.active > 0
	a.snap.Cached = cached
	a.snap.Error = ""
	if err := errors.Join(errs...); err != nil {
		a.snap.Error = err.Error()
	}

	switch {
	case a.snap.Loading:
		a.snap.Status = StatusLoading
	case a.snap.Error != "":
		a.snap.Status = StatusError
	case a.snap.HasSKUs || a.snap.HasAnalytics:
		a.snap.Status = StatusSuccess
	default:
		a.snap.Status = StatusIdle
	}
}

// ── dominios ─────────────────────────────────────────────────────────────────

func (a *Aggregator) fetchSKUs(ctx context.Context, page int, force bool) (entity.SKUPage, error) {
	key := a.keyFor(DomainSKUInventory, page)

	return requestmgr.Do(ctx, a.coord, key, func(ctx context.Context) (entity.SKUPage, error) {
		resp, err := a.api.FetchSKUs(ctx, dto.SKUQuery{
			Page:         page,
			PageSize:     a.cfg.PageSize,
			UseCache:     !force,
			ForceRefresh: force,
			Platform:     a.cfg.Platform,
		})
		if err != nil {
			return entity.SKUPage{}, err
		}
		return ToSKUPage(resp, page, a.cfg.PageSize, a.cfg.Thresholds)
	}, requestmgr.Options{CacheTTL: a.cfg.CacheTTL, ForceRefresh: force})
}

type analyticsResult struct {
	decoded DecodedAnalytics
	cached  bool
}

func (a *Aggregator) fetchAnalytics(ctx context.Context, force bool) (analyticsResult, error) {
	key := a.keyFor(DomainInventoryAnalytics, 0)

	return requestmgr.Do(ctx, a.coord, key, func(ctx context.Context) (analyticsResult, error) {
		resp, err := a.api.FetchAnalytics(ctx, dto.AnalyticsQuery{
			FastMode:     a.cfg.FastMode,
			ForceRefresh: force,
			Platform:     a.cfg.Platform,
		})
		if err != nil {
			return analyticsResult{}, err
		}
		if resp == nil {
			return analyticsResult{}, fmt.Errorf("analítica: respuesta vacía: %w", domain.ErrUnsuccessfulResponse)
		}
		if !resp.OK() {
			return analyticsResult{}, fmt.Errorf("analítica: %w", unsuccessful(resp.Envelope))
		}
		decoded, err := DecodeAnalytics(resp.Body, a.cfg.Platform)
		if err != nil {
			return analyticsResult{}, err
		}
		if len(decoded.Issues) > 0 {
			a.log.Warn().Strs("issues", decoded.Issues).Str("shape", string(decoded.Shape)).
				Msg("secciones de analítica ilegibles; se muestran vacías")
		}
		return analyticsResult{decoded: decoded, cached: resp.Cached}, nil
	}, requestmgr.Options{CacheTTL: a.cfg.CacheTTL, ForceRefresh: force})
}

func (a *Aggregator) hasDomain(d Domain) bool {
	for _, x := range a.cfg.Domains {
		if x == d {
			return true
		}
	}
	return false
}

func (a *Aggregator) ownedKeys() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	keys := make([]string, 0, len(a.keys))
	for k := range a.keys {
		keys = append(keys, k)
	}
	return keys
}

// ── ciclo de vida y suscripción ──────────────────────────────────────────────

// Open reactiva un agregador cerrado (remontaje de la vista).
func (a *Aggregator) Open() {
	a.mu.Lock()
	a.closed = false
	a.mu.Unlock()
}

// Close cancela las cargas en curso de esta instancia, espera a que terminen y reinicia
// la guarda de carga. Después de Close ningún resultado tardío modifica el estado.
// Una petición del coordinador compartida con otra vista sigue en vuelo mientras esa
// vista la espere; sin llamadores el coordinador la cancela.
// No llamar desde un listener de OnUpdate.
func (a *Aggregator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.epoch++
	a.active = 0
	runs := make([]*loadRun, 0, len(a.runs))
	for _, r := range a.runs {
		r.cancel()
		runs = append(runs, r)
	}
	a.recomputeStatusLocked()
	snap := a.snap
	a.mu.Unlock()
	a.notify(snap)

	for _, r := range runs {
		<-r.done
	}
	a.log.Debug().Str("aggregator", a.cfg.Name).Int("cancelled", len(runs)).Msg("agregador cerrado")
}

// Closed indica si el agregador fue cerrado.
func (a *Aggregator) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// Snapshot devuelve una copia del estado actual.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

// OnUpdate registra fn para cada cambio de estado. Devuelve la función para darse de baja.
// fn se invoca fuera del candado y no debe bloquear.
func (a *Aggregator) OnUpdate(fn func(Snapshot)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *Aggregator) notify(s Snapshot) {
	a.mu.Lock()
	fns := make([]func(Snapshot), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}
