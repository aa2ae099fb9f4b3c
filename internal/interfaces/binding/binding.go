// Package binding conecta un agregador con su consumidor visual: carga inicial al
// montarse, auto-refresco por intervalo, cancelación al desmontarse y sub-vistas
// memoizadas que solo cambian cuando cambian sus datos.
package binding

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	"github.com/jhoicas/Inventario-dashboard/internal/application/requestmgr"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// Slice parte del estado a la que se puede suscribir un consumidor.
type Slice string

const (
	SliceStatus   Slice = "status"
	SliceShopify  Slice = "shopify"
	SliceAmazon   Slice = "amazon"
	SliceCombined Slice = "combined"
	SliceSKUs     Slice = "skus"
	SliceAlerts   Slice = "alerts"
)

var allSlices = []Slice{SliceStatus, SliceShopify, SliceAmazon, SliceCombined, SliceSKUs, SliceAlerts}

// StatusView estado de carga visible.
type StatusView struct {
	Status  analytics.Status
	Loading bool
	Error   string
}

// SKUView página actual del listado.
type SKUView struct {
	SKUs        []entity.SKU
	Pagination  entity.Pagination
	Summary     entity.SummaryStats
	CurrentPage int
}

// Binding ciclo de vida de un agregador ligado a una vista.
// Attach y Detach son idempotentes. No llamar a Detach desde un suscriptor.
type Binding struct {
	agg *analytics.Aggregator
	log *logger.Logger

	mu         sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	stopPoller context.CancelFunc
	interval   time.Duration
	wg         sync.WaitGroup

	memo   map[Slice]any
	subs   map[int]subscription
	nextID int
}

type subscription struct {
	slice Slice
	fn    func(analytics.Snapshot)
}

// New liga agg. interval <= 0 desactiva el auto-refresco.
func New(agg *analytics.Aggregator, interval time.Duration, log *logger.Logger) *Binding {
	if log == nil {
		log = logger.Nop()
	}
	b := &Binding{
		agg:      agg,
		log:      log.Named("binding"),
		interval: interval,
		memo:     make(map[Slice]any, len(allSlices)),
		subs:     make(map[int]subscription),
	}
	b.memoize(agg.Snapshot())
	agg.OnUpdate(b.onUpdate)
	return b
}

// Name nombre del agregador ligado.
func (b *Binding) Name() string { return b.agg.Config().Name }

// Aggregator agregador ligado.
func (b *Binding) Aggregator() *analytics.Aggregator { return b.agg }

// ── ciclo de vida ────────────────────────────────────────────────────────────

// Attach monta la vista: lanza la carga inicial y arranca el auto-refresco.
func (b *Binding) Attach(parent context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctx != nil {
		return
	}

	b.agg.Open()
	b.ctx, b.cancel = context.WithCancel(parent)

	ctx := b.ctx
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.fetch(ctx, false, "carga inicial")
	}()
	b.startPollerLocked()

	b.log.Debug().Str("binding", b.Name()).Dur("interval", b.interval).Msg("vista montada")
}

// Detach desmonta la vista: detiene el auto-refresco, cancela las peticiones en vuelo
// de este agregador y espera a que terminen sus goroutines. Tras Detach ningún
// resultado tardío modifica el estado.
func (b *Binding) Detach() {
	b.mu.Lock()
	if b.ctx == nil {
		b.mu.Unlock()
		return
	}
	b.cancel()
	b.ctx, b.cancel, b.stopPoller = nil, nil, nil
	b.mu.Unlock()

	b.agg.Close()
	b.wg.Wait()
	b.log.Debug().Str("binding", b.Name()).Msg("vista desmontada")
}

// Attached indica si la vista está montada.
func (b *Binding) Attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx != nil
}

// SetRefreshInterval reemplaza el intervalo de auto-refresco; <= 0 lo desactiva.
// El temporizador anterior se detiene siempre antes de crear uno nuevo.
func (b *Binding) SetRefreshInterval(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopPoller != nil {
		b.stopPoller()
		b.stopPoller = nil
	}
	b.interval = d
	b.startPollerLocked()
}

// RefreshInterval intervalo vigente.
func (b *Binding) RefreshInterval() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.interval
}

// startPollerLocked requiere b.mu.
func (b *Binding) startPollerLocked() {
	if b.ctx == nil || b.interval <= 0 {
		return
	}
	ctx, stop := context.WithCancel(b.ctx)
	b.stopPoller = stop
	interval := b.interval

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.fetch(ctx, false, "auto-refresco")
			}
		}
	}()
}

// fetch los errores ya quedan en el estado del agregador; aquí solo se registran.
func (b *Binding) fetch(ctx context.Context, force bool, reason string) {
	if err := b.agg.FetchAll(ctx, force); err != nil && !requestmgr.IsCancelled(err) {
		b.log.Debug().Err(err).Str("binding", b.Name()).Str("reason", reason).Msg("carga con errores")
	}
}

// ── acciones ─────────────────────────────────────────────────────────────────

// Refresh recarga la vista. Sin montar no hace nada.
func (b *Binding) Refresh(ctx context.Context, force bool) error {
	if !b.Attached() {
		return nil
	}
	return b.agg.Refresh(ctx, force)
}

// LoadPage cambia la página del listado de SKUs. Sin montar no hace nada.
func (b *Binding) LoadPage(ctx context.Context, page int) error {
	if !b.Attached() {
		return nil
	}
	return b.agg.LoadPage(ctx, page)
}

// ── sub-vistas memoizadas ────────────────────────────────────────────────────

// Snapshot estado completo del agregador.
func (b *Binding) Snapshot() analytics.Snapshot { return b.agg.Snapshot() }

// Status estado de carga.
func (b *Binding) Status() StatusView { return memoValue[StatusView](b, SliceStatus) }

// Shopify vista de Shopify; nunca nil una vez cargada la analítica.
func (b *Binding) Shopify() *entity.AnalyticsPayload {
	return memoValue[*entity.AnalyticsPayload](b, SliceShopify)
}

// Amazon vista de Amazon.
func (b *Binding) Amazon() *entity.AnalyticsPayload {
	return memoValue[*entity.AnalyticsPayload](b, SliceAmazon)
}

// Combined vista combinada.
func (b *Binding) Combined() *entity.AnalyticsPayload {
	return memoValue[*entity.AnalyticsPayload](b, SliceCombined)
}

// View vista por nombre (shopify, amazon o combined).
func (b *Binding) View(p entity.Platform) (*entity.AnalyticsPayload, error) {
	switch p {
	case entity.PlatformShopify:
		return b.Shopify(), nil
	case entity.PlatformAmazon:
		return b.Amazon(), nil
	case entity.PlatformCombined:
		return b.Combined(), nil
	default:
		return nil, fmt.Errorf("vista desconocida: %q", p)
	}
}

// SKUs página actual del listado.
func (b *Binding) SKUs() SKUView { return memoValue[SKUView](b, SliceSKUs) }

// Alerts alertas de la plataforma consultada.
func (b *Binding) Alerts() []entity.Alert { return memoValue[[]entity.Alert](b, SliceAlerts) }

// Subscribe invoca fn cada vez que cambia slice. Devuelve la función para darse de baja.
func (b *Binding) Subscribe(slice Slice, fn func(analytics.Snapshot)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = subscription{slice: slice, fn: fn}
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func memoValue[T any](b *Binding, s Slice) T {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, _ := b.memo[s].(T)
	return v
}

func (b *Binding) onUpdate(s analytics.Snapshot) {
	changed := b.memoize(s)
	if len(changed) == 0 {
		return
	}

	b.mu.Lock()
	var fns []func(analytics.Snapshot)
	for _, sub := range b.subs {
		if _, ok := changed[sub.slice]; ok {
			fns = append(fns, sub.fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// memoize recalcula las sub-vistas y conserva el valor anterior (misma identidad)
// cuando el contenido no cambió. Devuelve las que cambiaron.
func (b *Binding) memoize(s analytics.Snapshot) map[Slice]struct{} {
	next := map[Slice]any{
		SliceStatus:   StatusView{Status: s.Status, Loading: s.Loading, Error: s.Error},
		SliceShopify:  s.Platforms.Shopify,
		SliceAmazon:   s.Platforms.Amazon,
		SliceCombined: s.Platforms.Combined,
		SliceSKUs: SKUView{
			SKUs:        s.SKUs,
			Pagination:  s.Pagination,
			Summary:     s.Summary,
			CurrentPage: s.CurrentPage,
		},
		SliceAlerts: s.Alerts(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	changed := make(map[Slice]struct{})
	for _, slice := range allSlices {
		prev, ok := b.memo[slice]
		if ok && reflect.DeepEqual(prev, next[slice]) {
			continue
		}
		b.memo[slice] = next[slice]
		changed[slice] = struct{}{}
	}
	return changed
}
