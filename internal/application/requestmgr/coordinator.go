// Package requestmgr es el punto único de control de las peticiones al backend:
// una sola llamada en vuelo por clave, caché de corta duración con TTL y
// cancelación de la petición anterior en los refrescos forzados.
//
// Estado por clave:
//
//	idle ──▶ pending ──▶ success | error | cancelled
//	            ▲                  │
//	            └──────────────────┘  (nueva petición o refresco forzado)
package requestmgr

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// DefaultCacheTTL validez de una entrada de caché si el llamador no indica otra.
const DefaultCacheTTL = 30 * time.Second

// State estado de la última petición conocida para una clave.
type State string

const (
	StateIdle      State = "idle"
	StatePending   State = "pending"
	StateSuccess   State = "success"
	StateError     State = "error"
	StateCancelled State = "cancelled"
)

// Clock fuente de tiempo inyectable (tests).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FetchFunc operación de red cancelable. Debe respetar ctx.
type FetchFunc func(ctx context.Context) (any, error)

// Options opciones de Execute.
type Options struct {
	CacheTTL     time.Duration // <= 0 usa el TTL por defecto del coordinador
	ForceRefresh bool          // ignora la caché y reemplaza la petición en vuelo
}

// cacheEntry es válida estrictamente mientras now - storedAt < ttl.
type cacheEntry struct {
	data     any
	storedAt time.Time
	ttl      time.Duration
}

func (e cacheEntry) validAt(now time.Time) bool {
	return now.Sub(e.storedAt) < e.ttl
}

// pendingRequest petición en vuelo. Como máximo una por clave.
type pendingRequest struct {
	id        uuid.UUID
	key       string
	startedAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}
	waiters   int // llamadores esperando el resultado; protegido por c.mu

	// escritos una sola vez antes de cerrar done
	data any
	err  error
}

// Stats contadores de uso de la caché.
type Stats struct {
	Hits      int64
	Misses    int64
	Coalesced int64
	Cancelled int64
	Entries   int
	Pending   int
}

// Coordinator deduplica peticiones concurrentes por clave y cachea los resultados.
// Se instancia una vez por aplicación y se comparte por referencia: ClearCache y
// CancelAllRequests afectan a todos los consumidores.
type Coordinator struct {
	mu      sync.Mutex
	cache   map[string]cacheEntry
	pending map[string]*pendingRequest
	states  map[string]State

	clock      Clock
	defaultTTL time.Duration
	log        *logger.Logger

	hits      int64
	misses    int64
	coalesced int64
	cancelled int64
}

// Option configuración funcional del coordinador.
type Option func(*Coordinator)

// WithClock reemplaza el reloj del sistema.
func WithClock(clock Clock) Option {
	return func(c *Coordinator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithDefaultTTL cambia el TTL usado cuando Options.CacheTTL <= 0.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Coordinator) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// New construye el coordinador.
func New(log *logger.Logger, opts ...Option) *Coordinator {
	if log == nil {
		log = logger.Nop()
	}
	c := &Coordinator{
		cache:      make(map[string]cacheEntry),
		pending:    make(map[string]*pendingRequest),
		states:     make(map[string]State),
		clock:      systemClock{},
		defaultTTL: DefaultCacheTTL,
		log:        log.Named("requestmgr"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute resuelve la petición identificada por key:
//  1. sin ForceRefresh y con entrada vigente → devuelve la caché sin tocar la red;
//  2. sin ForceRefresh y con petición en vuelo → espera y comparte ese mismo resultado;
//  3. con ForceRefresh y petición en vuelo → cancela la anterior antes de empezar otra;
//  4. en otro caso lanza fetch; el éxito se cachea con el TTL, el error no.
//
// La petición corre en un contexto desacoplado del llamador: si ctx termina, este
// llamador deja de esperar (recibe domain.ErrCancelled) pero los demás siguen esperando.
// Cuando se va el último llamador la petición se cancela. Un ctx ya terminado nunca
// lanza una petición nueva ni reemplaza la que está en vuelo.
func (c *Coordinator) Execute(ctx context.Context, key string, fetch FetchFunc, opts Options) (any, error) {
	if key == "" || fetch == nil {
		return nil, fmt.Errorf("requestmgr: clave o fetch vacío: %w", domain.ErrInvalidInput)
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	if !opts.ForceRefresh {
		if e, ok := c.cache[key]; ok && e.validAt(c.clock.Now()) {
			c.mu.Unlock()
			atomic.AddInt64(&c.hits, 1)
			c.log.Debug().Str("key", key).Msg("cache hit")
			return e.data, nil
		}
		if p, ok := c.pending[key]; ok {
			if err := ctx.Err(); err != nil {
				c.mu.Unlock()
				return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
			}
			p.waiters++
			c.mu.Unlock()
			atomic.AddInt64(&c.coalesced, 1)
			c.log.Debug().Str("key", key).Str("request_id", p.id.String()).Msg("uniendo petición en vuelo")
			return c.wait(ctx, p)
		}
	}
	if err := ctx.Err(); err != nil {
		c.mu.Unlock()
		c.log.Debug().Str("key", key).Msg("llamador cancelado; no se inicia la petición")
		return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}
	if p, ok := c.pending[key]; ok && opts.ForceRefresh {
		c.cancelLocked(p, "refresco forzado")
	}

	atomic.AddInt64(&c.misses, 1)
	p := c.startLocked(ctx, key, fetch, ttl)
	c.mu.Unlock()

	return c.wait(ctx, p)
}

// startLocked registra la petición pendiente y lanza fetch. Requiere c.mu.
func (c *Coordinator) startLocked(parent context.Context, key string, fetch FetchFunc, ttl time.Duration) *pendingRequest {
	// Conserva los valores del contexto del llamador pero no su cancelación.
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(parent))
	p := &pendingRequest{
		id:        uuid.New(),
		key:       key,
		startedAt: c.clock.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
		waiters:   1,
	}
	c.pending[key] = p
	c.states[key] = StatePending

	c.log.Debug().Str("key", key).Str("request_id", p.id.String()).Msg("petición iniciada")
	go c.run(fetchCtx, p, fetch, ttl)
	return p
}

// run ejecuta fetch y publica el resultado. Solo la petición que sigue siendo la
// dueña de la clave puede escribir la caché: una petición reemplazada se descarta.
func (c *Coordinator) run(ctx context.Context, p *pendingRequest, fetch FetchFunc, ttl time.Duration) {
	data, err := safeFetch(ctx, fetch)
	cancelled := ctx.Err() != nil

	c.mu.Lock()
	owner := c.pending[p.key] == p
	if owner {
		delete(c.pending, p.key)
	}
	switch {
	case cancelled:
		p.err = fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
		if owner {
			c.states[p.key] = StateCancelled
		}
	case err != nil:
		p.err = err
		if owner {
			c.states[p.key] = StateError
		}
	default:
		p.data = data
		if owner {
			c.cache[p.key] = cacheEntry{data: data, storedAt: c.clock.Now(), ttl: ttl}
			c.states[p.key] = StateSuccess
		}
	}
	c.mu.Unlock()

	p.cancel()
	close(p.done)

	elapsed := c.clock.Now().Sub(p.startedAt)
	switch {
	case cancelled:
		c.log.Debug().Str("key", p.key).Dur("elapsed", elapsed).Msg("resultado de petición cancelada descartado")
	case err != nil:
		c.log.Warn().Err(err).Str("key", p.key).Dur("elapsed", elapsed).Msg("petición fallida; no se cachea")
	}
}

func safeFetch(ctx context.Context, fetch FetchFunc) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("requestmgr: panic en fetch: %v", r)
		}
	}()
	return fetch(ctx)
}

func (c *Coordinator) wait(ctx context.Context, p *pendingRequest) (any, error) {
	select {
	case <-p.done:
		return p.data, p.err
	case <-ctx.Done():
		c.leave(p)
		return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
	}
}

// leave da de baja a un llamador; sin llamadores la petición se cancela.
func (c *Coordinator) leave(p *pendingRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p.waiters--
	if p.waiters <= 0 {
		c.cancelLocked(p, "sin llamadores")
	}
}

// cancelLocked cancela y elimina la petición pendiente. Requiere c.mu. Idempotente.
func (c *Coordinator) cancelLocked(p *pendingRequest, reason string) {
	p.cancel()
	if c.pending[p.key] == p {
		delete(c.pending, p.key)
		c.states[p.key] = StateCancelled
		atomic.AddInt64(&c.cancelled, 1)
		c.log.Debug().Str("key", p.key).Str("request_id", p.id.String()).Str("reason", reason).Msg("petición cancelada")
	}
}

// CancelRequest cancela la petición en vuelo de key, si existe.
func (c *Coordinator) CancelRequest(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[key]
	if !ok {
		return false
	}
	c.cancelLocked(p, "cancelación explícita")
	return true
}

// CancelAllRequests cancela todas las peticiones en vuelo y vacía el mapa de pendientes.
// Devuelve cuántas se cancelaron.
func (c *Coordinator) CancelAllRequests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.pending {
		c.cancelLocked(p, "cancelar todo")
		n++
	}
	return n
}

// ClearCache elimina las entradas indicadas o, sin claves, toda la caché.
// No afecta a las peticiones en vuelo.
func (c *Coordinator) ClearCache(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.cache = make(map[string]cacheEntry)
		c.log.Debug().Msg("caché vaciada")
		return
	}
	for _, k := range keys {
		delete(c.cache, k)
	}
}

// State devuelve el estado actual de la clave (idle si nunca se pidió).
func (c *Coordinator) State(key string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.states[key]; ok {
		return s
	}
	return StateIdle
}

// Stats devuelve una foto de los contadores.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	entries, pending := len(c.cache), len(c.pending)
	c.mu.Unlock()
	return Stats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Coalesced: atomic.LoadInt64(&c.coalesced),
		Cancelled: atomic.LoadInt64(&c.cancelled),
		Entries:   entries,
		Pending:   pending,
	}
}

// IsCancelled distingue una cancelación de un fallo real.
func IsCancelled(err error) bool {
	return errors.Is(err, domain.ErrCancelled)
}

// Do es la versión tipada de Execute.
func Do[T any](ctx context.Context, c *Coordinator, key string, fn func(ctx context.Context) (T, error), opts Options) (T, error) {
	var zero T
	v, err := c.Execute(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	}, opts)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("requestmgr: tipo inesperado en caché para %q: %T", key, v)
	}
	return t, nil
}
