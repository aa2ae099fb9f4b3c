package binding_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/application/requestmgr"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/interfaces/binding"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type mockDashboardAPI struct {
	mock.Mock
	skuCalls int32
}

func (m *mockDashboardAPI) FetchAnalytics(ctx context.Context, q dto.AnalyticsQuery) (*dto.AnalyticsResponse, error) {
	args := m.Called(ctx, q)
	resp, _ := args.Get(0).(*dto.AnalyticsResponse)
	return resp, args.Error(1)
}

func (m *mockDashboardAPI) FetchSKUs(ctx context.Context, q dto.SKUQuery) (*dto.SKUListResponse, error) {
	atomic.AddInt32(&m.skuCalls, 1)
	args := m.Called(ctx, q)
	resp, _ := args.Get(0).(*dto.SKUListResponse)
	return resp, args.Error(1)
}

func (m *mockDashboardAPI) InvalidateCache(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type session struct{}

func (session) Token() (string, bool) { return "tok", true }

func success() *bool {
	v := true
	return &v
}

const analyticsBody = `{"success": true, "platforms": {"shopify": {"sales_kpis": {"total_orders": 2}}, "amazon": {}}, "combined": {"sales_kpis": {"total_orders": 2}}}`

func okAPI() *mockDashboardAPI {
	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, mock.Anything).Return(&dto.SKUListResponse{
		Envelope:   dto.Envelope{Success: success()},
		SKUs:       []entity.SKU{{SKU: "A-1", CurrentAvailability: 20, OnHandInventory: 20}},
		Pagination: &entity.Pagination{CurrentPage: 1, TotalPages: 1, TotalCount: 1, PageSize: 50},
	}, nil)
	api.On("FetchAnalytics", mock.Anything, mock.Anything).Return(&dto.AnalyticsResponse{
		Envelope: dto.Envelope{Success: success()},
		Body:     []byte(analyticsBody),
	}, nil)
	return api
}

func newBinding(api *mockDashboardAPI, interval time.Duration, coordOpts ...requestmgr.Option) (*binding.Binding, *requestmgr.Coordinator) {
	coord := requestmgr.New(logger.Nop(), coordOpts...)
	agg := analytics.NewAggregator(api, session{}, coord, analytics.Config{Name: "inventory"}, logger.Nop())
	return binding.New(agg, interval, logger.Nop()), coord
}

// skuCalls devuelve un lector del número de llamadas a FetchSKUs.
func skuCalls(api *mockDashboardAPI) func() int {
	return func() int { return int(atomic.LoadInt32(&api.skuCalls)) }
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestAttach_LanzaCargaInicial(t *testing.T) {
	b, _ := newBinding(okAPI(), 0)
	defer b.Detach()

	b.Attach(context.Background())

	require.Eventually(t, func() bool {
		return b.Status().Status == analytics.StatusSuccess
	}, 2*time.Second, 5*time.Millisecond)

	assert.Len(t, b.SKUs().SKUs, 1)
	require.NotNil(t, b.Shopify())
	assert.Equal(t, 2, b.Shopify().SalesKPIs.TotalOrders)
	assert.True(t, b.Amazon().IsEmpty())
}

func TestAttach_EsIdempotente(t *testing.T) {
	api := okAPI()
	b, _ := newBinding(api, 0)
	defer b.Detach()

	b.Attach(context.Background())
	b.Attach(context.Background())

	require.Eventually(t, func() bool { return b.Status().Status == analytics.StatusSuccess }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, skuCalls(api)())
}

func TestDetach_CancelaYNoActualizaDespues(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	defer close(release)
	var once sync.Once

	api := &mockDashboardAPI{}
	block := func(args mock.Arguments) {
		once.Do(func() { close(started) })
		ctx := args.Get(0).(context.Context)
		select {
		case <-release:
		case <-ctx.Done():
		}
	}
	api.On("FetchSKUs", mock.Anything, mock.Anything).Run(block).Return(&dto.SKUListResponse{
		Envelope: dto.Envelope{Success: success()},
		SKUs:     []entity.SKU{{SKU: "TARDE"}},
	}, nil)
	api.On("FetchAnalytics", mock.Anything, mock.Anything).Run(block).Return(&dto.AnalyticsResponse{
		Envelope: dto.Envelope{Success: success()},
		Body:     []byte(analyticsBody),
	}, nil)

	b, coord := newBinding(api, 0)

	var updates int32
	b.Subscribe(binding.SliceSKUs, func(analytics.Snapshot) { atomic.AddInt32(&updates, 1) })

	b.Attach(context.Background())
	<-started

	done := make(chan struct{})
	go func() {
		b.Detach()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Detach no terminó")
	}

	assert.False(t, b.Attached())
	assert.Equal(t, 0, coord.Stats().Pending)
	assert.Empty(t, b.SKUs().SKUs)
	assert.Equal(t, int32(0), atomic.LoadInt32(&updates))
	assert.False(t, b.Status().Loading)
	assert.Empty(t, b.Status().Error, "la cancelación no es un error visible")

	b.Detach() // idempotente
}

// Montar y desmontar en rápida sucesión: al volver Detach toda petición que la vista
// llegó a lanzar tiene su contexto cancelado.
func TestDetach_RepetidoNoDejaPeticionesVivas(t *testing.T) {
	var (
		mu   sync.Mutex
		ctxs []context.Context
	)
	record := func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		mu.Lock()
		ctxs = append(ctxs, ctx)
		mu.Unlock()
		<-ctx.Done()
	}
	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, mock.Anything).Run(record).Return(&dto.SKUListResponse{
		Envelope: dto.Envelope{Success: success()},
	}, nil)
	api.On("FetchAnalytics", mock.Anything, mock.Anything).Run(record).Return(&dto.AnalyticsResponse{
		Envelope: dto.Envelope{Success: success()},
		Body:     []byte(analyticsBody),
	}, nil)

	b, coord := newBinding(api, 0)

	alive := func() int {
		mu.Lock()
		defer mu.Unlock()
		n := 0
		for _, ctx := range ctxs {
			if ctx.Err() == nil {
				n++
			}
		}
		return n
	}

	for i := 0; i < 200; i++ {
		b.Attach(context.Background())
		time.Sleep(time.Duration(i%20) * 15 * time.Microsecond)
		b.Detach()
		require.Zero(t, alive(), "iteración %d", i)
	}

	assert.Zero(t, coord.Stats().Pending)
	assert.Empty(t, b.SKUs().SKUs)
	assert.False(t, b.Status().Loading)
}

func TestRefresh_SinMontarNoHaceNada(t *testing.T) {
	api := okAPI()
	b, _ := newBinding(api, 0)

	require.NoError(t, b.Refresh(context.Background(), true))
	require.NoError(t, b.LoadPage(context.Background(), 2))

	api.AssertNotCalled(t, "FetchSKUs", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "InvalidateCache", mock.Anything)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auto-refresco
// ──────────────────────────────────────────────────────────────────────────────

func TestPoller_RefrescaPorIntervalo(t *testing.T) {
	api := okAPI()
	b, _ := newBinding(api, 20*time.Millisecond, requestmgr.WithDefaultTTL(time.Nanosecond))
	defer b.Detach()

	b.Attach(context.Background())

	calls := skuCalls(api)
	require.Eventually(t, func() bool { return calls() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestSetRefreshInterval_CeroDetieneElPoller(t *testing.T) {
	api := okAPI()
	b, _ := newBinding(api, 10*time.Millisecond, requestmgr.WithDefaultTTL(time.Nanosecond))
	defer b.Detach()

	b.Attach(context.Background())
	calls := skuCalls(api)
	require.Eventually(t, func() bool { return calls() >= 2 }, 2*time.Second, 5*time.Millisecond)

	b.SetRefreshInterval(0)
	// Una carga ya disparada puede terminar después de detener el poller.
	time.Sleep(30 * time.Millisecond)
	before := calls()
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, before, calls())
	assert.Equal(t, time.Duration(0), b.RefreshInterval())
}

func TestSetRefreshInterval_ActivaPollerEnVistaMontada(t *testing.T) {
	api := okAPI()
	b, _ := newBinding(api, 0, requestmgr.WithDefaultTTL(time.Nanosecond))
	defer b.Detach()

	b.Attach(context.Background())
	calls := skuCalls(api)
	require.Eventually(t, func() bool { return calls() == 1 }, 2*time.Second, 5*time.Millisecond)

	b.SetRefreshInterval(15 * time.Millisecond)
	require.Eventually(t, func() bool { return calls() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

// ──────────────────────────────────────────────────────────────────────────────
// Memoización
// ──────────────────────────────────────────────────────────────────────────────

func TestMemo_DatosIgualesConservanIdentidadYNoNotifican(t *testing.T) {
	api := okAPI()
	b, _ := newBinding(api, 0, requestmgr.WithDefaultTTL(time.Nanosecond))
	defer b.Detach()

	var skuUpdates, statusUpdates int32
	b.Subscribe(binding.SliceSKUs, func(analytics.Snapshot) { atomic.AddInt32(&skuUpdates, 1) })
	b.Subscribe(binding.SliceStatus, func(analytics.Snapshot) { atomic.AddInt32(&statusUpdates, 1) })

	b.Attach(context.Background())
	require.Eventually(t, func() bool { return b.Status().Status == analytics.StatusSuccess }, 2*time.Second, 5*time.Millisecond)

	shopify := b.Shopify()
	require.NotNil(t, shopify)
	statusBefore := atomic.LoadInt32(&statusUpdates)

	require.NoError(t, b.Refresh(context.Background(), false))

	assert.Same(t, shopify, b.Shopify(), "misma identidad si el contenido no cambia")
	assert.Equal(t, int32(1), atomic.LoadInt32(&skuUpdates))
	assert.Greater(t, atomic.LoadInt32(&statusUpdates), statusBefore, "el estado de carga sí cambia")
	assert.Equal(t, 2, skuCalls(api)())
}

func TestView_NombreDesconocidoEsError(t *testing.T) {
	b, _ := newBinding(okAPI(), 0)

	_, err := b.View(entity.Platform("ebay"))
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Group
// ──────────────────────────────────────────────────────────────────────────────

func TestGroup_RefreshAllRecargaCadaVista(t *testing.T) {
	api := okAPI()
	coord := requestmgr.New(logger.Nop())
	inv := binding.New(analytics.NewAggregator(api, session{}, coord, analytics.Config{Name: "inventory"}, logger.Nop()), 0, logger.Nop())
	skus := binding.New(analytics.NewAggregator(api, session{}, coord, analytics.Config{
		Name:    "skus",
		Domains: []analytics.Domain{analytics.DomainSKUInventory},
	}, logger.Nop()), 0, logger.Nop())

	g := binding.NewGroup(inv, skus)
	g.AttachAll(context.Background())
	defer g.DetachAll()

	names, err := g.RefreshAll(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"inventory", "skus"}, names)

	got, err := g.Get("skus")
	require.NoError(t, err)
	assert.Same(t, skus, got)

	_, err = g.Get("no-existe")
	assert.Error(t, err)
}
