package analytics_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/application/requestmgr"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newAggregator(api *mockDashboardAPI, session *mockSession, cfg analytics.Config) (*analytics.Aggregator, *requestmgr.Coordinator) {
	coord := requestmgr.New(logger.Nop())
	return analytics.NewAggregator(api, session, coord, cfg, logger.Nop()), coord
}

func skuResponse(totalPages int, skus ...entity.SKU) *dto.SKUListResponse {
	return &dto.SKUListResponse{
		Envelope:   dto.Envelope{Success: ok()},
		SKUs:       skus,
		Pagination: &entity.Pagination{CurrentPage: 1, TotalPages: totalPages, TotalCount: len(skus), PageSize: 50},
	}
}

func analyticsResponse(body string) *dto.AnalyticsResponse {
	return &dto.AnalyticsResponse{Envelope: dto.Envelope{Success: ok()}, Body: []byte(body)}
}

func forced(force bool) interface{} {
	return mock.MatchedBy(func(q dto.SKUQuery) bool { return q.ForceRefresh == force })
}

func onPage(page int) interface{} {
	return mock.MatchedBy(func(q dto.SKUQuery) bool { return q.Page == page })
}

// blockUntil hace que la llamada del mock espere a release o a la cancelación de ctx.
func blockUntil(started chan<- struct{}, release <-chan struct{}) func(mock.Arguments) {
	var once sync.Once
	return func(args mock.Arguments) {
		once.Do(func() { close(started) })
		ctx := args.Get(0).(context.Context)
		select {
		case <-release:
		case <-ctx.Done():
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Claves
// ──────────────────────────────────────────────────────────────────────────────

func TestKeys_FormatoEstable(t *testing.T) {
	assert.Equal(t, "sku-inventory-shopify-1-50", analytics.SKUKey(entity.PlatformShopify, 1, 50))
	assert.Equal(t, "inventory-analytics-all-fast", analytics.AnalyticsKey(entity.PlatformAll, true))
	assert.Equal(t, "inventory-analytics-amazon-full", analytics.AnalyticsKey(entity.PlatformAmazon, false))
}

// ──────────────────────────────────────────────────────────────────────────────
// FetchAll
// ──────────────────────────────────────────────────────────────────────────────

func TestFetchAll_SinSesionNoLlamaAlBackend(t *testing.T) {
	api := &mockDashboardAPI{}
	agg, _ := newAggregator(api, loggedOut(), analytics.Config{})

	err := agg.FetchAll(context.Background(), false)
	require.NoError(t, err)

	snap := agg.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.Equal(t, analytics.StatusIdle, snap.Status)
	api.AssertNotCalled(t, "FetchSKUs", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "FetchAnalytics", mock.Anything, mock.Anything)
}

func TestFetchAll_CargaAmbosDominiosYNormaliza(t *testing.T) {
	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, mock.Anything).Return(&dto.SKUListResponse{
		Envelope: dto.Envelope{Success: ok()},
		SKUs:     []entity.SKU{sku("A", 0, 0, 10), sku("B", 5, 5, 10), sku("C", 200, 200, 10)},
	}, nil).Once()
	api.On("FetchAnalytics", mock.Anything, dto.AnalyticsQuery{FastMode: true, Platform: entity.PlatformAll}).
		Return(analyticsResponse(legacyBody), nil).Once()

	agg, _ := newAggregator(api, loggedIn(), analytics.Config{Name: "inventory", FastMode: true})

	require.NoError(t, agg.FetchAll(context.Background(), false))

	snap := agg.Snapshot()
	assert.Equal(t, analytics.StatusSuccess, snap.Status)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.True(t, snap.HasSKUs)
	assert.True(t, snap.HasAnalytics)
	assert.Len(t, snap.SKUs, 3)
	assert.Equal(t, 1, snap.Summary.OutOfStockCount)
	assert.Equal(t, 1, snap.Summary.LowStockCount)
	assert.Equal(t, 1, snap.Summary.OverstockCount)
	assert.Equal(t, "2050", snap.Summary.TotalInventoryValue.String())
	assert.False(t, snap.Platforms.Shopify.IsEmpty())
	assert.True(t, snap.Platforms.Amazon.IsEmpty())
	assert.Len(t, snap.Alerts(), 1)
	assert.False(t, snap.UpdatedAt.IsZero())
	api.AssertExpectations(t)
}

func TestFetchAll_SegundaLlamadaUsaLaCache(t *testing.T) {
	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, mock.Anything).Return(skuResponse(1, sku("A", 20, 20, 1)), nil).Once()

	agg, coord := newAggregator(api, loggedIn(), analytics.Config{Domains: []analytics.Domain{analytics.DomainSKUInventory}})

	require.NoError(t, agg.FetchAll(context.Background(), false))
	require.NoError(t, agg.FetchAll(context.Background(), false))

	api.AssertNumberOfCalls(t, "FetchSKUs", 1)
	assert.Equal(t, int64(1), coord.Stats().Hits)
}

func TestFetchAll_FalloParcialNoBloqueaOtrosDominios(t *testing.T) {
	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, mock.Anything).Return(nil, domain.ErrBackendUnavailable).Once()
	api.On("FetchAnalytics", mock.Anything, mock.Anything).Return(analyticsResponse(multiPlatformBody), nil).Once()

	agg, _ := newAggregator(api, loggedIn(), analytics.Config{})

	err := agg.FetchAll(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)

	snap := agg.Snapshot()
	assert.Equal(t, analytics.StatusError, snap.Status)
	assert.Contains(t, snap.Error, string(analytics.DomainSKUInventory))
	assert.True(t, snap.HasAnalytics, "la analítica se actualiza aunque falle SKUs")
	assert.False(t, snap.HasSKUs)
}

func TestFetchAll_RespuestaSinExitoEsError(t *testing.T) {
	api := &mockDashboardAPI{}
	api.On("FetchAnalytics", mock.Anything, mock.Anything).
		Return(&dto.AnalyticsResponse{Envelope: dto.Envelope{Success: failed(), Message: "sin datos"}}, nil).Once()

	agg, _ := newAggregator(api, loggedIn(), analytics.Config{Domains: []analytics.Domain{analytics.DomainInventoryAnalytics}})

	err := agg.FetchAll(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrUnsuccessfulResponse)
	assert.Contains(t, agg.Snapshot().Error, "sin datos")
}

func TestFetchAll_ErrorSeLimpiaEnLaSiguienteCargaExitosa(t *testing.T) {
	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()
	api.On("FetchSKUs", mock.Anything, mock.Anything).Return(skuResponse(1, sku("A", 20, 20, 1)), nil).Once()

	agg, _ := newAggregator(api, loggedIn(), analytics.Config{Domains: []analytics.Domain{analytics.DomainSKUInventory}})

	require.Error(t, agg.FetchAll(context.Background(), false))
	require.NoError(t, agg.FetchAll(context.Background(), false))

	snap := agg.Snapshot()
	assert.Empty(t, snap.Error)
	assert.Equal(t, analytics.StatusSuccess, snap.Status)
}

func TestFetchAll_CargaEnCursoIgnoraLaSegundaSinForce(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, mock.Anything).
		Run(blockUntil(started, release)).
		Return(skuResponse(1, sku("A", 20, 20, 1)), nil)

	agg, _ := newAggregator(api, loggedIn(), analytics.Config{Domains: []analytics.Domain{analytics.DomainSKUInventory}})

	done := make(chan error, 1)
	go func() { done <- agg.FetchAll(context.Background(), false) }()
	<-started

	assert.True(t, agg.Snapshot().Loading)
	require.NoError(t, agg.FetchAll(context.Background(), false))

	close(release)
	require.NoError(t, <-done)
	api.AssertNumberOfCalls(t, "FetchSKUs", 1)
	assert.False(t, agg.Snapshot().Loading)
}

func TestFetchAll_ForzadoReemplazaLaCargaEnCurso(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	defer close(release)

	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, forced(false)).
		Run(blockUntil(started, release)).
		Return(skuResponse(1, sku("VIEJO", 20, 20, 1)), nil).Once()
	api.On("FetchSKUs", mock.Anything, forced(true)).
		Return(skuResponse(1, sku("NUEVO", 20, 20, 1)), nil).Once()

	agg, _ := newAggregator(api, loggedIn(), analytics.Config{Domains: []analytics.Domain{analytics.DomainSKUInventory}})

	first := make(chan error, 1)
	go func() { first <- agg.FetchAll(context.Background(), false) }()
	<-started

	require.NoError(t, agg.FetchAll(context.Background(), true))
	assert.NoError(t, <-first, "la carga reemplazada no reporta error")

	snap := agg.Snapshot()
	require.Len(t, snap.SKUs, 1)
	assert.Equal(t, "NUEVO", snap.SKUs[0].SKU)
	assert.Empty(t, snap.Error)
	assert.Equal(t, analytics.StatusSuccess, snap.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// LoadPage / Refresh
// ──────────────────────────────────────────────────────────────────────────────

func TestLoadPage_FueraDeRangoNoHaceNada(t *testing.T) {
	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, onPage(1)).Return(skuResponse(2, sku("A", 20, 20, 1)), nil).Once()

	agg, _ := newAggregator(api, loggedIn(), analytics.Config{Domains: []analytics.Domain{analytics.DomainSKUInventory}})
	require.NoError(t, agg.FetchAll(context.Background(), false))

	require.NoError(t, agg.LoadPage(context.Background(), 0))
	require.NoError(t, agg.LoadPage(context.Background(), 3))

	api.AssertNumberOfCalls(t, "FetchSKUs", 1)
	assert.Equal(t, 1, agg.Snapshot().CurrentPage)
}

func TestLoadPage_CargaLaPaginaPedida(t *testing.T) {
	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, onPage(1)).Return(skuResponse(2, sku("A", 20, 20, 1)), nil).Once()
	page2 := skuResponse(2, sku("B", 20, 20, 1))
	page2.Pagination.CurrentPage = 2
	api.On("FetchSKUs", mock.Anything, onPage(2)).Return(page2, nil).Once()

	agg, _ := newAggregator(api, loggedIn(), analytics.Config{Domains: []analytics.Domain{analytics.DomainSKUInventory}})
	require.NoError(t, agg.FetchAll(context.Background(), false))

	require.NoError(t, agg.LoadPage(context.Background(), 2))

	snap := agg.Snapshot()
	assert.Equal(t, 2, snap.CurrentPage)
	assert.Equal(t, "B", snap.SKUs[0].SKU)
	api.AssertExpectations(t)
}

func TestRefresh_ForzadoInvalidaElBackendYOmiteLaCache(t *testing.T) {
	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, forced(false)).Return(skuResponse(1, sku("A", 20, 20, 1)), nil).Once()
	api.On("FetchSKUs", mock.Anything, forced(true)).Return(skuResponse(1, sku("A", 30, 30, 1)), nil).Once()
	api.On("InvalidateCache", mock.Anything).Return(errors.New("405 method not allowed")).Once()

	agg, _ := newAggregator(api, loggedIn(), analytics.Config{Domains: []analytics.Domain{analytics.DomainSKUInventory}})
	require.NoError(t, agg.FetchAll(context.Background(), false))

	require.NoError(t, agg.Refresh(context.Background(), true), "un fallo al invalidar no impide el refresco")

	assert.Equal(t, 30, agg.Snapshot().SKUs[0].CurrentAvailability)
	api.AssertExpectations(t)
}

func TestRefresh_SinForceNoInvalida(t *testing.T) {
	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, mock.Anything).Return(skuResponse(1, sku("A", 20, 20, 1)), nil).Once()

	agg, _ := newAggregator(api, loggedIn(), analytics.Config{Domains: []analytics.Domain{analytics.DomainSKUInventory}})
	require.NoError(t, agg.Refresh(context.Background(), false))

	api.AssertNotCalled(t, "InvalidateCache", mock.Anything)
}

// ──────────────────────────────────────────────────────────────────────────────
// Close / OnUpdate
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_CancelaYDescartaResultadosTardios(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	defer close(release)

	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, mock.Anything).
		Run(blockUntil(started, release)).
		Return(skuResponse(1, sku("A", 20, 20, 1)), nil)

	agg, coord := newAggregator(api, loggedIn(), analytics.Config{Domains: []analytics.Domain{analytics.DomainSKUInventory}})

	done := make(chan error, 1)
	go func() { done <- agg.FetchAll(context.Background(), false) }()
	<-started

	agg.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("FetchAll no terminó tras Close")
	}

	snap := agg.Snapshot()
	assert.False(t, snap.HasSKUs)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.True(t, agg.Closed())
	assert.Equal(t, requestmgr.StateCancelled, coord.State(analytics.SKUKey(entity.PlatformAll, 1, 50)))
	assert.Equal(t, 0, coord.Stats().Pending)
}

// Cerrar una vista no cancela la petición que otra vista sigue esperando.
func TestClose_NoCancelaPeticionCompartidaConOtraVista(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})

	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, mock.Anything).
		Run(blockUntil(started, release)).
		Return(skuResponse(1, sku("A", 20, 20, 1)), nil)

	coord := requestmgr.New(logger.Nop())
	cfg := analytics.Config{Domains: []analytics.Domain{analytics.DomainSKUInventory}}
	inventory := analytics.NewAggregator(api, loggedIn(), coord, cfg, logger.Nop())
	skus := analytics.NewAggregator(api, loggedIn(), coord, cfg, logger.Nop())

	go func() { _ = inventory.FetchAll(context.Background(), false) }()
	<-started
	other := make(chan error, 1)
	go func() { other <- skus.FetchAll(context.Background(), false) }()
	require.Eventually(t, func() bool { return coord.Stats().Coalesced == 1 }, time.Second, 5*time.Millisecond)

	inventory.Close()
	assert.Equal(t, 1, coord.Stats().Pending, "la otra vista sigue esperando la petición")

	close(release)
	select {
	case err := <-other:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("la carga de la otra vista no terminó")
	}
	assert.True(t, skus.Snapshot().HasSKUs)
	assert.Equal(t, requestmgr.StateSuccess, coord.State(analytics.SKUKey(entity.PlatformAll, 1, 50)))
	api.AssertNumberOfCalls(t, "FetchSKUs", 1)
}

func TestFetchAll_CerradoYSinSesionNoNotifica(t *testing.T) {
	api := &mockDashboardAPI{}
	agg, _ := newAggregator(api, loggedOut(), analytics.Config{})
	agg.Close()

	var updates int
	agg.OnUpdate(func(analytics.Snapshot) { updates++ })

	require.NoError(t, agg.FetchAll(context.Background(), true))
	assert.Zero(t, updates)
	assert.False(t, agg.Snapshot().Loading)
	api.AssertNotCalled(t, "FetchSKUs", mock.Anything, mock.Anything)
}

func TestOnUpdate_NotificaCargaYResultado(t *testing.T) {
	api := &mockDashboardAPI{}
	api.On("FetchSKUs", mock.Anything, mock.Anything).Return(skuResponse(1, sku("A", 20, 20, 1)), nil).Once()

	agg, _ := newAggregator(api, loggedIn(), analytics.Config{Domains: []analytics.Domain{analytics.DomainSKUInventory}})

	var (
		mu       sync.Mutex
		statuses []analytics.Status
	)
	unsubscribe := agg.OnUpdate(func(s analytics.Snapshot) {
		mu.Lock()
		statuses = append(statuses, s.Status)
		mu.Unlock()
	})

	require.NoError(t, agg.FetchAll(context.Background(), false))
	unsubscribe()
	require.NoError(t, agg.FetchAll(context.Background(), false))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []analytics.Status{analytics.StatusLoading, analytics.StatusSuccess}, statuses)
}
