package analytics_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mocks de los puertos
// ──────────────────────────────────────────────────────────────────────────────

type mockDashboardAPI struct {
	mock.Mock
}

func (m *mockDashboardAPI) FetchAnalytics(ctx context.Context, q dto.AnalyticsQuery) (*dto.AnalyticsResponse, error) {
	args := m.Called(ctx, q)
	resp, _ := args.Get(0).(*dto.AnalyticsResponse)
	return resp, args.Error(1)
}

func (m *mockDashboardAPI) FetchSKUs(ctx context.Context, q dto.SKUQuery) (*dto.SKUListResponse, error) {
	args := m.Called(ctx, q)
	resp, _ := args.Get(0).(*dto.SKUListResponse)
	return resp, args.Error(1)
}

func (m *mockDashboardAPI) InvalidateCache(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockSession struct {
	mock.Mock
}

func (m *mockSession) Token() (string, bool) {
	args := m.Called()
	return args.String(0), args.Bool(1)
}

func loggedIn() *mockSession {
	s := &mockSession{}
	s.On("Token").Return("token-de-prueba", true)
	return s
}

func loggedOut() *mockSession {
	s := &mockSession{}
	s.On("Token").Return("", false)
	return s
}

func ok() *bool {
	v := true
	return &v
}

func failed() *bool {
	v := false
	return &v
}
