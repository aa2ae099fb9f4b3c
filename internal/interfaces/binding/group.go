package binding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-dashboard/internal/domain"
)

// Group conjunto de vistas montadas por la aplicación, indexadas por nombre.
type Group struct {
	mu       sync.RWMutex
	bindings map[string]*Binding
}

// NewGroup agrupa bindings. Un nombre repetido reemplaza al anterior.
func NewGroup(bindings ...*Binding) *Group {
	g := &Group{bindings: make(map[string]*Binding, len(bindings))}
	for _, b := range bindings {
		g.bindings[b.Name()] = b
	}
	return g
}

// Get devuelve el binding por nombre.
func (g *Group) Get(name string) (*Binding, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	b, ok := g.bindings[name]
	if !ok {
		return nil, fmt.Errorf("vista %q: %w", name, domain.ErrInvalidInput)
	}
	return b, nil
}

// Names nombres ordenados.
func (g *Group) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.bindings))
	for n := range g.bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (g *Group) each(fn func(*Binding)) {
	for _, n := range g.Names() {
		b, _ := g.Get(n)
		fn(b)
	}
}

// AttachAll monta todas las vistas.
func (g *Group) AttachAll(ctx context.Context) {
	g.each(func(b *Binding) { b.Attach(ctx) })
}

// DetachAll desmonta todas las vistas.
func (g *Group) DetachAll() {
	g.each(func(b *Binding) { b.Detach() })
}

// SetRefreshInterval aplica el intervalo a todas las vistas.
func (g *Group) SetRefreshInterval(d time.Duration) {
	g.each(func(b *Binding) { b.SetRefreshInterval(d) })
}

// RefreshAll recarga todas las vistas en paralelo. Devuelve los nombres recargados y
// los errores de las que fallaron agrupados.
func (g *Group) RefreshAll(ctx context.Context, force bool) ([]string, error) {
	names := g.Names()
	errs := make([]error, len(names))

	var eg errgroup.Group
	for i, n := range names {
		b, _ := g.Get(n)
		eg.Go(func() error {
			if err := b.Refresh(ctx, force); err != nil {
				errs[i] = fmt.Errorf("%s: %w", n, err)
			}
			return nil
		})
	}
	_ = eg.Wait()

	return names, errors.Join(errs...)
}
