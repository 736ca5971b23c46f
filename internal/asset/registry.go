package asset

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/rickgao/options-data/internal/model"
)

// Loader reads and creates assets in the backing store.
type Loader interface {
	Assets(ctx context.Context) ([]model.Asset, error)
	EnsureAsset(ctx context.Context, symbol string) (int64, error)
}

// Registry is a read-mostly symbol to asset lookup.
type Registry struct {
	loader Loader
	logger *slog.Logger

	mu       sync.RWMutex
	bySymbol map[string]model.Asset
}

// NewRegistry creates an empty registry over the given loader.
func NewRegistry(loader Loader, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		loader:   loader,
		logger:   logger,
		bySymbol: make(map[string]model.Asset),
	}
}

// Load ensures every configured symbol exists in the store, then populates
// the registry from it. Call once at startup before serving lookups.
func (r *Registry) Load(ctx context.Context, symbols []string) error {
	for _, sym := range symbols {
		if _, err := r.loader.EnsureAsset(ctx, sym); err != nil {
			return fmt.Errorf("ensure symbol %s: %w", sym, err)
		}
	}

	if err := r.Reload(ctx); err != nil {
		return err
	}

	r.logger.Info("asset registry loaded", "assets", r.Len())
	return nil
}

// Reload refreshes the registry from the store.
func (r *Registry) Reload(ctx context.Context) error {
	assets, err := r.loader.Assets(ctx)
	if err != nil {
		return fmt.Errorf("load assets: %w", err)
	}

	next := make(map[string]model.Asset, len(assets))
	for _, a := range assets {
		next[a.Symbol] = a
	}

	r.mu.Lock()
	r.bySymbol = next
	r.mu.Unlock()
	return nil
}

// Get returns the asset for a symbol.
func (r *Registry) Get(symbol string) (model.Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.bySymbol[symbol]
	return a, ok
}

// Symbols returns all tracked symbols in sorted order.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.bySymbol))
	for sym := range r.bySymbol {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of tracked assets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySymbol)
}
