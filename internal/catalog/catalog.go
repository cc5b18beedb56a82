package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Skotchmaster/product_inventory/internal/logging"
	"github.com/Skotchmaster/product_inventory/internal/models"
)

type Lister interface {
	ListProducts(ctx context.Context, token string) ([]models.Product, error)
}

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// View is a snapshot of what the listing shows.
type View struct {
	Items      []models.Product
	Page       int
	PageCount  int
	Matches    int
	Total      int
	TotalStock int
	Query      string
	Loading    bool
	Err        error
}

// Catalog holds the full product set fetched for one listing and the search
// and page state over it. Nothing is paged server side.
type Catalog struct {
	api    Lister
	tokens TokenSource
	size   int
	log    *slog.Logger

	mu       sync.RWMutex
	products []models.Product
	filtered []models.Product
	query    string
	page     int
	loading  bool
	err      error
	gen      uint64
}

func New(api Lister, tokens TokenSource, pageSize int, log *slog.Logger) *Catalog {
	if pageSize <= 0 {
		pageSize = HomePageSize
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Catalog{
		api:      api,
		tokens:   tokens,
		size:     pageSize,
		log:      log.With("component", "catalog"),
		products: []models.Product{},
		filtered: []models.Product{},
	}
}

// Load fetches the product set. When ctx is cancelled before the answer
// arrives, or a newer Load started, the answer is dropped.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.loading = true
	c.mu.Unlock()

	token := ""
	if c.tokens != nil {
		t, err := c.tokens.Token(ctx)
		if err != nil {
			c.log.Warn("catalog_token_unavailable", "error", err)
		} else {
			token = t
		}
	}

	products, err := c.api.ListProducts(ctx, token)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return context.Canceled
	}
	if ctx.Err() != nil {
		c.loading = false
		return ctx.Err()
	}
	c.loading = false
	if err != nil {
		c.err = err
		c.log.Warn("catalog_load_failed", "error", err)
		return fmt.Errorf("load products: %w", err)
	}
	c.err = nil
	c.products = products
	c.refilter()
	c.log.Debug("catalog_loaded", "count", len(products))
	return nil
}

// Search replaces the query. The page index is clamped when the filtered set
// shrinks below it.
func (c *Catalog) Search(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	c.refilter()
}

// SetPage moves to page, clamped to the valid range, and returns the page
// actually selected.
func (c *Catalog) SetPage(page int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = ClampPage(page, len(c.filtered), c.size)
	return c.page
}

func (c *Catalog) Page() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(Paginate(c.filtered, c.page, c.size))
}

func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products)
}

func (c *Catalog) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return View{
		Items:      slices.Clone(Paginate(c.filtered, c.page, c.size)),
		Page:       c.page,
		PageCount:  PageCount(len(c.filtered), c.size),
		Matches:    len(c.filtered),
		Total:      len(c.products),
		TotalStock: TotalStock(c.products),
		Query:      c.query,
		Loading:    c.loading,
		Err:        c.err,
	}
}

// Remove drops the product with id from the local set after a delete.
func (c *Catalog) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.products, func(p models.Product) bool { return p.ID == id })
	if i < 0 {
		return false
	}
	c.products = slices.Delete(c.products, i, i+1)
	c.refilter()
	return true
}

// Watch reloads the catalog every time refresh fires, until ctx is done.
func (c *Catalog) Watch(ctx context.Context, refresh *Refresh) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-refresh.C():
			if err := c.Load(ctx); err != nil && !errors.Is(err, context.Canceled) {
				c.log.Warn("catalog_refetch_failed", "error", err)
			}
		}
	}
}

func (c *Catalog) refilter() {
	c.filtered = Filter(c.products, c.query)
	c.page = ClampPage(c.page, len(c.filtered), c.size)
}
