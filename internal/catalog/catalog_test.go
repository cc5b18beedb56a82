package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_inventory/internal/models"
	"github.com/Skotchmaster/product_inventory/pkg/apiclient"
)

type fakeLister struct {
	mu        sync.Mutex
	products  []models.Product
	err       error
	calls     int
	lastToken string
	block     chan struct{}
}

func (f *fakeLister) ListProducts(ctx context.Context, token string) ([]models.Product, error) {
	f.mu.Lock()
	f.calls++
	f.lastToken = token
	block := f.block
	products, err := append([]models.Product(nil), f.products...), f.err
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return products, err
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

func makeProducts(n int) []models.Product {
	out := make([]models.Product, n)
	for i := range out {
		out[i] = models.Product{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Item %d", i), Category: "misc", Stock: i}
	}
	return out
}

func TestFilter(t *testing.T) {
	products := []models.Product{
		{Name: "Widget A", Category: "tools"},
		{Name: "Gadget", Category: "toys"},
		{Name: "Sprocket", Category: "WIDGETS"},
	}

	got := Filter(products[:2], "widget")
	require.Len(t, got, 1)
	assert.Equal(t, "Widget A", got[0].Name)

	got = Filter(products, "WiDgEt")
	assert.Len(t, got, 2)

	assert.Len(t, Filter(products, ""), 3)
	assert.Empty(t, Filter(products, "nothing"))
}

func TestFilter_Idempotent(t *testing.T) {
	products := []models.Product{
		{Name: "Red Chair", Category: "furniture"},
		{Name: "Blue Chair", Category: "furniture"},
		{Name: "Lamp", Category: "lighting"},
	}
	for _, q := range []string{"chair", "FURN", "l", ""} {
		once := Filter(products, q)
		assert.Equal(t, once, Filter(once, q), q)
	}
}

func TestPaginate_Sizes(t *testing.T) {
	items := makeProducts(9)

	assert.Len(t, Paginate(items, 0, 8), 8)
	assert.Len(t, Paginate(items, 1, 8), 1)
	assert.Empty(t, Paginate(items, 2, 8))
	assert.Empty(t, Paginate(items, -1, 8))
	assert.Empty(t, Paginate(items, 0, 0))
	assert.Empty(t, Paginate([]models.Product{}, 0, 8))
}

func TestPaginate_EveryValidPage(t *testing.T) {
	for total := 0; total <= 20; total++ {
		for size := 1; size <= 7; size++ {
			items := makeProducts(total)
			pages := PageCount(total, size)
			seen := 0
			for page := 0; page < pages; page++ {
				got := Paginate(items, page, size)
				assert.Len(t, got, min(size, total-page*size))
				seen += len(got)
			}
			assert.Equal(t, total, seen)
			assert.Empty(t, Paginate(items, pages, size))
		}
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 0, ClampPage(5, 0, 8))
	assert.Equal(t, 1, ClampPage(5, 9, 8))
	assert.Equal(t, 0, ClampPage(-3, 9, 8))
	assert.Equal(t, 1, ClampPage(1, 9, 8))
}

func TestCatalog_LoadSendsTokenAndComputesStock(t *testing.T) {
	api := &fakeLister{products: makeProducts(3)}
	c := New(api, staticToken("tok"), ListPageSize, nil)

	require.NoError(t, c.Load(context.Background()))
	v := c.View()
	assert.Equal(t, "tok", api.lastToken)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, 0+1+2, v.TotalStock)
	assert.Equal(t, 2, v.PageCount)
	assert.Len(t, v.Items, 2)
	assert.False(t, v.Loading)
}

func TestCatalog_LoadWithoutToken(t *testing.T) {
	api := &fakeLister{products: makeProducts(1)}
	c := New(api, nil, 0, nil)

	require.NoError(t, c.Load(context.Background()))
	assert.Empty(t, api.lastToken)
}

func TestCatalog_SearchClampsPage(t *testing.T) {
	products := makeProducts(9)
	products[8].Name = "Special"
	c := New(&fakeLister{products: products}, nil, HomePageSize, nil)
	require.NoError(t, c.Load(context.Background()))

	require.Equal(t, 1, c.SetPage(1))
	require.Len(t, c.Page(), 1)

	c.Search("item")
	v := c.View()
	assert.Equal(t, 0, v.Page)
	assert.Len(t, v.Items, 8)

	c.Search("no match at all")
	v = c.View()
	assert.Equal(t, 0, v.Page)
	assert.Empty(t, v.Items)
	assert.Equal(t, 0, v.PageCount)
}

func TestCatalog_SetPageClamps(t *testing.T) {
	c := New(&fakeLister{products: makeProducts(5)}, nil, 2, nil)
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, 2, c.SetPage(10))
	assert.Equal(t, 0, c.SetPage(-1))
}

func TestCatalog_LoadErrorIsNotRedirect(t *testing.T) {
	api := &fakeLister{err: &apiclient.APIError{Status: http.StatusBadRequest, Message: "bad"}}
	c := New(api, nil, 2, nil)

	err := c.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apiclient.ErrValidation)
	assert.Error(t, c.View().Err)
	assert.False(t, c.View().Loading)
}

func TestCatalog_CancelledLoadDropsResult(t *testing.T) {
	api := &fakeLister{products: makeProducts(4), block: make(chan struct{})}
	c := New(api, nil, 2, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Load(ctx) }()

	require.Eventually(t, func() bool { return api.callCount() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	err := <-done
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, c.Products())
}

func TestCatalog_Remove(t *testing.T) {
	c := New(&fakeLister{products: makeProducts(3)}, nil, 2, nil)
	require.NoError(t, c.Load(context.Background()))
	c.SetPage(1)

	assert.True(t, c.Remove("p2"))
	assert.False(t, c.Remove("p2"))

	v := c.View()
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, 0, v.Page)
}

func TestCatalog_WatchRefetchesOnSignal(t *testing.T) {
	api := &fakeLister{products: makeProducts(1)}
	c := New(api, nil, 2, nil)
	refresh := NewRefresh()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Watch(ctx, refresh)

	refresh.Signal()
	refresh.Signal()
	require.Eventually(t, func() bool { return api.callCount() >= 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return c.View().Total == 1 }, time.Second, 5*time.Millisecond)
}
