package productitem

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_inventory/internal/catalog"
	"github.com/Skotchmaster/product_inventory/internal/models"
	"github.com/Skotchmaster/product_inventory/internal/route"
	"github.com/Skotchmaster/product_inventory/internal/session"
	"github.com/Skotchmaster/product_inventory/pkg/apiclient"
)

type fakeSession struct {
	user  *models.User
	token string
}

func (f fakeSession) Current() session.State { return session.State{User: f.user} }

func (f fakeSession) Token(context.Context) (string, error) { return f.token, nil }

type fakeDeleter struct {
	mu    sync.Mutex
	err   error
	calls []string
	gate  chan struct{}
}

func (f *fakeDeleter) DeleteProduct(ctx context.Context, token, id string) (*apiclient.DeleteResponse, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, token+":"+id)
	if f.err != nil {
		return nil, f.err
	}
	return &apiclient.DeleteResponse{Message: "Product removed"}, nil
}

func (f *fakeDeleter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeLister []models.Product

func (f fakeLister) ListProducts(context.Context, string) ([]models.Product, error) {
	return append([]models.Product(nil), f...), nil
}

var (
	owner    = &models.User{ID: "u1", Username: "owner"}
	stranger = &models.User{ID: "u2", Username: "stranger"}
	product  = models.Product{ID: "p1", Name: "Widget", CreatedBy: "u1"}
)

func TestItem_OwnerGetsActions(t *testing.T) {
	it := New(product, Deps{API: &fakeDeleter{}, Session: fakeSession{user: owner}})

	assert.True(t, it.IsOwner())
	assert.Equal(t, []Action{ActionEdit, ActionDelete}, it.Actions())

	target, err := it.EditTarget()
	require.NoError(t, err)
	assert.Equal(t, route.Route("/products/edit/p1"), target)
}

func TestItem_NonOwnerIsNeverOfferedDelete(t *testing.T) {
	for name, user := range map[string]*models.User{"stranger": stranger, "logged out": nil} {
		t.Run(name, func(t *testing.T) {
			api := &fakeDeleter{}
			it := New(product, Deps{API: api, Session: fakeSession{user: user, token: "tok"}})

			assert.False(t, it.IsOwner())
			assert.Empty(t, it.Actions())

			_, err := it.EditTarget()
			assert.ErrorIs(t, err, ErrNotOwner)
			assert.ErrorIs(t, it.Delete(context.Background()), ErrNotOwner)
			assert.Zero(t, api.count())
		})
	}
}

func TestItem_DeleteRemovesFromCatalogAndSignals(t *testing.T) {
	cat := catalog.New(fakeLister{product, {ID: "p2", CreatedBy: "u2"}}, nil, 8, nil)
	require.NoError(t, cat.Load(context.Background()))
	refresh := catalog.NewRefresh()

	api := &fakeDeleter{}
	it := New(product, Deps{API: api, Session: fakeSession{user: owner, token: "tok"}, Catalog: cat, Refresh: refresh})

	require.NoError(t, it.Delete(context.Background()))
	assert.Equal(t, []string{"tok:p1"}, api.calls)
	assert.True(t, it.Removed())
	assert.False(t, it.Busy())
	assert.Equal(t, 1, cat.View().Total)

	select {
	case <-refresh.C():
	default:
		t.Fatal("expected refetch signal")
	}
}

func TestItem_DeleteFailureShowsError(t *testing.T) {
	api := &fakeDeleter{err: &apiclient.APIError{Status: http.StatusInternalServerError}}
	it := New(product, Deps{API: api, Session: fakeSession{user: owner, token: "tok"}})

	err := it.Delete(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to delete product", it.Error())
	assert.False(t, it.Busy())
	assert.False(t, it.Removed())
}

func TestItem_BusyDuringDelete(t *testing.T) {
	api := &fakeDeleter{gate: make(chan struct{})}
	it := New(product, Deps{API: api, Session: fakeSession{user: owner, token: "tok"}})

	done := make(chan error, 1)
	go func() { done <- it.Delete(context.Background()) }()

	require.Eventually(t, it.Busy, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, it.Delete(context.Background()), ErrBusy)

	close(api.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, api.count())
	assert.False(t, it.Busy())
}
