package productitem

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Skotchmaster/product_inventory/internal/catalog"
	"github.com/Skotchmaster/product_inventory/internal/logging"
	"github.com/Skotchmaster/product_inventory/internal/models"
	"github.com/Skotchmaster/product_inventory/internal/route"
	"github.com/Skotchmaster/product_inventory/internal/session"
	"github.com/Skotchmaster/product_inventory/pkg/apiclient"
)

const deleteFailedMessage = "Failed to delete product"

var (
	ErrNotOwner = errors.New("only the product owner can change it")
	ErrBusy     = errors.New("delete already in progress")
)

type Deleter interface {
	DeleteProduct(ctx context.Context, token, id string) (*apiclient.DeleteResponse, error)
}

type Session interface {
	Current() session.State
	Token(ctx context.Context) (string, error)
}

type Remover interface {
	Remove(id string) bool
}

type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

type Deps struct {
	API     Deleter
	Session Session
	// Catalog and Refresh are optional; a successful delete updates whichever
	// is present.
	Catalog Remover
	Refresh *catalog.Refresh
	Log     *slog.Logger
}

// Item is one product row.
type Item struct {
	product models.Product
	deps    Deps
	log     *slog.Logger

	mu      sync.Mutex
	busy    bool
	removed bool
	errMsg  string
}

func New(p models.Product, deps Deps) *Item {
	log := deps.Log
	if log == nil {
		log = logging.Discard()
	}
	return &Item{
		product: p,
		deps:    deps,
		log:     log.With("component", "product_item", "product_id", p.ID),
	}
}

func (it *Item) Product() models.Product { return it.product }

// IsOwner reports whether the logged in user created this product. It reads
// the shared session; it never fetches the user itself.
func (it *Item) IsOwner() bool {
	st := it.deps.Session.Current()
	if st.User == nil || st.User.ID == "" {
		return false
	}
	return st.User.ID == it.product.CreatedBy
}

// Actions lists what the row offers: edit and delete for the owner, nothing
// for anyone else.
func (it *Item) Actions() []Action {
	if !it.IsOwner() {
		return nil
	}
	return []Action{ActionEdit, ActionDelete}
}

func (it *Item) EditTarget() (route.Route, error) {
	if !it.IsOwner() {
		return route.None, ErrNotOwner
	}
	return route.EditProduct(it.product.ID), nil
}

func (it *Item) Busy() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.busy
}

func (it *Item) Removed() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.removed
}

func (it *Item) Error() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.errMsg
}

// Delete removes the product on the server. On success the row is dropped
// from the catalog and a refetch is signalled; on failure the row shows an
// error and can be tried again.
func (it *Item) Delete(ctx context.Context) error {
	if !it.IsOwner() {
		return ErrNotOwner
	}

	it.mu.Lock()
	if it.busy {
		it.mu.Unlock()
		return ErrBusy
	}
	it.busy = true
	it.errMsg = ""
	it.mu.Unlock()

	err := it.send(ctx)

	it.mu.Lock()
	defer it.mu.Unlock()
	it.busy = false
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		it.errMsg = deleteFailedMessage
		it.log.Warn("product_delete_failed", "error", err)
		return err
	}

	it.removed = true
	if it.deps.Catalog != nil {
		it.deps.Catalog.Remove(it.product.ID)
	}
	if it.deps.Refresh != nil {
		it.deps.Refresh.Signal()
	}
	it.log.Info("product_delete_success")
	return nil
}

func (it *Item) send(ctx context.Context) error {
	token, err := it.deps.Session.Token(ctx)
	if err != nil {
		return err
	}
	_, err = it.deps.API.DeleteProduct(ctx, token, it.product.ID)
	return err
}
