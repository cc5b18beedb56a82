package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_inventory/internal/devapi/httpserver"
	"github.com/Skotchmaster/product_inventory/internal/devapi/repo"
	"github.com/Skotchmaster/product_inventory/internal/devapi/service"
	"github.com/Skotchmaster/product_inventory/internal/mykafka"
	"github.com/Skotchmaster/product_inventory/pkg/apiclient"
)

type harness struct {
	t   *testing.T
	url string
	db  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := repo.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	store := &repo.GormRepo{DB: db}
	srv := httptest.NewServer(httpserver.New(&httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: store, JWTSecret: []byte("cli")}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: store, Publisher: mykafka.Nop{}}},
	}))
	t.Cleanup(func() {
		srv.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	t.Setenv("INVENTORY_LOG_LEVEL", "error")
	return &harness{t: t, url: srv.URL, db: filepath.Join(t.TempDir(), "session.db")}
}

func (h *harness) run(stdin string, args ...string) (string, string, int) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--api-url", h.url, "--token-db", h.db}, args...)
	code := Execute(context.Background(), full, strings.NewReader(stdin), &out, &errOut)
	return out.String(), errOut.String(), code
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, errOut, code := h.run("", args...)
	require.Equal(h.t, 0, code, errOut)
	return out
}

func TestCLI_SessionLifecycle(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "Login | Register\n", h.mustRun("whoami"))

	out := h.mustRun("register", "--username", "alice", "--email", "alice@example.com", "--password", "secret123")
	assert.Contains(t, out, "Registration successful")

	out, _, code := h.run("alice@example.com\nsecret123\n", "login")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Email: Password: Logged in as alice")

	assert.Equal(t, "alice\n", h.mustRun("whoami"))

	assert.Equal(t, "Logged out\n", h.mustRun("logout"))
	assert.Equal(t, "Login | Register\n", h.mustRun("whoami"))
}

func TestCLI_LoginFailure(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.run("", "login", "--email", "ghost@example.com", "--password", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Login failed: Invalid credentials")

	_, errOut, code = h.run("", "register", "--username", "bob", "--email", "bad", "--password", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Validation errors: Please include a valid email, Password must be at least 6 characters")
}

func TestCLI_Products(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "--username", "alice", "--email", "alice@example.com", "--password", "secret123")
	h.mustRun("login", "--email", "alice@example.com", "--password", "secret123")

	for _, name := range []string{"Hammer", "Wrench", "Saw"} {
		out := h.mustRun("products", "create", "--name", name, "--price", "5", "--description", "tool", "--category", "Tools", "--stock", "2")
		assert.Equal(t, "Add Product: saved\n", out)
	}

	_, errOut, code := h.run("", "products", "create", "--name", "Nail")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "required field missing")

	out := h.mustRun("products", "list")
	assert.Contains(t, out, "Hammer")
	assert.Contains(t, out, "Wrench")
	assert.NotContains(t, out, "Saw")
	assert.Contains(t, out, "Page 1 of 2 (3 matching)")
	assert.Contains(t, out, "edit,delete")

	out = h.mustRun("products", "list", "--page", "9")
	assert.Contains(t, out, "Saw")
	assert.Contains(t, out, "Page 2 of 2")

	out = h.mustRun("products", "list", "--home")
	assert.Contains(t, out, "Total products: 3, total stock: 6")

	out = h.mustRun("products", "list", "--search", "zzz")
	assert.Contains(t, out, "No products found")

	products, err := apiclient.NewClient(h.url).ListProducts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, products, 3)
	var id, hammer string
	for _, p := range products {
		switch p.Name {
		case "Wrench":
			id = p.ID
		case "Hammer":
			hammer = p.ID
		}
	}
	require.NotEmpty(t, id)

	out = h.mustRun("products", "edit", id, "--stock", "11")
	assert.Equal(t, "Edit Product: saved\n", out)
	out = h.mustRun("products", "show", id)
	assert.Contains(t, out, "Wrench")
	assert.Contains(t, out, "11")

	assert.Equal(t, "Product removed\n", h.mustRun("products", "delete", id))
	_, errOut, code = h.run("", "products", "show", id)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Product not found")

	h.mustRun("logout")
	out = h.mustRun("products", "list")
	assert.NotContains(t, out, "edit,delete")

	_, errOut, code = h.run("", "products", "delete", hammer)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "only the product owner")
}
