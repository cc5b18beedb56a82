package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Skotchmaster/product_inventory/internal/config"
	"github.com/Skotchmaster/product_inventory/internal/logging"
	"github.com/Skotchmaster/product_inventory/internal/session"
	"github.com/Skotchmaster/product_inventory/internal/tokenstore"
	"github.com/Skotchmaster/product_inventory/pkg/apiclient"
)

// app holds what every command shares. It is filled lazily by setup so that
// --help and flag errors never touch the token database.
type app struct {
	v   *viper.Viper
	in  io.Reader
	out io.Writer

	cfg   *config.Config
	log   *slog.Logger
	api   *apiclient.Client
	store *tokenstore.Store
	sess  *session.Session
}

func (a *app) setup(ctx context.Context) error {
	if a.sess != nil {
		return nil
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(cfg.LogLevel).With("app", "inventory")

	store, err := tokenstore.Open(ctx, cfg.TokenDB)
	if err != nil {
		return fmt.Errorf("open token store: %w", err)
	}
	a.store = store
	a.api = apiclient.NewClient(cfg.APIURL, apiclient.WithTimeout(cfg.Timeout))
	a.sess = session.New(a.api, store, a.log)
	a.log.Debug("cli_ready", "api_url", cfg.APIURL, "token_db", cfg.TokenDB)
	return nil
}

// resolve settles the session so ownership and the navbar are known.
func (a *app) resolve(ctx context.Context) session.State {
	return a.sess.Resolve(logging.IntoContext(ctx, a.log))
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Execute runs the command line with args and returns the process exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	config.LoadDotEnv()
	a := &app{v: config.New(), in: in, out: out}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		if errors.Is(err, context.Canceled) {
			return 130
		}
		return 1
	}
	return 0
}
