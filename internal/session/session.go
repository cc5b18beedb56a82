package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Skotchmaster/product_inventory/internal/logging"
	"github.com/Skotchmaster/product_inventory/internal/models"
	"github.com/Skotchmaster/product_inventory/internal/route"
	"github.com/Skotchmaster/product_inventory/pkg/apiclient"
)

var ErrIncomplete = errors.New("please fill all fields")

type API interface {
	Login(ctx context.Context, email, password string) (*apiclient.LoginResponse, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.RegisterResponse, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type State struct {
	User    *models.User
	Loading bool
}

func (s State) LoggedIn() bool { return s.User != nil }

// Session is the single process-wide view of who is logged in. Components read
// Current or Subscribe instead of fetching the user themselves.
type Session struct {
	api   API
	store TokenStore
	log   *slog.Logger
	now   func() time.Time

	mu     sync.RWMutex
	state  State
	gen    uint64
	subs   map[int]func(State)
	nextID int
}

func New(api API, store TokenStore, log *slog.Logger) *Session {
	if log == nil {
		log = logging.Discard()
	}
	return &Session{
		api:   api,
		store: store,
		log:   log.With("component", "session"),
		now:   time.Now,
		state: State{Loading: true},
		subs:  make(map[int]func(State)),
	}
}

func (s *Session) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn for every state change and returns the function that
// removes it.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Token returns the persisted bearer token ("" when logged out).
func (s *Session) Token(ctx context.Context) (string, error) {
	return s.store.Get(ctx)
}

// Resolve reads the stored token and settles the state to either a user or no
// user. The returned state has Loading false unless a newer Resolve started
// meanwhile, in which case that one settles it.
func (s *Session) Resolve(ctx context.Context) State {
	gen := s.begin()

	token, err := s.store.Get(ctx)
	if err != nil {
		s.log.Warn("session_resolve_failed", "reason", "cannot read token", "error", err)
		return s.settle(gen, nil)
	}
	if token == "" {
		return s.settle(gen, nil)
	}
	if expiredJWT(token, s.now()) {
		s.log.Info("session_resolve_skipped", "reason", "token expired")
		return s.settle(gen, nil)
	}

	user, err := s.api.CurrentUser(ctx, token)
	if err != nil {
		s.log.Warn("session_resolve_failed", "reason", "cannot fetch current user", "error", err)
		return s.settle(gen, nil)
	}
	return s.settle(gen, user)
}

// Login exchanges credentials for a token, persists it and resolves the user.
func (s *Session) Login(ctx context.Context, email, password string) (State, route.Route, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return s.Current(), route.None, ErrIncomplete
	}
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.Warn("login_failed", "error", err)
		return s.Current(), route.None, fmt.Errorf("login: %w", err)
	}
	if err := s.store.Set(ctx, res.Token); err != nil {
		return s.Current(), route.None, fmt.Errorf("persist token: %w", err)
	}
	st := s.Resolve(ctx)
	s.log.Info("login_success", "logged_in", st.LoggedIn())
	return st, route.Home, nil
}

func (s *Session) Register(ctx context.Context, username, email, password string) (route.Route, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return route.None, ErrIncomplete
	}
	_, err := s.api.Register(ctx, apiclient.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		s.log.Warn("register_failed", "error", err)
		return route.None, fmt.Errorf("register: %w", err)
	}
	s.log.Info("register_success", "username", username)
	return route.Login, nil
}

// Logout forgets the token and sends the user to the login view.
func (s *Session) Logout(ctx context.Context) (route.Route, error) {
	gen := s.begin()
	err := s.store.Clear(ctx)
	s.settle(gen, nil)
	if err != nil {
		return route.Login, fmt.Errorf("logout: %w", err)
	}
	return route.Login, nil
}

// FailureMessage renders a login or register failure the way the forms show it.
func FailureMessage(action string, err error) string {
	if errors.Is(err, ErrIncomplete) {
		return "Please fill all fields"
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		return "Validation errors: " + strings.Join(apiErr.Fields, ", ")
	}
	return action + " failed: " + apiclient.ServerMessage(err, "Unknown error")
}

func (s *Session) begin() uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	changed := !s.state.Loading
	s.state.Loading = true
	st, subs := s.state, s.listeners()
	s.mu.Unlock()

	if changed {
		notify(subs, st)
	}
	return gen
}

// settle publishes the outcome of the resolve started as gen. A newer resolve
// wins; the stale outcome is dropped and the current state returned.
func (s *Session) settle(gen uint64, user *models.User) State {
	s.mu.Lock()
	if gen != s.gen {
		st := s.state
		s.mu.Unlock()
		return st
	}
	s.state = State{User: user, Loading: false}
	st, subs := s.state, s.listeners()
	s.mu.Unlock()

	notify(subs, st)
	return st
}

func (s *Session) listeners() []func(State) {
	out := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(State), st State) {
	for _, fn := range subs {
		fn(st)
	}
}
