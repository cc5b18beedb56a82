package productform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/product_inventory/internal/logging"
	"github.com/Skotchmaster/product_inventory/internal/models"
	"github.com/Skotchmaster/product_inventory/internal/route"
	"github.com/Skotchmaster/product_inventory/pkg/apiclient"
)

const (
	loadFailedMessage = "Failed to load product details"
	fallbackMessage   = "An error occurred"
)

var (
	ErrBusy     = errors.New("submission already in progress")
	ErrRequired = errors.New("required field missing")
	ErrNumber   = errors.New("not a number")
)

type API interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, token string, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, token, id string, in models.ProductInput) (*models.Product, error)
}

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Mode int

const (
	Create Mode = iota
	Edit
)

func (m Mode) String() string {
	if m == Edit {
		return "edit"
	}
	return "create"
}

type Status int

const (
	Idle Status = iota
	Submitting
	Done
)

// Fields are the raw input values, as typed.
type Fields struct {
	Name        string `validate:"required"`
	Price       string `validate:"required"`
	Description string `validate:"required"`
	Category    string `validate:"required"`
	Stock       string `validate:"required"`
}

// Form is one product form instance, in create mode when built without an id
// and in edit mode otherwise.
type Form struct {
	api      API
	tokens   TokenSource
	id       string
	validate *validator.Validate
	log      *slog.Logger

	mu     sync.Mutex
	fields Fields
	status Status
	errMsg string
}

func New(api API, tokens TokenSource, id string, log *slog.Logger) *Form {
	if log == nil {
		log = logging.Discard()
	}
	return &Form{
		api:      api,
		tokens:   tokens,
		id:       id,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With("component", "product_form", "product_id", id),
	}
}

func (f *Form) Mode() Mode {
	if f.id != "" {
		return Edit
	}
	return Create
}

func (f *Form) Title() string {
	if f.Mode() == Edit {
		return "Edit Product"
	}
	return "Add Product"
}

// Load pre-fills the fields from the existing product in edit mode. A failure
// leaves the form in place with an error message.
func (f *Form) Load(ctx context.Context) error {
	if f.Mode() != Edit {
		return nil
	}
	p, err := f.api.GetProduct(ctx, f.id)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.log.Warn("product_form_load_failed", "error", err)
		f.errMsg = loadFailedMessage
		return fmt.Errorf("load product %s: %w", f.id, err)
	}
	f.fields = FieldsFrom(*p)
	return nil
}

func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form) SetFields(v Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = v
}

func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Error is the message shown under the form, "" when there is none.
func (f *Form) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Submit sends exactly one create or update request. On success the form is
// done and the listing is the next view.
func (f *Form) Submit(ctx context.Context) (route.Route, error) {
	f.mu.Lock()
	if f.status != Idle {
		f.mu.Unlock()
		return route.None, ErrBusy
	}
	fields := f.fields
	if err := f.check(fields); err != nil {
		f.errMsg = err.Error()
		f.mu.Unlock()
		return route.None, err
	}
	in, err := fields.Input()
	if err != nil {
		f.errMsg = err.Error()
		f.mu.Unlock()
		return route.None, err
	}
	f.status = Submitting
	f.errMsg = ""
	f.mu.Unlock()

	err = f.send(ctx, in)

	f.mu.Lock()
	defer f.mu.Unlock()
	if ctx.Err() != nil {
		f.status = Idle
		return route.None, ctx.Err()
	}
	if err != nil {
		f.status = Idle
		f.errMsg = apiclient.ServerMessage(err, fallbackMessage)
		f.log.Warn("product_form_submit_failed", "mode", f.Mode().String(), "error", err)
		return route.None, err
	}
	f.status = Done
	f.log.Info("product_form_submit_success", "mode", f.Mode().String())
	return route.Products, nil
}

func (f *Form) send(ctx context.Context, in models.ProductInput) error {
	token, err := f.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if f.Mode() == Edit {
		_, err = f.api.UpdateProduct(ctx, token, f.id, in)
	} else {
		_, err = f.api.CreateProduct(ctx, token, in)
	}
	return err
}

func (f *Form) check(fields Fields) error {
	err := f.validate.Struct(fields)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("%w: %s", ErrRequired, strings.Join(missing, ", "))
}

// Input converts the typed values into a request body.
func (v Fields) Input() (models.ProductInput, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(v.Price), 64)
	if err != nil {
		return models.ProductInput{}, fmt.Errorf("%w: price %q", ErrNumber, v.Price)
	}
	stock, err := strconv.Atoi(strings.TrimSpace(v.Stock))
	if err != nil {
		return models.ProductInput{}, fmt.Errorf("%w: stock %q", ErrNumber, v.Stock)
	}
	return models.ProductInput{
		Name:        v.Name,
		Price:       price,
		Description: v.Description,
		Category:    v.Category,
		Stock:       stock,
	}, nil
}

func FieldsFrom(p models.Product) Fields {
	return Fields{
		Name:        p.Name,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Description: p.Description,
		Category:    p.Category,
		Stock:       strconv.Itoa(p.Stock),
	}
}
