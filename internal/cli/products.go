package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/product_inventory/internal/catalog"
	"github.com/Skotchmaster/product_inventory/internal/models"
	"github.com/Skotchmaster/product_inventory/internal/productform"
	"github.com/Skotchmaster/product_inventory/internal/productitem"
)

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"p"},
		Short:   "List and manage products",
	}
	cmd.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newCreateCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
	)
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		search string
		page   int
		size   int
		home   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a.resolve(ctx)

			if size <= 0 {
				size = a.cfg.ListPageSize
				if home {
					size = a.cfg.HomePageSize
				}
			}
			cat := catalog.New(a.api, a.sess, size, a.log)
			if err := cat.Load(ctx); err != nil {
				return fmt.Errorf("fetch products: %w", err)
			}
			cat.Search(search)
			cat.SetPage(page - 1)

			view := cat.View()
			rows := make([]*productitem.Item, 0, len(view.Items))
			for _, p := range view.Items {
				rows = append(rows, productitem.New(p, productitem.Deps{API: a.api, Session: a.sess, Log: a.log}))
			}
			printTable(a.out, rows)
			printFooter(a.out, view, home)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name or category")
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", 0, "items per page")
	cmd.Flags().BoolVar(&home, "home", false, "use the home page size and show inventory totals")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.api.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get product: %w", err)
			}
			printProduct(a.out, *p)
			return nil
		},
	}
}

type fieldFlags struct {
	name, price, description, category, stock string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.price, "price", "", "unit price")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringVar(&f.stock, "stock", "", "units in stock")
}

// apply overlays the flags that were given on top of v.
func (f *fieldFlags) apply(cmd *cobra.Command, v productform.Fields) productform.Fields {
	set := func(flag, val string, dst *string) {
		if cmd.Flags().Changed(flag) {
			*dst = val
		}
	}
	set("name", f.name, &v.Name)
	set("price", f.price, &v.Price)
	set("description", f.description, &v.Description)
	set("category", f.category, &v.Category)
	set("stock", f.stock, &v.Stock)
	return v
}

func newCreateCmd(a *app) *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := productform.New(a.api, a.sess, "", a.log)
			form.SetFields(ff.apply(cmd, productform.Fields{}))
			return submit(cmd, a, form)
		},
	}
	ff.register(cmd)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a product; fields not given keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			form := productform.New(a.api, a.sess, args[0], a.log)
			if err := form.Load(ctx); err != nil {
				return errors.New(form.Error())
			}
			form.SetFields(ff.apply(cmd, form.Fields()))
			return submit(cmd, a, form)
		},
	}
	ff.register(cmd)
	return cmd
}

func submit(cmd *cobra.Command, a *app, form *productform.Form) error {
	next, err := form.Submit(cmd.Context())
	if err != nil {
		if msg := form.Error(); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	a.log.Debug("navigate", "to", string(next))
	fmt.Fprintf(a.out, "%s: saved\n", form.Title())
	return nil
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a.resolve(ctx)

			p, err := a.api.GetProduct(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get product: %w", err)
			}
			item := productitem.New(*p, productitem.Deps{API: a.api, Session: a.sess, Log: a.log})
			if err := item.Delete(ctx); err != nil {
				if errors.Is(err, productitem.ErrNotOwner) {
					return err
				}
				return errors.New(item.Error())
			}
			fmt.Fprintln(a.out, "Product removed")
			return nil
		},
	}
}

func printTable(w io.Writer, rows []*productitem.Item) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tACTIONS")
	for _, it := range rows {
		p := it.Product()
		actions := make([]string, 0, 2)
		for _, act := range it.Actions() {
			actions = append(actions, string(act))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, p.Name, p.Category, formatPrice(p.Price), p.Stock, strings.Join(actions, ","))
	}
	_ = tw.Flush()
}

func printFooter(w io.Writer, v catalog.View, home bool) {
	if v.Matches == 0 {
		fmt.Fprintln(w, "No products found")
	} else {
		fmt.Fprintf(w, "Page %d of %d (%d matching)\n", v.Page+1, v.PageCount, v.Matches)
	}
	if home {
		fmt.Fprintf(w, "Total products: %d, total stock: %d\n", v.Total, v.TotalStock)
	}
}

func printProduct(w io.Writer, p models.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Price:\t%s\n", formatPrice(p.Price))
	fmt.Fprintf(tw, "Category:\t%s\n", p.Category)
	fmt.Fprintf(tw, "Stock:\t%d\n", p.Stock)
	fmt.Fprintf(tw, "Description:\t%s\n", p.Description)
	_ = tw.Flush()
}

func formatPrice(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}
