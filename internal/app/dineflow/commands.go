package dineflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	menuapp "github.com/Apurer/dineflow/internal/domains/menu/application"
	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
	ordersapp "github.com/Apurer/dineflow/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/dineflow/internal/domains/orders/domain"
	sharederrors "github.com/Apurer/dineflow/internal/shared/errors"
)

// CommandOptions configures NewRootCommand.
type CommandOptions struct {
	Out    io.Writer
	ErrOut io.Writer
	// Config overrides LoadConfig when set.
	Config *Config
	Clock  func() time.Time
}

type cli struct {
	opts       CommandOptions
	app        *App
	jsonErrors bool
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, opts CommandOptions) int {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	c := &cli{opts: opts}
	defer c.close()

	root := c.rootCommand()
	root.SetArgs(args)
	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}
	format := sharederrors.FormatText
	if c.jsonErrors {
		format = sharederrors.FormatJSON
	}
	responder := NewResponder(opts.ErrOut, format)
	problem := responder.Classify(err)
	if cmd != nil {
		problem = problem.WithInstance(cmd.CommandPath())
	}
	return responder.Respond(problem)
}

// rootCommand builds the command tree. The App is built before any
// subcommand runs.
func (c *cli) rootCommand() *cobra.Command {
	opts := c.opts
	root := &cobra.Command{
		Use:           "dineflow",
		Short:         "Restaurant menu, order, and billing console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context())
		},
	}
	root.PersistentFlags().BoolVar(&c.jsonErrors, "json-errors", false, "report failures as JSON problem details")
	root.SetOut(opts.Out)
	root.SetErr(opts.ErrOut)
	root.AddCommand(c.menuCommand(), c.orderCommand(), c.reportCommand())
	return root
}

func (c *cli) open(ctx context.Context) error {
	var cfg Config
	if c.opts.Config != nil {
		cfg = *c.opts.Config
	} else {
		loaded, err := LoadConfig()
		if err != nil {
			return sharederrors.ErrValidation.WithDetail(err.Error())
		}
		cfg = loaded
	}
	app, err := Build(ctx, cfg, Options{LogOutput: c.opts.ErrOut, Clock: c.opts.Clock})
	if err != nil {
		return err
	}
	c.app = app
	return nil
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

// warn reports recoverable failures and swallows them: the in-memory change
// stands even when the snapshot could not be written.
func (c *cli) warn(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, menuapp.ErrPersistence) || errors.Is(err, ordersapp.ErrPersistence) {
		fmt.Fprintf(c.opts.ErrOut, "warning: %s\n", err)
		return nil
	}
	return err
}

func (c *cli) menuCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "menu", Short: "Manage the menu catalog"}

	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List menu items grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories := []menudomain.Category{menudomain.CategoryFood, menudomain.CategoryBeverage}
			if category != "" {
				cat, err := parseCategory(category)
				if err != nil {
					return err
				}
				categories = []menudomain.Category{cat}
			}
			for _, cat := range categories {
				items, err := c.app.Menu.ListByCategory(cmd.Context(), cat)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "== %s ==\n", cat)
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "  (none)")
				}
				for _, item := range items {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s%s\n", item.Describe(), availabilityNote(item))
				}
			}
			return nil
		},
	}
	list.Flags().StringVar(&category, "category", "", "only list food or beverage")

	var food menudomain.Food
	addFood := &cobra.Command{
		Use:   "add-food NAME PRICE",
		Short: "Add a food item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := parseMoney(args[1])
			if err != nil {
				return err
			}
			item, err := menudomain.NewFood(args[0], price, food)
			if err != nil {
				return sharederrors.ErrValidation.WithDetail(err.Error())
			}
			return c.addItem(cmd, item)
		},
	}
	addFood.Flags().StringVar(&food.Dietary, "dietary", "Veg", "dietary label")
	addFood.Flags().StringVar(&food.Cuisine, "cuisine", "Indian", "cuisine; "+menudomain.CuisineContinental+" carries a premium")
	addFood.Flags().IntVar(&food.PrepMinutes, "prep", 15, "preparation time in minutes")
	addFood.Flags().BoolVar(&food.Spicy, "spicy", false, "mark as spicy")

	var bev menudomain.Beverage
	var size string
	addBeverage := &cobra.Command{
		Use:   "add-beverage NAME PRICE",
		Short: "Add a beverage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := parseMoney(args[1])
			if err != nil {
				return err
			}
			bev.Size = menudomain.ServingSize(strings.ToUpper(strings.TrimSpace(size)))
			item, err := menudomain.NewBeverage(args[0], price, bev)
			if err != nil {
				return sharederrors.ErrValidation.WithDetail(err.Error())
			}
			return c.addItem(cmd, item)
		},
	}
	addBeverage.Flags().StringVar(&size, "size", string(menudomain.SizeSmall), "SMALL, MEDIUM, or LARGE")
	addBeverage.Flags().BoolVar(&bev.Alcoholic, "alcoholic", false, "mark as alcoholic")
	addBeverage.Flags().StringVar(&bev.Temperature, "temperature", "Cold", "serving temperature")

	price := &cobra.Command{
		Use:   "price NAME PRICE",
		Short: "Change an item's base price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoney(args[1])
			if err != nil {
				return err
			}
			item, err := c.app.Menu.UpdatePrice(cmd.Context(), args[0], amount)
			if err := c.warn(err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now costs ₹%s\n", item.Name, item.Price().StringFixed(2))
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle NAME",
		Short: "Flip an item's availability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := c.app.Menu.ToggleAvailability(cmd.Context(), args[0])
			if err := c.warn(err); err != nil {
				return err
			}
			state := "available"
			if !item.Available {
				state = "unavailable"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", item.Name, state)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove an item from the menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.warn(c.app.Menu.Remove(cmd.Context(), args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s removed\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, addFood, addBeverage, price, toggle, remove)
	return cmd
}

func (c *cli) addItem(cmd *cobra.Command, item *menudomain.Item) error {
	stored, err := c.app.Menu.Add(cmd.Context(), item)
	if err := c.warn(err); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", stored.Describe())
	return nil
}

func (c *cli) orderCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "order", Short: "Take and manage orders"}

	var (
		table    int
		customer string
		items    []string
		discount string
		note     string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Open a ticket, add items, and place the order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			// Parsed up front: AddEntry persists popularity.
			var percent *decimal.Decimal
			if discount != "" {
				p, err := parseMoney(discount)
				if err != nil {
					return err
				}
				percent = &p
			}
			ticket, err := c.app.Orders.NewTicket(ctx, table, customer)
			if err != nil {
				return err
			}
			for _, name := range items {
				if _, err := c.app.Orders.AddEntry(ctx, ticket, name); err != nil {
					if err := c.warn(err); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "skipped %q: %s\n", name, err)
					}
				}
			}
			if percent != nil {
				if err := c.app.Orders.ApplyDiscount(ctx, ticket, *percent); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "discount ignored: %s\n", err)
				}
			}
			ticket.SetInstructions(note)
			placed, err := c.app.Orders.Place(ctx, ticket)
			if err := c.warn(err); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ordersdomain.RenderReceipt(placed, c.app.Orders.Bill(ctx, placed)))
			return nil
		},
	}
	create.Flags().IntVar(&table, "table", 0, "table number")
	create.Flags().StringVar(&customer, "customer", "", "customer name")
	create.Flags().StringArrayVar(&items, "item", nil, "menu item name (repeatable)")
	create.Flags().StringVar(&discount, "discount", "", "discount percent between 0 and 100")
	create.Flags().StringVar(&note, "note", "", "special instructions")
	_ = create.MarkFlagRequired("table")
	_ = create.MarkFlagRequired("customer")

	list := &cobra.Command{
		Use:   "list",
		Short: "List placed orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tickets, err := c.app.Orders.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTABLE\tCUSTOMER\tSTATUS\tITEMS\tTOTAL")
			for _, t := range tickets {
				bill := c.app.Orders.Bill(cmd.Context(), t)
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t₹%s\n",
					t.ID, t.TableNumber, t.CustomerName, t.Status, len(t.Lines), bill.Total.StringFixed(2))
			}
			return w.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Print an order's receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrderID(args[0])
			if err != nil {
				return err
			}
			receipt, err := c.app.Orders.Receipt(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), receipt)
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Move an order to PENDING, PREPARING, SERVED, or BILLED (or 1-4)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrderID(args[0])
			if err != nil {
				return err
			}
			next, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			updated, err := c.app.Orders.UpdateStatus(cmd.Context(), id, next)
			if err := c.warn(err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order #%d is now %s\n", updated.ID, updated.Status)
			return nil
		},
	}

	receipt := &cobra.Command{
		Use:   "receipt ID",
		Short: "Export an order's receipt to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrderID(args[0])
			if err != nil {
				return err
			}
			path, err := c.app.Orders.ExportReceipt(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "receipt written to %s\n", path)
			return nil
		},
	}

	cmd.AddCommand(create, list, show, status, receipt)
	return cmd
}

func (c *cli) reportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Revenue, completion, and table utilization summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := c.app.Reports.Summary(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total orders:   %d\n", summary.OrderCount)
			fmt.Fprintf(out, "Total revenue:  ₹%s\n", summary.Revenue.StringFixed(2))
			if summary.Average != nil {
				fmt.Fprintf(out, "Average order:  ₹%s\n", summary.Average.StringFixed(2))
			} else {
				fmt.Fprintln(out, "Average order:  n/a")
			}
			fmt.Fprintf(out, "Billed orders:  %d\n", summary.Billed)
			fmt.Fprintf(out, "Open orders:    %d\n", summary.Open)
			if len(summary.Tables) == 0 {
				return nil
			}
			fmt.Fprintln(out, "\nBusiest tables")
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TABLE\tORDERS")
			for _, t := range summary.Tables {
				fmt.Fprintf(w, "%d\t%d\n", t.TableNumber, t.Orders)
			}
			return w.Flush()
		},
	}

	var top int
	popular := &cobra.Command{
		Use:   "popular",
		Short: "Most ordered menu items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := c.app.Reports.Popularity(cmd.Context(), top)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no items ordered yet")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tITEM\tCATEGORY\tORDERED")
			for i, item := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i+1, item.Name, item.Category(), item.Popularity)
			}
			return w.Flush()
		},
	}
	popular.Flags().IntVar(&top, "top", 5, "number of items to rank")

	cmd.AddCommand(popular)
	return cmd
}

func availabilityNote(item *menudomain.Item) string {
	if item.Available {
		return ""
	}
	return " (unavailable)"
}

func parseMoney(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, sharederrors.ErrValidation.WithDetail(fmt.Sprintf("%q is not a number", raw))
	}
	return amount, nil
}

func parseOrderID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil {
		return 0, sharederrors.ErrValidation.WithDetail(fmt.Sprintf("%q is not an order id", raw))
	}
	return id, nil
}

func parseStatus(raw string) (ordersdomain.Status, error) {
	var (
		status ordersdomain.Status
		err    error
	)
	if choice, convErr := strconv.Atoi(strings.TrimSpace(raw)); convErr == nil {
		status, err = ordersdomain.StatusFromIndex(choice)
	} else {
		status, err = ordersdomain.ParseStatus(raw)
	}
	if err != nil {
		return "", sharederrors.ErrValidation.WithDetail(fmt.Sprintf("%q: %s", raw, err))
	}
	return status, nil
}

func parseCategory(raw string) (menudomain.Category, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "food":
		return menudomain.CategoryFood, nil
	case "beverage", "drink":
		return menudomain.CategoryBeverage, nil
	default:
		return "", sharederrors.ErrValidation.WithDetail(fmt.Sprintf("unknown category %q", raw))
	}
}
