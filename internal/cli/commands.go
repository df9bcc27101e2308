package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"ecommerce-dashboard/internal/display"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/services"
)

const defaultTop = 5

// Options are the flags shared by every report command.
type Options struct {
	Transactions string
	Geolocations string
	Currency     string
	Out          io.Writer
}

func (o *Options) SetFlags(f *flag.FlagSet) {
	f.StringVar(&o.Transactions, "transactions", o.Transactions, "Transactions CSV file")
	f.StringVar(&o.Geolocations, "geolocations", o.Geolocations, "Customer geolocation CSV file. Empty skips it.")
}

// view carries what a renderer needs beyond the report itself.
type view struct {
	format    display.Formatter
	top       int
	locations int
}

// reportCmd loads the data, computes the report for the selected range and
// prints one markdown rendering of it.
type reportCmd struct {
	name     string
	synopsis string
	usage    string
	render   func(rep *models.Report, v view) string
	needsGeo bool

	opts  *Options
	start string
	end   string
	top   int
	raw   bool
}

// Commands returns the report subcommands bound to opts.
func Commands(opts *Options) []subcommands.Command {
	return []subcommands.Command{
		&reportCmd{
			name:     "summary",
			synopsis: "display headline totals for a date range",
			usage:    "Displays order, revenue and customer totals.",
			needsGeo: true,
			render: func(rep *models.Report, v view) string {
				return summaryMarkdown(rep, v.format, v.locations)
			},
			opts: opts,
		},
		&reportCmd{
			name:     "daily",
			synopsis: "display daily order counts and revenue",
			usage:    "Displays one row per calendar day with distinct orders and payment revenue.",
			render: func(rep *models.Report, v view) string {
				return dailyMarkdown(rep, v.format)
			},
			opts: opts,
		},
		&reportCmd{
			name:     "products",
			synopsis: "display best and worst performing product categories",
			usage:    "Displays the categories with the most and the fewest line items sold.",
			render: func(rep *models.Report, v view) string {
				return productsMarkdown(rep, v.top)
			},
			opts: opts,
		},
		&reportCmd{
			name:     "demographics",
			synopsis: "display customers by state and top cities",
			usage:    "Displays distinct customers per state and the top cities.",
			render: func(rep *models.Report, v view) string {
				return demographicsMarkdown(rep, v.top)
			},
			opts: opts,
		},
		&reportCmd{
			name:     "spend",
			synopsis: "display the customers with the highest total spend",
			usage:    "Displays customers ranked by the sum of their line item prices.",
			render: func(rep *models.Report, v view) string {
				return spendMarkdown(rep, v.format, v.top)
			},
			opts: opts,
		},
		&reportCmd{
			name:     "satisfaction",
			synopsis: "display review score and order status distributions",
			usage:    "Displays distinct customers per review score and per order status.",
			render: func(rep *models.Report, _ view) string {
				return satisfactionMarkdown(rep)
			},
			opts: opts,
		},
	}
}

func (c *reportCmd) Name() string     { return c.name }
func (c *reportCmd) Synopsis() string { return c.synopsis }
func (c *reportCmd) Usage() string {
	return fmt.Sprintf(`%s [-start <date>] [-end <date>] [-n <rows>] [-raw]

  %s
`, c.name, c.usage)
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "First day of the report (YYYY-MM-DD). Defaults to the first approved order.")
	f.StringVar(&c.end, "end", "", "Last day of the report (YYYY-MM-DD). Defaults to the last approved order.")
	f.IntVar(&c.top, "n", defaultTop, "Rows shown in ranked tables, negative for all")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal styling")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	analytics := services.NewAnalytics(services.DefaultCacheSize)
	geo := ""
	if c.needsGeo {
		geo = c.opts.Geolocations
	}
	if err := analytics.Load(ctx, c.opts.Transactions, geo); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
		return subcommands.ExitFailure
	}

	bounds, _ := analytics.Bounds()
	dr, err := resolveRange(c.start, c.end, bounds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	rep, err := analytics.Report(ctx, dr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing report: %v\n", err)
		return subcommands.ExitFailure
	}

	md := c.render(rep, view{
		format:    display.NewFormatter(c.opts.Currency),
		top:       c.top,
		locations: len(analytics.Geolocations()),
	})
	if err := printMarkdown(c.out(), md, c.raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *reportCmd) out() io.Writer {
	if c.opts.Out != nil {
		return c.opts.Out
	}
	return os.Stdout
}

// resolveRange fills omitted ends from the data bounds.
func resolveRange(start, end string, bounds models.DateRange) (models.DateRange, error) {
	r := bounds
	if start != "" {
		t, err := time.Parse(models.DateLayout, start)
		if err != nil {
			return models.DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
		}
		r.Start = t
	}
	if end != "" {
		t, err := time.Parse(models.DateLayout, end)
		if err != nil {
			return models.DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
		}
		r.End = t
	}
	if r.Start.After(r.End) {
		return models.DateRange{}, fmt.Errorf("start %s is after end %s", r.Start.Format(models.DateLayout), r.End.Format(models.DateLayout))
	}
	return models.NewDateRange(r.Start, r.End), nil
}

func printMarkdown(w io.Writer, md string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
