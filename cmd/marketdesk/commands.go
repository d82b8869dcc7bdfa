package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/bobmcallan/marketdesk/internal/clients/marketplace"
	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/models"
	"github.com/bobmcallan/marketdesk/internal/services/portfolio"
	"github.com/bobmcallan/marketdesk/internal/services/report"
	"github.com/bobmcallan/marketdesk/internal/services/trading"
)

func commands(out io.Writer) []subcommands.Command {
	return []subcommands.Command{
		&valuationCmd{out: out},
		&validateOrderCmd{out: out},
		&versionCmd{out: out},
	}
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(out io.Writer, md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			fmt.Fprint(out, rendered)
			return
		}
	}
	fmt.Fprint(out, md)
}

type valuationCmd struct {
	out     io.Writer
	backend string
	token   string
	asJSON  bool
	raw     bool
}

func (*valuationCmd) Name() string     { return "valuation" }
func (*valuationCmd) Synopsis() string { return "fetch and display the portfolio valuation" }
func (*valuationCmd) Usage() string {
	return `marketdesk valuation [-backend <url>] [-token <token>] [-json] [-raw]

  Fetches the signed-in user's holdings and prints the valuation report.
  The token defaults to $MARKETDESK_TOKEN.
`
}

func (c *valuationCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.backend, "backend", defaultBackendURL(), "Marketplace API base URL")
	f.StringVar(&c.token, "token", os.Getenv("MARKETDESK_TOKEN"), "Backend bearer token")
	f.BoolVar(&c.asJSON, "json", false, "Print the calculated summary as JSON")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal rendering")
}

func (c *valuationCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if strings.TrimSpace(c.token) == "" {
		fmt.Fprintln(os.Stderr, "Error: a token is required (-token or MARKETDESK_TOKEN)")
		return subcommands.ExitUsageError
	}

	logger := common.NewSilentLogger()
	client := marketplace.NewClient(marketplace.StaticToken(c.token),
		marketplace.WithBaseURL(c.backend),
		marketplace.WithLogger(logger),
	)
	reports := report.NewService(portfolio.NewService(client, logger), logger)

	rep, err := reports.ValuationReport(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	switch {
	case c.asJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep.Summary); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	case c.raw:
		fmt.Fprint(c.out, rep.Markdown)
	default:
		printMarkdown(c.out, rep.Markdown)
	}
	return subcommands.ExitSuccess
}

func defaultBackendURL() string {
	if v := os.Getenv("MARKETDESK_BACKEND_URL"); v != "" {
		return v
	}
	return common.NewDefaultConfig().Backend.BaseURL
}

// validateOrderCmd runs order pre-validation without contacting the backend.
type validateOrderCmd struct {
	out       io.Writer
	product   string
	side      string
	orderType string
	quantity  float64
	limit     float64
	price     float64
	status    string
	available float64
	held      float64
	raw       bool
}

func (*validateOrderCmd) Name() string     { return "validate-order" }
func (*validateOrderCmd) Synopsis() string { return "check an order against the pre-validation rules" }
func (*validateOrderCmd) Usage() string {
	return `marketdesk validate-order -product <id> -side buy|sell -qty <n> [-type market|limit] [-limit <price>]
    [-price <market price>] [-available <balance>] [-held <quantity>] [-status active]

  Validates an order offline. A negative -available skips the balance checks.
  Exits non-zero when the order would be rejected.
`
}

func (c *validateOrderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.product, "product", "", "Product ID")
	f.StringVar(&c.side, "side", "buy", "Order side (buy, sell)")
	f.StringVar(&c.orderType, "type", "market", "Order type (market, limit)")
	f.Float64Var(&c.quantity, "qty", 0, "Quantity")
	f.Float64Var(&c.limit, "limit", 0, "Limit price (limit orders)")
	f.Float64Var(&c.price, "price", 0, "Current market price (0 for none)")
	f.StringVar(&c.status, "status", string(models.ProductStatusActive), "Product status")
	f.Float64Var(&c.available, "available", -1, "Available wallet balance")
	f.Float64Var(&c.held, "held", 0, "Quantity currently held")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal rendering")
}

func (c *validateOrderCmd) request() models.OrderRequest {
	req := models.OrderRequest{
		ProductID: c.product,
		Side:      models.OrderSide(strings.ToLower(c.side)),
		Type:      models.OrderType(strings.ToLower(c.orderType)),
		Quantity:  c.quantity,
	}
	if c.limit != 0 {
		limit := c.limit
		req.LimitPrice = &limit
	}
	return req
}

func (c *validateOrderCmd) orderContext() trading.OrderContext {
	oc := trading.OrderContext{HeldQuantity: c.held, Thresholds: trading.DefaultThresholds}
	if c.product != "" {
		p := &models.Product{ID: c.product, Status: models.ProductStatus(c.status)}
		if c.price > 0 {
			price := c.price
			p.SharePrice = &price
		}
		oc.Product = p
	}
	if c.available >= 0 {
		oc.Wallet = &models.Wallet{Balance: c.available, Available: c.available}
	}
	return oc
}

func (c *validateOrderCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	req := c.request()
	v := trading.ValidateOrder(req, c.orderContext())

	md := report.FormatOrderValidation(req, &v)
	if c.raw {
		fmt.Fprint(c.out, md)
	} else {
		printMarkdown(c.out, md)
	}

	if !v.Valid {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type versionCmd struct {
	out io.Writer
}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "print version information" }
func (*versionCmd) Usage() string            { return "marketdesk version\n" }
func (*versionCmd) SetFlags(f *flag.FlagSet) {}

func (c *versionCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	common.LoadVersionFromFile()
	fmt.Fprintf(c.out, "marketdesk %s\n", common.GetFullVersion())
	return subcommands.ExitSuccess
}
