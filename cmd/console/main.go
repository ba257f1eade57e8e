// Command console runs one dispatch confirmation from the terminal: resolve a
// packaging slip (by slip or order ID), optionally adjust ship quantities, and
// confirm through the sales or factory flow.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"dispatch-console/internal/app"
	"dispatch-console/internal/core"
	"dispatch-console/internal/erp"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// quantityOverride is one "-set N=QTY" flag: 1-based line index and quantity.
type quantityOverride struct {
	index int
	qty   decimal.Decimal
}

type quantityFlags []quantityOverride

func (q *quantityFlags) String() string {
	parts := make([]string, 0, len(*q))
	for _, o := range *q {
		parts = append(parts, fmt.Sprintf("%d=%s", o.index, o.qty))
	}
	return strings.Join(parts, ",")
}

func (q *quantityFlags) Set(value string) error {
	idxStr, qtyStr, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("expected LINE=QTY, got %q", value)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 1 {
		return fmt.Errorf("invalid line number %q", idxStr)
	}
	qty, err := decimal.NewFromString(qtyStr)
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %w", qtyStr, err)
	}
	*q = append(*q, quantityOverride{index: idx, qty: qty})
	return nil
}

func main() {
	_ = godotenv.Load()

	var (
		slipID         = flag.Int64("slip", 0, "packaging slip ID")
		orderID        = flag.Int64("order", 0, "sales order ID (used when no slip ID is known)")
		factory        = flag.Bool("factory", false, "use the factory flow (goods issue only, no invoicing)")
		email          = flag.Bool("email", false, "email the invoice to the dealer after dispatch (sales flow)")
		overrideCredit = flag.Bool("override-credit", false, "request a credit-limit override (sales flow, admin only)")
		user           = flag.String("user", "", "confirming user's display name (factory flow)")
		sets           quantityFlags
	)
	flag.Var(&sets, "set", "override a line's ship quantity as LINE=QTY (repeatable; QTY 0 skips the line)")
	flag.Parse()

	if err := validateArgs(*slipID, *orderID, *factory, *user); err != nil {
		log.Fatal(err)
	}

	logger := newLogger()
	defer logger.Sync()

	client, err := erp.NewClientFromEnv(logger)
	if err != nil {
		log.Fatalf("Unable to configure the ERP client: %v", err)
	}

	flow := core.FlowSales
	if *factory {
		flow = core.FlowFactory
	}
	workflow := core.NewDispatchWorkflow(client, flow, core.WorkflowOptions{
		ConfirmedBy:      *user,
		SendInvoiceEmail: *email,
		Logger:           logger,
	})

	ctx := context.Background()
	ref := core.SlipRef{SlipID: *slipID, OrderID: *orderID}
	if err := workflow.Load(ctx, ref); err != nil {
		if errors.Is(err, core.ErrNoPackagingSlip) {
			fmt.Print(app.RenderNoSlip())
			os.Exit(2)
		}
		log.Fatalf("Unable to resolve the packaging slip: %v", err)
	}
	fmt.Print(app.RenderSlip(workflow.Slip(), workflow.Lines()))

	for _, o := range sets {
		qty := o.qty
		if err := workflow.UpdateLine(o.index-1, core.DispatchLineChange{ShipQuantity: &qty}); err != nil {
			log.Fatalf("Unable to update line %d: %v", o.index, err)
		}
	}
	if *overrideCredit {
		workflow.SetCreditOverride(true)
	}

	outcome, err := workflow.Confirm(ctx)
	if err != nil {
		fmt.Print(app.RenderFailure(err.Error()))
		os.Exit(1)
	}
	fmt.Print(app.RenderSuccess(outcome, client.InvoicePDFURL))
}

// validateArgs rejects flag combinations before any network call is made. The
// factory flow records who confirmed the dispatch, so -factory needs -user.
func validateArgs(slipID, orderID int64, factory bool, user string) error {
	if slipID == 0 && orderID == 0 {
		return errors.New("either -slip or -order is required")
	}
	if factory && strings.TrimSpace(user) == "" {
		return errors.New("-user is required with -factory")
	}
	return nil
}

func newLogger() *zap.Logger {
	if os.Getenv("APP_ENV") == "dev" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Unable to build logger: %v", err)
		}
		return logger
	}
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Unable to build logger: %v", err)
	}
	return logger
}
