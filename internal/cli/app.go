package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/mechshop/internal/config"
	"github.com/roach88/mechshop/internal/report"
	"github.com/roach88/mechshop/internal/store"
	"github.com/roach88/mechshop/internal/workflow"
)

// App wires the store, workflow service, and operator I/O for one command
// invocation. Commands construct it in RunE and release the store when done.
type App struct {
	Store *store.Store
	Svc   *workflow.Service
	Log   *slog.Logger

	in  io.Reader
	out io.Writer

	// p is the single prompter for the invocation. One bufio reader must
	// own stdin; constructing a second would drop buffered input.
	p *linePrompter
}

// setupApp loads configuration, opens the database, and builds the workflow
// service. The returned cleanup closes the store.
func setupApp(opts *RootOptions, cmd *cobra.Command) (*App, func(), error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)

	logger.Debug("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	svc := workflow.New(st, workflow.Config{
		Policy:             workflow.ValidationPolicy(cfg.OdometerPolicy),
		MaxIdentityRetries: cfg.MaxIdentityRetries,
	}, logger)

	app := &App{
		Store: st,
		Svc:   svc,
		Log:   logger,
		in:    cmd.InOrStdin(),
		out:   cmd.OutOrStdout(),
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}
	return app, cleanup, nil
}

func (a *App) prompter() *linePrompter {
	if a.p == nil {
		a.p = newLinePrompter(a.in, a.out)
	}
	return a.p
}

func (a *App) addCustomer(ctx context.Context) error {
	c, err := a.Svc.AddCustomer(ctx, a.prompter())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "customer %d added\n", c.ID)
	return nil
}

func (a *App) addMechanic(ctx context.Context) error {
	m, err := a.Svc.AddMechanic(ctx, a.prompter())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "mechanic %d added\n", m.ID)
	return nil
}

func (a *App) addCar(ctx context.Context) error {
	own, err := a.Svc.AddCar(ctx, a.prompter())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "car %s registered to customer %d\n", own.CarVIN, own.CustomerID)
	return nil
}

func (a *App) openRequest(ctx context.Context) error {
	rid, err := a.Svc.Open(ctx, a.prompter())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "service request %d opened\n", rid)
	return nil
}

func (a *App) closeRequest(ctx context.Context) error {
	wid, err := a.Svc.Close(ctx, a.prompter())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "work order %d recorded\n", wid)
	return nil
}

// Report names accepted by the report command and the shell menu.
const (
	ReportSmallBills = "small-bills"
	ReportManyCars   = "many-cars"
	ReportOldCars    = "old-cars"
	ReportTopCars    = "top-cars"
	ReportTotalBills = "total-bills"
)

// runReport executes the named report and renders it. k applies only to
// top-cars and must already be validated as positive.
func (a *App) runReport(ctx context.Context, name string, k int) error {
	var table report.Table
	switch name {
	case ReportSmallBills:
		rows, err := report.SmallBills(ctx, a.Store)
		if err != nil {
			return err
		}
		table = report.SmallBillsTable(rows)
	case ReportManyCars:
		rows, err := report.CustomersWithManyCars(ctx, a.Store)
		if err != nil {
			return err
		}
		table = report.ManyCarsTable(rows)
	case ReportOldCars:
		rows, err := report.OldLowMileageCars(ctx, a.Store)
		if err != nil {
			return err
		}
		table = report.OldCarsTable(rows)
	case ReportTopCars:
		rows, err := report.TopServicedCars(ctx, a.Store, k)
		if err != nil {
			return err
		}
		table = report.TopCarsTable(rows)
	case ReportTotalBills:
		rows, err := report.CustomersByTotalBill(ctx, a.Store)
		if err != nil {
			return err
		}
		table = report.TotalBillsTable(rows)
	default:
		return WrapExitError(ExitCommandError, fmt.Sprintf("unknown report %q", name), nil)
	}
	fmt.Fprint(a.out, table.Render())
	return nil
}
