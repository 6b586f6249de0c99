package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewShellCommand creates the shell command: the interactive numbered menu
// that mirrors how the shop's front desk drives the system.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive menu over all operations",
		Long: `Start the interactive shell. Each menu choice runs one operation; a
failed operation reports its diagnostic and returns to the menu. Choice 11
(or end of input) exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := setupApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return runShell(cmd.Context(), app)
		},
	}
}

const menu = `MAIN MENU
---------
1.  Add customer
2.  Add mechanic
3.  Add car
4.  Open service request
5.  Close service request
6.  Closed requests billed under 100
7.  Customers with more than 20 cars
8.  Pre-1995 cars serviced under 50000 miles
9.  Top K serviced cars
10. Customers by total bill
11. Exit
`

func runShell(ctx context.Context, app *App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := app.prompter()

	for {
		fmt.Fprint(app.out, menu)
		choice, err := p.PromptInt("Please make your choice")
		if err != nil {
			// End of input behaves like exit.
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		if choice == 11 {
			break
		}
		if err := app.dispatch(ctx, p, choice); err != nil {
			// Core failures are diagnostics; the shell returns to the
			// menu rather than terminating the session.
			fmt.Fprintln(app.out, "Error:", err)
		}
	}

	fmt.Fprintln(app.out, "Bye!")
	return nil
}

// dispatch runs one menu choice.
func (a *App) dispatch(ctx context.Context, p *linePrompter, choice int) error {
	switch choice {
	case 1:
		return a.addCustomer(ctx)
	case 2:
		return a.addMechanic(ctx)
	case 3:
		return a.addCar(ctx)
	case 4:
		return a.openRequest(ctx)
	case 5:
		return a.closeRequest(ctx)
	case 6:
		return a.runReport(ctx, ReportSmallBills, 0)
	case 7:
		return a.runReport(ctx, ReportManyCars, 0)
	case 8:
		return a.runReport(ctx, ReportOldCars, 0)
	case 9:
		k, err := a.promptK(p)
		if err != nil {
			return err
		}
		return a.runReport(ctx, ReportTopCars, k)
	case 10:
		return a.runReport(ctx, ReportTotalBills, 0)
	default:
		fmt.Fprintln(a.out, "Unrecognized choice!")
		return nil
	}
}

// promptK reads the K for the top-cars ranking, re-prompting until it is a
// positive integer.
func (a *App) promptK(p *linePrompter) (int, error) {
	for {
		k, err := p.PromptInt("K")
		if err != nil {
			return 0, err
		}
		if k >= 1 {
			return k, nil
		}
		fmt.Fprintln(a.out, "\tK must be a positive integer.")
	}
}
