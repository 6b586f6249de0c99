package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var reportNames = []string{
	ReportSmallBills, ReportManyCars, ReportOldCars, ReportTopCars, ReportTotalBills,
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "report <name>",
		Short: "Run one of the fixed analytical reports",
		Long: fmt.Sprintf(`Run a fixed report over the shop's records.

Available reports: %s

Example:
  mechshop report small-bills --db ./shop.db
  mechshop report top-cars -k 3 --db ./shop.db`, strings.Join(reportNames, ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name == ReportTopCars && topK < 1 {
				return WrapExitError(ExitCommandError,
					fmt.Sprintf("top-cars requires a positive -k, got %d", topK), nil)
			}

			app, cleanup, err := setupApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return app.runReport(cmd.Context(), name, topK)
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of rows for the top-cars ranking")

	return cmd
}
