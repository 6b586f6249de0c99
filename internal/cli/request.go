package cli

import (
	"github.com/spf13/cobra"
)

// NewRequestCommand creates the request command group: the two lifecycle
// transitions of a service request.
func NewRequestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Open and close service requests",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "open",
		Short: "Open a service request (intake)",
		Long: `Open a service request. The customer is resolved by last name and the
car from their ownership records; either can be created inline when
missing. The request is stamped with today's date and a fresh rid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := setupApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return app.openRequest(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "close",
		Short: "Close a service request (resolution)",
		Long: `Close a service request by recording the resolving mechanic, comment,
and bill. Closing is terminal: a closed request cannot be reopened.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := setupApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return app.closeRequest(cmd.Context())
		},
	})

	return cmd
}
