package cli

import (
	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command group: interactive registration of
// customers, mechanics, and cars.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register customers, mechanics, and cars",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "customer",
		Short: "Register a new customer",
		Long: `Register a new customer. If the entered details exactly match an
existing customer, the details are re-prompted: registration always
produces a new record, never reuses one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := setupApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return app.addCustomer(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "mechanic",
		Short: "Register a new mechanic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := setupApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return app.addMechanic(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "car",
		Short: "Register a car and its owner link",
		Long: `Register a car for a customer resolved by last name. The car and its
ownership record are written together; a VIN already in the registry is
rejected outright.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := setupApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return app.addCar(cmd.Context())
		},
	})

	return cmd
}
