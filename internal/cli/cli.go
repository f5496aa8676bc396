package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/TongyunK/orderFood-system/internal/app"
	"github.com/TongyunK/orderFood-system/internal/migration"
	"github.com/TongyunK/orderFood-system/internal/printer"
	"github.com/TongyunK/orderFood-system/internal/seeder"
)

// NewRootCommand builds the root kioskd CLI command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "kioskd",
		Short: "Self-service kiosk toolkit",
	}

	root.AddCommand(newStartCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newWorkerCmd())
	root.AddCommand(newPrinterCmd())

	return root
}

// Execute runs the kioskd CLI.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "start",
		Aliases: []string{"run"},
		Short:   "Run the kiosk HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			application := fx.New(app.Module)
			if err := application.Start(cmd.Context()); err != nil {
				return err
			}
			<-cmd.Context().Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return application.Stop(stopCtx)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			var mig *migration.Migrator
			opts := fx.Options(app.Core, migration.Module, fx.Populate(&mig))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := mig.Up(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			all, _ := cmd.Flags().GetBool("all")
			var mig *migration.Migrator
			opts := fx.Options(app.Core, migration.Module, fx.Populate(&mig))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := mig.Down(ctx, steps, all); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migration steps to rollback")
	downCmd.Flags().Bool("all", false, "Rollback all applied migrations")

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed store settings, menu, and payment methods",
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed *seeder.Seeder
			opts := fx.Options(app.Core, seeder.Module, fx.Populate(&seed))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := seed.All(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "seed data applied")
				return nil
			})
		},
	}
}

func newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage background workers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the kitchen-feed worker engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			application := fx.New(app.Worker)
			if err := application.Start(cmd.Context()); err != nil {
				return err
			}
			<-cmd.Context().Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return application.Stop(stopCtx)
		},
	})
	return cmd
}

func newPrinterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "printer",
		Short: "Printer utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "selftest",
		Short: "Run the printer self-test page",
		RunE: func(cmd *cobra.Command, args []string) error {
			var adapter *printer.Adapter
			opts := fx.Options(app.Core, fx.Populate(&adapter))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := adapter.SelfTest(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "self-test sent")
				return nil
			})
		},
	})
	return cmd
}

func runWithApp(ctx context.Context, opts fx.Option, fn func(context.Context) error) error {
	application := fx.New(opts, fx.NopLogger)
	if err := application.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = application.Stop(stopCtx)
	}()
	return fn(ctx)
}
