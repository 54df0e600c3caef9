package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func sendCommand(opts *options) *cobra.Command {
	var template string

	c := &cobra.Command{
		Use:   "send <code>",
		Short: "Open a mail template filled with the registration's data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, e env) error {
				result, err := e.Delivery.Send(ctx, args[0], template)
				if err != nil {
					return err
				}
				if !result.OK {
					return errors.New(result.Message)
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Message)
				return nil
			})
		},
	}

	c.Flags().StringVar(&template, "template", "", "template name or path (default from config)")
	return c
}

func migrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, e env) error {
				if err := e.DB.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date: %s\n", e.DB.Path())
				return nil
			})
		},
	}
}

func infoCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the resolved database and template locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			driver := cfg.Dispatch.Driver
			if driver == "" {
				driver = "auto"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "database:  %s\n", cfg.DatabasePath())
			fmt.Fprintf(out, "templates: %s\n", cfg.TemplateDir())
			fmt.Fprintf(out, "default:   %s\n", cfg.DefaultTemplate())
			fmt.Fprintf(out, "dispatch:  %s\n", driver)
			fmt.Fprintf(out, "outbox:    %s\n", cfg.OutboxDir())
			return nil
		},
	}
}
