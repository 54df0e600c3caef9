package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallbiznis/cadastro/internal/registration/domain"
	"github.com/spf13/cobra"
)

func createCommand(opts *options) *cobra.Command {
	var (
		req      domain.CreateRequest
		send     bool
		template string
	)

	c := &cobra.Command{
		Use:   "create",
		Short: "Register a client and print the generated code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, e env) error {
				reg, err := e.Registrations.Create(ctx, req)
				if err != nil {
					if domain.IsPersistenceError(err) {
						return fmt.Errorf("failed to save registration: %w", err)
					}
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", reg.Code, reg.Name)

				if !send {
					return nil
				}
				result, err := e.Delivery.Send(ctx, reg.Code, template)
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

	c.Flags().StringVar(&req.Name, "name", "", "client name (required)")
	c.Flags().StringVar(&req.Email, "email", "", "client email")
	c.Flags().Float64Var(&req.Income, "income", 0, "monthly income")
	c.Flags().StringVar(&req.Status, "status", string(domain.StatusPending), "Pending, Approved or Rejected")
	c.Flags().StringVar(&req.Notes, "notes", "", "free-form notes")
	c.Flags().BoolVar(&send, "send", false, "open the mail template for the new client")
	c.Flags().StringVar(&template, "template", "", "template to open with --send (default from config)")
	_ = c.MarkFlagRequired("name")
	return c
}
