package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05"

func listCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list [filter]",
		Short: "List registrations, newest first, optionally filtered by code, name or email",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := strings.Join(args, " ")
			return opts.run(cmd, func(ctx context.Context, e env) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "CODE\tNAME\tEMAIL\tINCOME\tSTATUS\tCREATED")
				for _, r := range e.Registrations.List(ctx, filter) {
					fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
						r.Code, r.Name, r.Email, r.Income, r.Status, formatTime(r.CreatedAt))
				}
				return w.Flush()
			})
		},
	}
}

func logsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logs <code>",
		Short: "Show the delivery history of a registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, e env) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TEMPLATE\tSTATUS\tCREATED\tMESSAGE")
				for _, l := range e.Registrations.ListDeliveryLogs(ctx, args[0]) {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						l.TemplateName, l.DeliveryStatus, formatTime(l.CreatedAt), l.Message)
				}
				return w.Flush()
			})
		},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
