package cli

import (
	"github.com/spf13/cobra"
)

type options struct {
	configFile string
	debug      bool
}

// NewRoot builds the cadastro command tree.
func NewRoot() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "cadastro",
		Short:         "Client registration manager",
		Long:          "Registers clients with sequential AC-NNNN codes, lists them and opens mail templates filled with their data.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: cadastro.yaml next to the binary or in the working directory)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		createCommand(opts),
		listCommand(opts),
		logsCommand(opts),
		sendCommand(opts),
		migrateCommand(opts),
		infoCommand(opts),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRoot().Execute()
}
