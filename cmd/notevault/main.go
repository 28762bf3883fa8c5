package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notevault/notevault/internal/app"
	"github.com/notevault/notevault/internal/cli"
	"github.com/notevault/notevault/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "notevault",
	Short: "NoteVault - encrypted notes, organized in vaults and collections.",
	Long: `NoteVault keeps your notes encrypted at rest with a key derived from
your master key. The master key is never stored; forget it and the data is
unrecoverable.

Run notevault without arguments to start the interactive shell.
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		cli.NewShell(a).Run(cmd.Context())
		return nil
	},
}

func init() {
	// Parsed again by the config package; declared here so cobra accepts
	// them and shows them in help.
	rootCmd.Flags().StringP("config", "c", "", "path to a JSON config file")
	rootCmd.Flags().StringP("database", "d", "", "path to the SQLite database file")
	rootCmd.Flags().StringP("log-level", "l", "info", "log level (debug|info|warn|error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
