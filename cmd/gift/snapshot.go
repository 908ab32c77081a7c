package main

import (
	"fmt"
	"os"

	"github.com/goldi-lab/gift/internal/cli"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Save the session, history included, as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		data, err := app.Manager.Export(cmd.Context(), app.SessionID())
		if err != nil {
			return err
		}
		if len(args) == 0 || args[0] == "-" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported '%s' to %s\n", app.SessionID(), args[0])
		return nil
	}),
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the session with an exported snapshot",
	Long:  `Loads a snapshot written by export. The history comes along, so undo and redo keep working.`,
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		sess, err := app.Manager.Import(cmd.Context(), app.SessionID(), data)
		if err != nil {
			return err
		}
		printStatus(cmd, app.SessionID(), sess)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
}
