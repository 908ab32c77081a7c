package main

import (
	"fmt"
	"strings"

	"github.com/goldi-lab/gift/internal/cli"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/spf13/cobra"
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <TYPE> [payload]",
	Short: "Apply one editor action to the session",
	Long: `Applies an action such as NEWAUTOMATON or ADDNODE to the session, creating the
session on first use. The payload is JSON; plain words are sent as strings.

  gift dispatch NEWAUTOMATON '{"name":"light"}'
  gift dispatch ADDNODE '{"automatonId":1}'
  gift dispatch CHANGELANGUAGE en`,
	Args: cobra.RangeArgs(1, 2),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		action := domain.Action{Type: strings.ToUpper(args[0])}
		if len(args) == 2 {
			action.Payload = cli.ParsePayload(args[1])
		}

		ctx := cmd.Context()
		if _, err := app.Manager.LoadOrCreate(ctx, app.SessionID()); err != nil {
			return err
		}
		sess, err := app.Manager.Dispatch(ctx, app.SessionID(), action)
		if err != nil {
			return fmt.Errorf("%s rejected: %w", action.Type, err)
		}
		printStatus(cmd, app.SessionID(), sess)
		return nil
	}),
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Step the session one version back",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		sess, err := app.Manager.Undo(cmd.Context(), app.SessionID())
		if err != nil {
			return err
		}
		printStatus(cmd, app.SessionID(), sess)
		return nil
	}),
}

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Step the session one version forward",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		sess, err := app.Manager.Redo(cmd.Context(), app.SessionID())
		if err != nil {
			return err
		}
		printStatus(cmd, app.SessionID(), sess)
		return nil
	}),
}

var applyCmd = &cobra.Command{
	Use:   "apply <script.yaml>",
	Short: "Apply a YAML list of actions to the session",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		script, err := cli.LoadScript(args[0])
		if err != nil {
			return err
		}
		sessionID := app.SessionID()
		if script.Session != "" && !cmd.Flags().Changed("session") {
			sessionID = script.Session
		}
		sess, err := script.Apply(cmd.Context(), app.Manager, sessionID)
		if sess != nil {
			printStatus(cmd, sessionID, sess)
		}
		return err
	}),
}

func init() {
	rootCmd.AddCommand(dispatchCmd, undoCmd, redoCmd, applyCmd)
}
