package main

import (
	"fmt"
	"os"

	"github.com/goldi-lab/gift/internal/cli"
	"github.com/goldi-lab/gift/internal/presentation/tui"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/spf13/cobra"
)

var opts cli.Options

var rootCmd = &cobra.Command{
	Use:   "gift",
	Short: "gift edits finite-state automata with bounded undo and redo",
	Long: `gift keeps automaton editing sessions on disk (or in Redis/BadgerDB) and applies
editor actions to them. Every action can be undone and redone, and sessions can
be served over HTTP or to AI agents through MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&opts.Dir, "dir", ".", "Project directory holding gift.yaml and the session store")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file (default <dir>/gift.yaml)")
	rootCmd.PersistentFlags().StringVarP(&opts.SessionID, "session", "s", cli.DefaultSessionID, "Session to work on")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Log every action to stderr")
}

// withApp opens the app for the duration of one command.
func withApp(fn func(cmd *cobra.Command, args []string, app *cli.App) error, hooks ...domain.LifecycleHooks) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := cli.NewApp(opts, hooks...)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := app.Close(); cerr != nil {
				app.Logger.Warn("failed to close store", "err", cerr)
			}
		}()
		return fn(cmd, args, app)
	}
}

func printStatus(cmd *cobra.Command, sessionID string, sess *domain.Session) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s rev %d %s\n", sessionID, sess.Revision,
		tui.Status(sess.State.CurrentVersion, sess.State.CanUndo, sess.State.CanRedo))
}
