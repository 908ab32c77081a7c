package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goldi-lab/gift/internal/cli"
	"github.com/goldi-lab/gift/internal/presentation/graph"
	"github.com/goldi-lab/gift/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Describe the current state of the session",
	Long: `Prints signals, automatons, states and transitions of the session. On a terminal
the summary is rendered as styled markdown; otherwise the raw markdown is printed.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		sess, err := app.Manager.Load(cmd.Context(), app.SessionID())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sess.State.Current)
		}

		md := tui.Summary(sess.State)
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			if banner, _ := cmd.Flags().GetBool("banner"); banner {
				tui.PrintBanner(out)
			}
			rendered, err := tui.NewRenderer()(md)
			if err == nil {
				md = rendered
			}
		}
		fmt.Fprint(out, md)
		return nil
	}),
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the automatons as a Mermaid diagram",
	Long:  `Outputs a Mermaid flowchart (graph TD) with one subgraph per automaton.`,
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		sess, err := app.Manager.Load(cmd.Context(), app.SessionID())
		if err != nil {
			return err
		}
		current, _ := cmd.Flags().GetBool("current")
		overlay := &graph.Overlay{
			CurrentStates:       current,
			HideZeroTransitions: !sess.State.Current.View.ShowZeroTransitions,
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(sess.State.Current.Editor, overlay))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(showCmd, graphCmd)
	showCmd.Flags().Bool("json", false, "Print the application state as JSON")
	showCmd.Flags().Bool("banner", false, "Print the gift banner first (terminal only)")
	graphCmd.Flags().Bool("current", false, "Highlight the simulated current states")
}
