package main

import (
	"fmt"

	"github.com/aretw0/nova/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dialog graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the dialog steps and their options.
With --session, the visited and current steps of a stored session are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		var overlay *graph.Overlay
		if id, _ := cmd.Flags().GetString("session"); id != "" {
			state, err := app.Sessions.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			overlay = &graph.Overlay{Visited: state.History, Current: state.CurrentStep}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(app.Steps.Steps(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Session to highlight")
}
