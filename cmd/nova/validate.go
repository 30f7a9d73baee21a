package main

import (
	"fmt"

	"github.com/aretw0/nova/internal/validator"
	"github.com/aretw0/nova/pkg/registry"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [steps.yaml]",
	Short: "Check a steps file",
	Long: `Parses a steps file and checks that it defines exactly the six dialog steps,
that every option carries one action, that every transition target exists and
that every step can be reached from intro.
Without an argument the built-in steps are checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Default()
		source := "built-in steps"
		if len(args) == 1 {
			var err error
			if reg, err = registry.Load(args[0]); err != nil {
				return err
			}
			source = args[0]
		}
		if err := validator.ValidateGraph(reg.Steps()); err != nil {
			return err
		}
		options := 0
		for _, s := range reg.Steps() {
			options += len(s.Options)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d steps, %d options, ok\n", source, len(reg.Steps()), options)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
