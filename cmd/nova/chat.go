package main

import (
	"context"
	"errors"
	"os"

	"github.com/aretw0/nova"
	"github.com/aretw0/nova/internal/cli"
	"github.com/aretw0/nova/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to Nova in the terminal",
	Long: `Runs the dialog in the terminal. Nova greets you after a few idle seconds, or
type 'a' to click the avatar. Options are picked by number; '?' lists the
commands. With --session the conversation is stored and resumed next time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if v, _ := cmd.Flags().GetBool("no-voice"); v {
			app.Config.Voice.Enabled = false
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		out := cmd.OutOrStdout()
		interactive := term.IsTerminal(int(os.Stdout.Fd()))
		if interactive {
			tui.PrintBanner(out, nova.Version)
		}

		sessionID, _ := cmd.Flags().GetString("session")
		chat := cli.NewChat(cli.ChatConfig{
			Steps:     app.Steps,
			In:        cmd.InOrStdin(),
			Out:       out,
			Engine:    app.LocalEffects(ctx, out),
			Renderer:  tui.NewRenderer(),
			Sessions:  app.Sessions,
			SessionID: sessionID,
			Logger:    app.Logger,
		})

		state, err := chat.Run(ctx)
		if errors.Is(err, context.Canceled) {
			app.Logger.Debug("chat interrupted", "signal", ctx.Signal())
			err = nil
		}
		app.Logger.Debug("chat finished", "step", state.CurrentStep, "depth", len(state.History))
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("session", "", "Store the conversation under this session id")
	chatCmd.Flags().Bool("no-voice", false, "Do not speak")
}
