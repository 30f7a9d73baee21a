package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/nova/internal/logging"
	"github.com/aretw0/nova/internal/presentation/tui"
	"github.com/aretw0/nova/internal/runtime"
	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/scheduler"
	"github.com/aretw0/nova/pkg/session"
	"github.com/muesli/termenv"
)

// ChatConfig wires a terminal conversation.
type ChatConfig struct {
	Steps runtime.StepSource
	In    io.Reader
	Out   io.Writer

	// Engine options for the collaborators and timing. Presenter, avatar,
	// scheduler and state are set by the chat.
	Engine []runtime.EngineOption

	// Renderer formats the help text. Nil prints it raw.
	Renderer func(string) (string, error)

	// Sessions and SessionID persist the conversation between runs.
	Sessions  *session.Manager
	SessionID string

	Logger           *slog.Logger
	PresenterOptions []termenv.OutputOption
}

// Chat runs the dialog in a terminal. Every engine call, and every write to
// Out, happens on one event loop.
type Chat struct {
	cfg       ChatConfig
	presenter *tui.Presenter
	loop      *scheduler.Loop
}

// NewChat creates a chat.
func NewChat(cfg ChatConfig) *Chat {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return &Chat{
		cfg:       cfg,
		presenter: tui.NewPresenter(cfg.Out, cfg.PresenterOptions...),
		loop:      scheduler.NewLoop(),
	}
}

// Run reads commands until quit, end of input or ctx is done, and returns the
// final state. A persisted session is saved on the way out.
func (c *Chat) Run(ctx context.Context) (domain.State, error) {
	state := domain.NewState()
	if c.cfg.Sessions != nil && c.cfg.SessionID != "" {
		loaded, err := c.cfg.Sessions.LoadOrStart(ctx, c.cfg.SessionID)
		if err != nil {
			return domain.State{}, fmt.Errorf("failed to load session: %w", err)
		}
		state = loaded
	}

	opts := append([]runtime.EngineOption{}, c.cfg.Engine...)
	opts = append(opts,
		runtime.WithPresenter(c.presenter),
		runtime.WithAvatar(c.presenter),
		runtime.WithScheduler(c.loop),
		runtime.WithState(state),
		runtime.WithLogger(c.cfg.Logger),
	)
	eng := runtime.NewEngine(c.cfg.Steps, opts...)

	// The loop outlives ctx so the final state can still be read from it.
	loopCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = c.loop.Run(loopCtx)
	}()
	defer func() {
		stop()
		<-loopDone
	}()

	resume := state.Open && state.CurrentStep != ""
	_ = c.loop.Do(ctx, func() {
		if resume {
			if err := eng.Render(ctx, state.CurrentStep); err != nil {
				c.cfg.Logger.Warn("failed to resume step", "step", state.CurrentStep, "err", err)
			}
			return
		}
		eng.Start(ctx)
	})

	runErr := c.readCommands(ctx, eng)

	var final domain.State
	_ = c.loop.Do(context.Background(), func() {
		final = eng.State()
	})
	if c.cfg.Sessions != nil && c.cfg.SessionID != "" {
		if err := c.cfg.Sessions.Save(context.WithoutCancel(ctx), c.cfg.SessionID, &final); err != nil {
			return final, fmt.Errorf("failed to save session: %w", err)
		}
	}
	return final, runErr
}

func (c *Chat) readCommands(ctx context.Context, eng *runtime.Engine) error {
	lines := pumpLines(c.cfg.In)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-lines:
			if !ok {
				return nil
			}
			if res.err != nil {
				return fmt.Errorf("failed to read input: %w", res.err)
			}
			line, err := SanitizeInput(res.text)
			if err != nil {
				c.printf(ctx, "! %v\n", err)
				continue
			}
			if line == "" {
				continue
			}
			cmd, err := ParseCommand(line)
			if err != nil {
				c.printf(ctx, "! %v\n", err)
				continue
			}
			switch cmd.Kind {
			case CmdQuit:
				return nil
			case CmdHelp:
				c.printf(ctx, "%s", c.help())
				continue
			}
			if err := c.exec(ctx, eng, cmd); err != nil {
				c.printf(ctx, "! %v\n", err)
			}
		}
	}
}

// exec runs cmd on the loop. The result travels through a buffered channel,
// so a closure that runs after ctx gave up writes nothing exec still reads.
func (c *Chat) exec(ctx context.Context, eng *runtime.Engine, cmd Command) error {
	result := make(chan error, 1)
	if err := c.loop.Do(ctx, func() { result <- apply(ctx, eng, cmd) }); err != nil {
		return err
	}
	return <-result
}

func apply(ctx context.Context, eng *runtime.Engine, cmd Command) error {
	switch cmd.Kind {
	case CmdSelect:
		return eng.Select(ctx, cmd.Index)
	case CmdActivate:
		return eng.Activate(ctx)
	case CmdBack:
		return eng.GoBack(ctx)
	case CmdHide:
		eng.Hide(ctx)
	case CmdGoTo:
		return eng.GoToStep(ctx, cmd.Step)
	}
	return nil
}

func (c *Chat) help() string {
	if c.cfg.Renderer == nil {
		return Help
	}
	out, err := c.cfg.Renderer(Help)
	if err != nil {
		return Help
	}
	return out
}

// printf writes on the loop so chat messages never interleave with the dialog.
func (c *Chat) printf(ctx context.Context, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_ = c.loop.Do(ctx, func() {
		fmt.Fprint(c.cfg.Out, msg)
	})
}
