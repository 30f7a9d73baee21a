package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aretw0/nova/internal/runtime"
	"github.com/aretw0/nova/pkg/adapters/record"
	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/observability"
	"github.com/aretw0/nova/pkg/ports"
	"github.com/aretw0/nova/pkg/scheduler"
	"github.com/aretw0/nova/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// frameBuffer is how many frames may queue for a slow websocket client.
const frameBuffer = 256

// Frame is a server to client websocket message. Type is a record.EventKind,
// "state" after every client message, or "error".
type Frame struct {
	Type    string               `json:"type"`
	Text    string               `json:"text,omitempty"`
	Options []session.OptionItem `json:"options,omitempty"`
	State   *domain.State        `json:"state,omitempty"`
}

// ClientMessage is a client to server websocket message.
type ClientMessage struct {
	Op    string          `json:"op"` // activate, select, back, hide, goto
	Index int             `json:"index,omitempty"`
	Step  domain.StepName `json:"step,omitempty"`
}

// liveSession drives one engine on its own event loop with real timers.
// Every engine call, including the recorder sink, runs on the loop goroutine.
type liveSession struct {
	id       string
	conn     *websocket.Conn
	loop     *scheduler.Loop
	rec      *record.Recorder
	eng      *runtime.Engine
	frames   chan Frame
	sessions *session.Service
	server   *Server

	// handling is set while a client message runs; handle saves once at the end.
	handling bool
}

// Live handles GET /sessions/{id}/ws.
func (s *Server) Live(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.sessions.Manager().Load(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "session_id", id, "err", err)
		return
	}
	defer conn.Close()

	if s.metrics != nil {
		s.metrics.LiveSessions.Inc()
		defer s.metrics.LiveSessions.Dec()
	}

	ls := s.newLiveSession(id, conn, state)
	ls.serve(r.Context())
}

func (s *Server) newLiveSession(id string, conn *websocket.Conn, state *domain.State) *liveSession {
	cfg := s.sessions.Config()
	ls := &liveSession{
		id:       id,
		conn:     conn,
		loop:     scheduler.NewLoop(),
		frames:   make(chan Frame, frameBuffer),
		sessions: s.sessions,
		server:   s,
	}

	recOpts := []record.Option{record.WithSink(ls.emit)}
	if len(cfg.Anchors) > 0 {
		recOpts = append(recOpts, record.WithAnchors(cfg.Anchors...))
	}
	ls.rec = record.New(recOpts...)
	ls.eng = runtime.NewEngine(s.sessions.Steps(),
		runtime.WithPresenter(ls.rec),
		runtime.WithVoice(ls.rec),
		runtime.WithNavigator(ls.rec),
		runtime.WithDownloader(ls.rec),
		runtime.WithSoundCue(ls.rec),
		runtime.WithAvatar(ls.rec),
		runtime.WithScheduler(ls.loop),
		runtime.WithTiming(cfg.Timing),
		runtime.WithAssetName(cfg.AssetName),
		runtime.WithState(state),
		runtime.WithLogger(s.logger.With("session_id", id, "live", true)),
		runtime.WithLifecycleHooks(observability.Combine(cfg.Hooks, domain.LifecycleHooks{
			OnStepEnter: func(ctx context.Context, _ *domain.StepEvent) { ls.persistDeferred(ctx) },
			OnClose:     func(ctx context.Context, _ *domain.EventBase) { ls.persistDeferred(ctx) },
		})),
	)
	return ls
}

// emit queues an event for the writer. It runs on the loop goroutine.
func (ls *liveSession) emit(ev record.Event) {
	ls.send(Frame{Type: string(ev.Kind), Text: ev.Text, Options: optionItems(ev.Options)})
}

func (ls *liveSession) send(f Frame) {
	select {
	case ls.frames <- f:
	default:
		ls.server.logger.Warn("websocket: client buffer full, dropping frame", "session_id", ls.id, "type", f.Type)
	}
}

func optionItems(views []ports.OptionView) []session.OptionItem {
	if len(views) == 0 {
		return nil
	}
	items := make([]session.OptionItem, 0, len(views))
	for i, v := range views {
		items = append(items, session.OptionItem{Index: i, Label: v.Label, Icon: v.Icon})
	}
	return items
}

func (ls *liveSession) serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = ls.loop.Run(ctx)
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ls.writeLoop()
	}()

	go func() {
		<-ctx.Done()
		_ = ls.conn.Close()
	}()

	ls.loop.Post(func() {
		ls.eng.Start(ctx)
		ls.sendState()
	})

	for {
		var msg ClientMessage
		_, data, err := ls.conn.ReadMessage()
		if err != nil {
			break
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			ls.loop.Post(func() { ls.send(Frame{Type: "error", Text: "invalid message: " + err.Error()}) })
			continue
		}
		ls.loop.Post(func() { ls.handle(ctx, msg) })
	}

	cancel()
	ls.loop.Close()
	<-loopDone
	close(ls.frames)
	<-writerDone

	// The loop is stopped, so the engine is no longer shared.
	ls.persist(context.WithoutCancel(ctx))
}

func (ls *liveSession) writeLoop() {
	failed := false
	for f := range ls.frames {
		if failed {
			continue
		}
		if err := ls.conn.WriteJSON(f); err != nil {
			ls.server.logger.Debug("websocket write failed", "session_id", ls.id, "err", err)
			failed = true
		}
	}
}

// handle applies one client message. It runs on the loop goroutine.
func (ls *liveSession) handle(ctx context.Context, msg ClientMessage) {
	ls.handling = true
	defer func() { ls.handling = false }()

	var err error
	switch msg.Op {
	case "activate":
		err = ls.eng.Activate(ctx)
	case "select":
		err = ls.selectDisplayed(msg.Index)
	case "back":
		err = ls.eng.GoBack(ctx)
	case "hide":
		ls.eng.Hide(ctx)
	case "goto":
		err = ls.eng.GoToStep(ctx, msg.Step)
	default:
		err = fmt.Errorf("unknown op %q", msg.Op)
	}
	if err != nil {
		ls.send(Frame{Type: "error", Text: err.Error()})
		return
	}
	ls.persist(ctx)
	ls.sendState()
}

// selectDisplayed presses one of the buttons currently shown, so a live
// client can only pick what the visitor would see.
func (ls *liveSession) selectDisplayed(index int) error {
	view := ls.rec.View()
	if !view.Open {
		return domain.ErrDialogClosed
	}
	if index < 0 || index >= len(view.Options) {
		return fmt.Errorf("%w: %d of %d displayed", domain.ErrNoSuchOption, index, len(view.Options))
	}
	view.Options[index].Select()
	return nil
}

func (ls *liveSession) sendState() {
	st := ls.eng.State()
	ls.send(Frame{Type: "state", State: &st})
}

// persist saves the engine state under the session lock, so it does not
// interleave with a stateless operation on the same id.
func (ls *liveSession) persist(ctx context.Context) {
	st := ls.eng.State()
	manager := ls.sessions.Manager()
	err := manager.WithLock(ctx, ls.id, func(ctx context.Context) error {
		return manager.Store().Save(ctx, ls.id, &st)
	})
	if err != nil {
		ls.server.logger.Warn("failed to persist live session", "session_id", ls.id, "err", err)
	}
}

// persistDeferred saves changes made by timers, such as the auto greeting
// or the feedback close. It runs on the loop goroutine.
func (ls *liveSession) persistDeferred(ctx context.Context) {
	if ls.handling {
		return
	}
	ls.persist(context.WithoutCancel(ctx))
}
