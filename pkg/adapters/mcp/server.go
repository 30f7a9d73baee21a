package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/nova"
	"github.com/aretw0/nova/internal/presentation/graph"
	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/registry"
	"github.com/aretw0/nova/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StepsURI is the resource holding the step content.
const StepsURI = "nova://steps"

// SessionArgs addresses one session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// SelectArgs picks an option of the current step.
type SelectArgs struct {
	SessionID string `json:"session_id"`
	Index     int    `json:"index"`
}

// GoToArgs jumps to a named step.
type GoToArgs struct {
	SessionID string `json:"session_id"`
	Step      string `json:"step"`
}

// Server exposes the dialog Service as MCP tools, so an agent can walk a
// visitor's conversation the same way the HTTP API does.
type Server struct {
	sessions  *session.Service
	steps     *registry.Registry
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Service, steps *registry.Registry) *Server {
	s := &Server{
		sessions:  sessions,
		steps:     steps,
		mcpServer: server.NewMCPServer("nova-mcp", strings.TrimSpace(nova.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func sessionID() mcp.ToolOption {
	return mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by nova_create"))
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("nova_create",
		mcp.WithDescription("Start a new visitor session. The dialog starts closed."),
		mcp.WithOutputSchema[session.View](),
	), mcp.NewStructuredToolHandler(s.handleCreate))

	s.mcpServer.AddTool(mcp.NewTool("nova_activate",
		mcp.WithDescription("Click the avatar: opens the dialog on intro or resumes the current step."),
		sessionID(),
		mcp.WithOutputSchema[session.View](),
	), mcp.NewStructuredToolHandler(s.handleActivate))

	s.mcpServer.AddTool(mcp.NewTool("nova_select",
		mcp.WithDescription("Pick one of the options shown on the current step."),
		sessionID(),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based option index")),
		mcp.WithOutputSchema[session.View](),
	), mcp.NewStructuredToolHandler(s.handleSelect))

	s.mcpServer.AddTool(mcp.NewTool("nova_back",
		mcp.WithDescription("Return to the previous step. Does nothing on an empty history."),
		sessionID(),
		mcp.WithOutputSchema[session.View](),
	), mcp.NewStructuredToolHandler(s.handleBack))

	s.mcpServer.AddTool(mcp.NewTool("nova_hide",
		mcp.WithDescription("Close the dialog, keeping the position for a later activation."),
		sessionID(),
		mcp.WithOutputSchema[session.View](),
	), mcp.NewStructuredToolHandler(s.handleHide))

	s.mcpServer.AddTool(mcp.NewTool("nova_goto",
		mcp.WithDescription("Jump to a named step."),
		sessionID(),
		mcp.WithString("step", mcp.Required(), mcp.Description("Step name, e.g. skills")),
		mcp.WithOutputSchema[session.View](),
	), mcp.NewStructuredToolHandler(s.handleGoTo))

	s.mcpServer.AddTool(mcp.NewTool("nova_view",
		mcp.WithDescription("Show what the visitor currently sees."),
		sessionID(),
		mcp.WithOutputSchema[session.View](),
	), mcp.NewStructuredToolHandler(s.handleView))

	s.mcpServer.AddTool(mcp.NewTool("nova_graph",
		mcp.WithDescription("Get the dialog as a Mermaid flowchart, optionally highlighting a session."),
		mcp.WithString("session_id", mcp.Description("Session to highlight (optional)")),
	), s.handleGraph)
}

func (s *Server) handleCreate(ctx context.Context, _ mcp.CallToolRequest, _ struct{}) (session.View, error) {
	return deref(s.sessions.Create(ctx))
}

func (s *Server) handleActivate(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (session.View, error) {
	return deref(s.sessions.Activate(ctx, args.SessionID))
}

func (s *Server) handleSelect(ctx context.Context, _ mcp.CallToolRequest, args SelectArgs) (session.View, error) {
	return deref(s.sessions.Select(ctx, args.SessionID, args.Index))
}

func (s *Server) handleBack(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (session.View, error) {
	return deref(s.sessions.Back(ctx, args.SessionID))
}

func (s *Server) handleHide(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (session.View, error) {
	return deref(s.sessions.Hide(ctx, args.SessionID))
}

func (s *Server) handleGoTo(ctx context.Context, _ mcp.CallToolRequest, args GoToArgs) (session.View, error) {
	return deref(s.sessions.GoTo(ctx, args.SessionID, domain.StepName(args.Step)))
}

func (s *Server) handleView(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (session.View, error) {
	return deref(s.sessions.Current(ctx, args.SessionID))
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var overlay *graph.Overlay
	if id := request.GetString("session_id", ""); id != "" {
		state, err := s.sessions.Manager().Load(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load session failed: %v", err)), nil
		}
		overlay = &graph.Overlay{Visited: state.History, Current: state.CurrentStep}
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(s.steps.Steps(), overlay)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StepsURI, "Dialog steps",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.steps.Steps())
		if err != nil {
			return nil, fmt.Errorf("failed to encode steps: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StepsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func deref(v *session.View, err error) (session.View, error) {
	if err != nil {
		return session.View{}, err
	}
	return *v, nil
}
