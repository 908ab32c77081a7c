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

	"github.com/goldi-lab/gift"
	"github.com/goldi-lab/gift/internal/logging"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/goldi-lab/gift/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// SessionsURI lists the stored sessions.
const SessionsURI = "gift://sessions"

// StateResponse is the structured result of every tool.
type StateResponse struct {
	SessionID string          `json:"session_id" jsonschema_description:"The session the result belongs to"`
	Version   int             `json:"version" jsonschema_description:"History version that produced the state"`
	CanUndo   bool            `json:"canUndo" jsonschema_description:"Whether an undo step is available"`
	CanRedo   bool            `json:"canRedo" jsonschema_description:"Whether a redo step is available"`
	State     domain.AppState `json:"state" jsonschema_description:"The editor and view state"`
}

// SessionArgs identifies a session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// DispatchArgs are the arguments of dispatch_action.
type DispatchArgs struct {
	SessionID string `json:"session_id"`
	Type      string `json:"type"`
	// Payload is a JSON document; empty means no payload.
	Payload string `json:"payload,omitempty"`
}

// Server exposes a session.Manager as an MCP server.
type Server struct {
	manager   *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(manager *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		manager: manager,
		logger:  logger,
	}
	s.mcpServer = server.NewMCPServer("gift-mcp", gift.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))
	httpServer := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	dispatchTool := mcp.NewTool("dispatch_action",
		mcp.WithDescription("Apply an editor action to a session. The session is created on first use."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Action type, e.g. NEWAUTOMATON or ADDNODE")),
		mcp.WithString("payload", mcp.Description("JSON payload of the action (optional)")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(dispatchTool, mcp.NewStructuredToolHandler(s.handleDispatch))

	undoTool := mcp.NewTool("undo",
		mcp.WithDescription("Step a session one version back. Does nothing if no undo step is available."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(undoTool, mcp.NewStructuredToolHandler(s.meta(domain.ActionUndo)))

	redoTool := mcp.NewTool("redo",
		mcp.WithDescription("Step a session one version forward. Does nothing if no redo step is available."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(redoTool, mcp.NewStructuredToolHandler(s.meta(domain.ActionRedo)))

	stateTool := mcp.NewTool("get_state",
		mcp.WithDescription("Read the current state of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(stateTool, mcp.NewStructuredToolHandler(s.handleGetState))
}

func (s *Server) handleDispatch(ctx context.Context, _ mcp.CallToolRequest, args DispatchArgs) (StateResponse, error) {
	if args.SessionID == "" || args.Type == "" {
		return StateResponse{}, errors.New("session_id and type are required")
	}
	action := domain.Action{Type: args.Type}
	if p := strings.TrimSpace(args.Payload); p != "" {
		if err := json.Unmarshal([]byte(p), &action.Payload); err != nil {
			return StateResponse{}, fmt.Errorf("payload is not valid JSON: %w", err)
		}
	}

	if _, err := s.manager.LoadOrCreate(ctx, args.SessionID); err != nil {
		return StateResponse{}, err
	}
	sess, err := s.manager.Dispatch(ctx, args.SessionID, action)
	if err != nil {
		s.logger.Warn("MCP dispatch rejected", "session_id", args.SessionID, "action", args.Type, "err", err)
		return StateResponse{}, fmt.Errorf("dispatch %s: %w", args.Type, err)
	}
	return toResponse(args.SessionID, sess), nil
}

func (s *Server) meta(actionType string) func(context.Context, mcp.CallToolRequest, SessionArgs) (StateResponse, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (StateResponse, error) {
		sess, err := s.manager.Dispatch(ctx, args.SessionID, domain.Action{Type: actionType})
		if err != nil {
			return StateResponse{}, err
		}
		return toResponse(args.SessionID, sess), nil
	}
}

func (s *Server) handleGetState(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (StateResponse, error) {
	sess, err := s.manager.Load(ctx, args.SessionID)
	if err != nil {
		return StateResponse{}, err
	}
	return toResponse(args.SessionID, sess), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SessionsURI, "Stored Sessions",
		mcp.WithResourceDescription("IDs of all stored editing sessions"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.manager.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		jsonBytes, err := json.Marshal(ids)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SessionsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func toResponse(id string, sess *domain.Session) StateResponse {
	return StateResponse{
		SessionID: id,
		Version:   sess.State.CurrentVersion,
		CanUndo:   sess.State.CanUndo,
		CanRedo:   sess.State.CanRedo,
		State:     sess.State.Current,
	}
}
