package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	activityservice "github.com/classbridge/classbridge/internal/activity/service"
	"github.com/classbridge/classbridge/internal/context/index"
	"github.com/classbridge/classbridge/internal/context/resolver"
	"github.com/classbridge/classbridge/internal/services/mcp/domain"
	"github.com/classbridge/classbridge/internal/storage"
	"github.com/classbridge/classbridge/internal/storage/sqlite"
	"github.com/classbridge/classbridge/internal/store"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "ClassBridge MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"

	defaultHTTPAddr = "localhost:8081"
	shutdownTimeout = 5 * time.Second
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the HTTP listen address for the HTTP transport. Defaults
	// to localhost:8081.
	HTTPAddr string
	// DocumentPath locates the curriculum document parsed by contexts_init.
	DocumentPath string
	// URLPrefix is the default deep-link prefix; tools may override it per
	// call.
	URLPrefix string
	// SnapshotPath is the sqlite database path for context tree snapshots.
	// Empty disables persistence and the bridge runs purely in memory.
	SnapshotPath string
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	snapshots *sqlite.Store
	contexts  *domain.Contexts
	session   *activityservice.Session
}

// New creates a configured MCP server with the full context and activity
// tool set registered.
func New(cfg Config) (*Server, error) {
	res := resolver.New(index.NewSet())
	if prefix := strings.TrimSpace(cfg.URLPrefix); prefix != "" {
		res.SetURLPrefix(prefix)
	}

	var (
		snapshots     *sqlite.Store
		snapshotStore storage.SnapshotStore
	)
	if strings.TrimSpace(cfg.SnapshotPath) != "" {
		opened, err := sqlite.Open(cfg.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		snapshots = opened
		snapshotStore = opened
	}

	contextStore := store.New(res, snapshotStore)
	server := &Server{
		snapshots: snapshots,
		contexts: &domain.Contexts{
			DocumentPath: cfg.DocumentPath,
			Resolver:     res,
			Store:        contextStore,
		},
		session: activityservice.NewSession(contextStore, slog.Default()),
	}

	server.mcpServer = mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	for _, module := range registrationModules(server) {
		module.register(server.mcpServer)
	}
	return server, nil
}

// Run is the service entrypoint for MCP and blocks until context
// cancellation. It is transport-agnostic so startup can choose stdio for
// local tools and HTTP for remote integrations.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	server, err := New(cfg)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case TransportStdio:
		return server.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return server.serveHTTP(ctx, cfg.HTTPAddr)
	default:
		_ = server.Close()
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// Close releases the snapshot store held by the server.
func (s *Server) Close() error {
	if s == nil || s.snapshots == nil {
		return nil
	}
	if err := s.snapshots.Close(); err != nil {
		return err
	}
	s.snapshots = nil
	return nil
}

// serveWithTransport starts the MCP server using the provided transport. The
// server and its snapshot store share a single exit path so cleanup behavior
// is consistent for both stdio and HTTP runs.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	return s.finish(err)
}

// serveHTTP serves the MCP server over streamable HTTP until the context is
// cancelled.
func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	if strings.TrimSpace(addr) == "" {
		addr = defaultHTTPAddr
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("could not shut down MCP HTTP server", "error", err)
		}
	}()

	slog.Info("serving MCP over HTTP", "addr", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return s.finish(err)
}

// finish folds the serve error together with snapshot store cleanup.
func (s *Server) finish(err error) error {
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close snapshot store: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close snapshot store: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
