// Package mcp exposes a document manager as Model Context Protocol tools.
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

	"github.com/aretw0/deepset"
	"github.com/aretw0/deepset/internal/logging"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/aretw0/deepset/pkg/path"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ResourcePrefix is the URI scheme of document resources.
const ResourcePrefix = "deepset://documents/"

// Documents is the subset of document.Manager used by the tools.
type Documents interface {
	Set(ctx context.Context, id string, p, value any) (any, error)
	Get(ctx context.Context, id string, p any) (any, bool, error)
	Load(ctx context.Context, id string) (any, error)
	List(ctx context.Context) ([]string, error)
}

// SetResponse is the structured result of set_value.
type SetResponse struct {
	ID       string `json:"id" jsonschema_description:"The document that was written"`
	Path     string `json:"path" jsonschema_description:"The path that was written"`
	Document any    `json:"document" jsonschema_description:"The document after the write"`
}

// GetResponse is the structured result of get_value.
type GetResponse struct {
	ID    string `json:"id" jsonschema_description:"The document that was read"`
	Path  string `json:"path" jsonschema_description:"The path that was read"`
	Found bool   `json:"found" jsonschema_description:"Whether a value exists at the path"`
	Value any    `json:"value,omitempty" jsonschema_description:"The value at the path"`
}

// ListResponse is the structured result of list_documents.
type ListResponse struct {
	Documents []string `json:"documents" jsonschema_description:"IDs of stored documents"`
}

// Server wraps a document manager and exposes it as an MCP Server.
type Server struct {
	docs      Documents
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(docs Documents, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		docs:      docs,
		logger:    logger,
		mcpServer: server.NewMCPServer("deepset-mcp", strings.TrimSpace(deepset.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
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

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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

func (s *Server) registerTools() {
	setTool := mcp.NewTool("set_value",
		mcp.WithDescription("Write a value at a dotted/bracketed path inside a document, creating missing levels."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document ID")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path such as a.b[0].c")),
		mcp.WithString("value", mcp.Required(), mcp.Description("JSON encoded value; plain text is stored as a string")),
		mcp.WithOutputSchema[SetResponse](),
	)
	s.mcpServer.AddTool(setTool, mcp.NewStructuredToolHandler(s.handleSetValue))

	getTool := mcp.NewTool("get_value",
		mcp.WithDescription("Read the value at a path inside a document."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document ID")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path such as a.b[0].c")),
		mcp.WithOutputSchema[GetResponse](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetValue))

	listTool := mcp.NewTool("list_documents",
		mcp.WithDescription("List stored document IDs."),
		mcp.WithOutputSchema[ListResponse](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListDocuments))
}

// ParseValue decodes raw as JSON and falls back to the raw string.
func ParseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	return v
}

func (s *Server) handleSetValue(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SetResponse, error) {
	id, _ := args["id"].(string)
	p, _ := args["path"].(string)
	raw, ok := args["value"].(string)
	if id == "" || p == "" || !ok {
		return SetResponse{}, domain.ErrBadArguments
	}
	p, err := path.Sanitize(p)
	if err != nil {
		return SetResponse{}, err
	}

	doc, err := s.docs.Set(ctx, id, p, ParseValue(raw))
	if err != nil {
		s.logger.Warn("MCP set_value failed", "document_id", id, "path", p, "error", err)
		return SetResponse{}, fmt.Errorf("set failed: %w", err)
	}
	return SetResponse{ID: id, Path: p, Document: doc}, nil
}

func (s *Server) handleGetValue(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GetResponse, error) {
	id, _ := args["id"].(string)
	p, _ := args["path"].(string)
	if id == "" || p == "" {
		return GetResponse{}, domain.ErrBadArguments
	}
	p, err := path.Sanitize(p)
	if err != nil {
		return GetResponse{}, err
	}

	v, found, err := s.docs.Get(ctx, id, p)
	if err != nil {
		return GetResponse{}, fmt.Errorf("get failed: %w", err)
	}
	return GetResponse{ID: id, Path: p, Found: found, Value: v}, nil
}

func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ListResponse, error) {
	ids, err := s.docs.List(ctx)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list failed: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ListResponse{Documents: ids}, nil
}

func (s *Server) registerResources() {
	template := mcp.NewResourceTemplate(ResourcePrefix+"{id}", "Stored document",
		mcp.WithTemplateMIMEType("application/json"),
	)
	s.mcpServer.AddResourceTemplate(template, s.readDocument)
}

func (s *Server) readDocument(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id, ok := strings.CutPrefix(uri, ResourcePrefix)
	if !ok || id == "" {
		return nil, fmt.Errorf("unknown resource %q", uri)
	}

	doc, err := s.docs.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
