// Package mcp exposes the symbol index to MCP clients over stdio.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/symgrep/internal/index"
	"github.com/mvp-joe/symgrep/internal/query"
	"github.com/mvp-joe/symgrep/internal/store"
)

// Server manages the MCP server lifecycle over a loaded index.
type Server struct {
	engine *query.Engine
	ix     *index.Index
	meta   *store.Meta
	mcp    *server.MCPServer
}

// NewServer creates an MCP server serving search tools against a frozen
// index.
func NewServer(ix *index.Index, meta *store.Meta, version string) (*Server, error) {
	engine, err := query.New(ix)
	if err != nil {
		return nil, fmt.Errorf("failed to create query engine: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"symgrep-mcp",
		version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		engine: engine,
		ix:     ix,
		meta:   meta,
		mcp:    mcpServer,
	}
	AddSymbolSearchTool(mcpServer, engine)
	AddScopeMembersTool(mcpServer, engine)
	AddIndexInfoTool(mcpServer, s.info)
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.ServeStdio(s.mcp)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down", sig)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

func (s *Server) info() *IndexInfo {
	return &IndexInfo{
		SchemaVersion: s.meta.SchemaVersion,
		RootPath:      s.meta.RootPath,
		Files:         len(s.ix.Files()),
		Symbols:       s.ix.Len(),
		Languages:     s.ix.Languages(),
	}
}
