package mcpserver

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/GoKB/internal/kb"
	"github.com/akolanti/GoKB/pkg/logger_i"
)

var logger = logger_i.NewLogger("MCP ")

// Server exposes the knowledge base over the Model Context Protocol.
// It speaks stdio so any MCP client can plug in without HTTP plumbing.
type Server struct {
	mcpServer *mcp.Server
	kbService kb.Service
}

func NewServer(name string, version string, kbService kb.Service) (*Server, error) {
	if kbService == nil {
		return nil, fmt.Errorf("kb service is required")
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		kbService: kbService,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}
	return s, nil
}

// Run blocks serving the MCP protocol on stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("MCP server listening on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

type searchInput struct {
	Query  string            `json:"query" jsonschema:"The text to search for"`
	TopK   int               `json:"top_k,omitempty" jsonschema:"How many chunks to return, defaults to 4"`
	Filter map[string]string `json:"filter,omitempty" jsonschema:"Optional metadata equality filter, e.g. {\"source\": \"notes.md\"}"`
}

type addDocumentInput struct {
	Path     string `json:"path" jsonschema:"Path to the document file on disk"`
	TypeHint string `json:"type_hint,omitempty" jsonschema:"Optional format override such as txt, md, csv, json, xlsx, pdf"`
}

type getDocumentInput struct {
	DocId string `json:"doc_id" jsonschema:"The document ID returned by add_document"`
}

func (s *Server) registerTools() error {
	searchSchema, err := jsonschema.For[searchInput](nil)
	if err != nil {
		return fmt.Errorf("schema for search_documents: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "search_documents",
		Description: "Search the indexed documents using semantic similarity. " +
			"Returns the most relevant chunks with their source metadata.",
		InputSchema: searchSchema,
	}, s.searchDocuments)

	addSchema, err := jsonschema.For[addDocumentInput](nil)
	if err != nil {
		return fmt.Errorf("schema for add_document: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "add_document",
		Description: "Load, chunk, embed and index a document from a local file path. " +
			"Returns the document ID for later lookups.",
		InputSchema: addSchema,
	}, s.addDocument)

	listSchema, err := jsonschema.For[struct{}](nil)
	if err != nil {
		return fmt.Errorf("schema for list_documents: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_documents",
		Description: "List every indexed document with its chunk count and source path.",
		InputSchema: listSchema,
	}, s.listDocuments)

	removeSchema, err := jsonschema.For[getDocumentInput](nil)
	if err != nil {
		return fmt.Errorf("schema for remove_document: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_document",
		Description: "Remove a document's chunks from the index and drop its registry record.",
		InputSchema: removeSchema,
	}, s.removeDocument)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stats",
		Description: "Aggregate statistics over the knowledge base: document and chunk counts per format.",
		InputSchema: listSchema,
	}, s.getStats)

	return nil
}
