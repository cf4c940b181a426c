package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) searchDocuments(ctx context.Context, _ *mcp.CallToolRequest, in searchInput) (*mcp.CallToolResult, any, error) {
	if in.Query == "" {
		return errorResult("query is required"), nil, nil
	}

	results, err := s.kbService.Search(ctx, in.Query, in.TopK, in.Filter)
	if err != nil {
		logger.Error("search tool failed", "error", err)
		return errorResult(fmt.Sprintf("search failed: %v", err)), nil, nil
	}

	return jsonResult(results)
}

func (s *Server) addDocument(ctx context.Context, _ *mcp.CallToolRequest, in addDocumentInput) (*mcp.CallToolResult, any, error) {
	if in.Path == "" {
		return errorResult("path is required"), nil, nil
	}

	docID, err := s.kbService.AddDocument(ctx, in.Path, in.TypeHint, nil)
	if err != nil {
		logger.Error("add_document tool failed", "path", in.Path, "error", err)
		return errorResult(fmt.Sprintf("ingest failed: %v", err)), nil, nil
	}

	rec, _ := s.kbService.GetDocumentInfo(docID)
	return jsonResult(map[string]any{
		"doc_id":      docID,
		"chunk_count": rec.ChunkCount,
	})
}

func (s *Server) listDocuments(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	return jsonResult(s.kbService.ListDocuments())
}

func (s *Server) removeDocument(ctx context.Context, _ *mcp.CallToolRequest, in getDocumentInput) (*mcp.CallToolResult, any, error) {
	removed, err := s.kbService.RemoveDocument(ctx, in.DocId)
	if err != nil {
		logger.Error("remove_document tool failed", "docId", in.DocId, "error", err)
		return errorResult(fmt.Sprintf("remove failed: %v", err)), nil, nil
	}
	if !removed {
		return errorResult("document not found: " + in.DocId), nil, nil
	}
	return jsonResult(map[string]any{"doc_id": in.DocId, "removed": true})
}

func (s *Server) getStats(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	return jsonResult(s.kbService.GetStats())
}

// jsonResult renders any value as a single JSON text block.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}, nil, nil
}

// errorResult reports a tool level failure to the client without killing the session.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}
