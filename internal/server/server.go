package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/plate-reader/internal/imaging"
	"github.com/ironsheep/plate-reader/internal/pipeline"
)

// JSON-RPC error codes used by the server.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

const protocolVersion = "2024-11-05"

// Server answers MCP requests about plate photos. Decoded photos are cached
// by path so repeated tool calls on one photo skip the disk.
type Server struct {
	cache   *imaging.ImageCache
	reader  *pipeline.Reader
	batch   pipeline.BatchOptions
	version string
}

// MCPRequest is one JSON-RPC request line.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse is one JSON-RPC response line.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError is the error member of a response.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func reply(id, result interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func replyError(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &MCPError{Code: code, Message: message, Data: data},
	}
}

// New returns a server reading plates with reader. batch holds the defaults
// of the plate_batch tool.
func New(reader *pipeline.Reader, batch pipeline.BatchOptions, version string) *Server {
	return &Server{
		cache:   imaging.NewImageCache(),
		reader:  reader,
		batch:   batch,
		version: version,
	}
}

// Run serves stdin until EOF, answering on stdout.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve answers newline-delimited requests from in until it is exhausted.
// Lines that are not JSON are logged and dropped; notifications get no reply.
func (s *Server) Serve(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Dropping malformed request: %v", err)
			continue
		}

		if resp := s.handleRequest(&req); resp != nil {
			if err := enc.Encode(resp); err != nil {
				log.Printf("Failed to write response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read requests: %w", err)
	}
	return nil
}

func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return reply(req.ID, s.info())
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return reply(req.ID, map[string]interface{}{})
	default:
		return replyError(req.ID, codeMethodNotFound, "Method not found: "+req.Method, nil)
	}
}

func (s *Server) info() map[string]interface{} {
	return map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    "plate-reader",
			"version": s.version,
		},
	}
}
