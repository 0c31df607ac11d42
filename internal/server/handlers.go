package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/pipeline"
)

// ToolCallParams is the params member of a tools/call request.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall runs one tool and wraps its result as a single text
// content item holding indented JSON. Tool failures use codeToolFailed.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return replyError(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return replyError(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return replyError(req.ID, codeToolFailed, "Tool result not encodable", err.Error())
	}
	return reply(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": string(text)},
		},
	})
}

func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "plate_locate":
		return s.handlePlateLocate(args)
	case "plate_read":
		return s.handlePlateRead(args)
	case "plate_batch":
		return s.handlePlateBatch(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

type pathArgs struct {
	Path string `json:"path"`
}

func parsePath(args json.RawMessage) (string, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return "", err
	}
	if a.Path == "" {
		return "", errors.New("path is required")
	}
	return a.Path, nil
}

// ImageInfo describes a loaded photo.
type ImageInfo struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	path, err := parsePath(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return ImageInfo{Path: path, Width: b.Dx(), Height: b.Dy()}, nil
}

// LocateResult lists the plate candidates of a photo.
type LocateResult struct {
	Count      int                   `json:"count"`
	Candidates []detection.Candidate `json:"candidates"`
}

func (s *Server) handlePlateLocate(args json.RawMessage) (interface{}, error) {
	path, err := parsePath(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	candidates, err := s.reader.Locate(img)
	if err != nil {
		return nil, err
	}
	return LocateResult{Count: len(candidates), Candidates: candidates}, nil
}

func (s *Server) handlePlateRead(args json.RawMessage) (interface{}, error) {
	path, err := parsePath(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return s.reader.Read(img)
}

type plateBatchArgs struct {
	Dir         string `json:"dir"`
	ResultsFile string `json:"results_file,omitempty"`
	Fallback    string `json:"fallback,omitempty"`
}

// BatchResult maps file names to plate text.
type BatchResult struct {
	Count       int               `json:"count"`
	Results     map[string]string `json:"results"`
	ResultsFile string            `json:"results_file,omitempty"`
}

func (s *Server) handlePlateBatch(args json.RawMessage) (interface{}, error) {
	var a plateBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		return nil, errors.New("dir is required")
	}

	opts := s.batch
	if a.Fallback != "" {
		opts.Fallback = a.Fallback
	}

	results, err := s.reader.ReadDir(context.Background(), a.Dir, opts)
	if err != nil {
		return nil, err
	}
	if a.ResultsFile != "" {
		if err := pipeline.WriteResults(a.ResultsFile, results); err != nil {
			return nil, err
		}
	}
	return BatchResult{Count: len(results), Results: results, ResultsFile: a.ResultsFile}, nil
}
