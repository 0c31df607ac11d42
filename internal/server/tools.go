package server

// Tool is one entry of the tools/list result.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": description,
			},
		},
		"required": []string{"path"},
	}
}

// GetToolDefinitions lists the plate tools in the order tools/list reports them.
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load a photo and return its dimensions. The photo is cached for subsequent plate tools.",
			InputSchema: pathSchema("Absolute path to the image file"),
		},
		{
			Name:        "plate_locate",
			Description: "Find plate-shaped white regions in a photo and return their hulls, rotated rectangles and shape measures without reading them.",
			InputSchema: pathSchema("Absolute path to the image file"),
		},
		{
			Name:        "plate_read",
			Description: "Read the license plate in a photo. Returns the plate text (region code, separator, number), the per-character matches and every candidate that was tried.",
			InputSchema: pathSchema("Absolute path to the image file"),
		},
		{
			Name:        "plate_batch",
			Description: "Read every .jpg, .jpeg and .png photo in a directory. Unreadable plates map to the fallback text; undecodable files are skipped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the directory of photos",
					},
					"results_file": map[string]interface{}{
						"type":        "string",
						"description": "Optional path where the results are also written as JSON",
					},
					"fallback": map[string]interface{}{
						"type":        "string",
						"description": "Text recorded for photos without a readable plate (default: PO12345)",
					},
				},
				"required": []string{"dir"},
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
