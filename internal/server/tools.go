package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// noArgs is the input schema of tools without arguments.
func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// presetNameArgs is the input schema of tools taking only a preset name.
func presetNameArgs(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": description,
			},
		},
		"required": []string{"name"},
	}
}

func parameterProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
		"minimum":     0,
		"maximum":     3,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image State
		{
			Name:        "image_load",
			Description: "Load an image file and make it the active image. Resets all parameters to 1.0, clears undo history and any crop.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file (PNG, JPEG, GIF, TIFF, BMP or WEBP)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_info",
			Description: "Describe the active image: source, current and original dimensions, crop, parameters and undo/redo depth.",
			InputSchema: noArgs(),
		},
		{
			Name:        "image_params",
			Description: "Return the current value of the five adjustment parameters.",
			InputSchema: noArgs(),
		},

		// Adjustments
		{
			Name:        "image_adjust",
			Description: "Set one adjustment parameter. Values are clamped to 0-3; 1.0 is neutral. Undoable.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"param": map[string]interface{}{
						"type":        "string",
						"description": "Parameter to set",
						"enum":        []string{"brightness", "contrast", "saturation", "warmth", "sharpness"},
					},
					"value": parameterProperty("New value (0 to 3, 1.0 is neutral)"),
				},
				"required": []string{"param", "value"},
			},
		},
		{
			Name:        "image_adjust_batch",
			Description: "Set several adjustment parameters as a single undoable step. Unknown names are ignored.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"brightness": parameterProperty("Brightness (0 black, 1 unchanged)"),
					"contrast":   parameterProperty("Contrast (0 flat grey, 1 unchanged)"),
					"saturation": parameterProperty("Saturation (0 greyscale, 1 unchanged)"),
					"warmth":     parameterProperty("Warmth (below 1 cooler, above 1 warmer)"),
					"sharpness":  parameterProperty("Sharpness (below 1 softer, above 1 sharper)"),
				},
			},
		},
		{
			Name:        "image_prompt",
			Description: "Adjust the image from a natural-language command in Italian or English, e.g. \"molto più luminosa ma meno satura\", \"a bit warmer\", \"ancora\", \"bianco e nero\", \"reset\". Undoable.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "The command",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "image_crop_ratio",
			Description: "Centre-crop the image to an aspect ratio. Crops stack on the current crop; \"original\" restores the uncropped image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"ratio": map[string]interface{}{
						"type":        "string",
						"description": "\"original\", \"1:1\", \"16:9\", \"4:5\", \"3:2\", any \"w:h\", or a decimal such as \"1.5\"",
					},
				},
				"required": []string{"ratio"},
			},
		},

		// History
		{
			Name:        "image_undo",
			Description: "Restore the previous parameter state.",
			InputSchema: noArgs(),
		},
		{
			Name:        "image_redo",
			Description: "Re-apply the most recently undone parameter state.",
			InputSchema: noArgs(),
		},

		// Output
		{
			Name:        "image_save",
			Description: "Export the rendered image. The format follows the file extension; paths without one are saved as PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute output path",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_preview",
			Description: "Return the rendered image as base64-encoded PNG, optionally with a composition guide drawn on top. The guide is never part of saved images.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"guide": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"none", "thirds", "golden", "center"},
						"description": "Composition guide overlay (default: none)",
					},
					"guide_color": map[string]interface{}{
						"type":        "string",
						"description": "Guide line colour as #rrggbb (default: #ffffff)",
					},
				},
			},
		},
		{
			Name:        "image_stats",
			Description: "Colour statistics of the rendered image: average colour (hex, RGB, HSL), mean luminance, warm/cool balance and dominant colours.",
			InputSchema: noArgs(),
		},

		// Presets
		{
			Name:        "preset_save",
			Description: "Save the current parameters as a named preset, overwriting any preset with the same name.",
			InputSchema: presetNameArgs("Preset name"),
		},
		{
			Name:        "preset_apply",
			Description: "Replace the current parameters with a saved preset. Undoable.",
			InputSchema: presetNameArgs("Preset name"),
		},
		{
			Name:        "preset_list",
			Description: "List saved preset names in alphabetical order.",
			InputSchema: noArgs(),
		},
		{
			Name:        "preset_delete",
			Description: "Delete a saved preset.",
			InputSchema: presetNameArgs("Preset name"),
		},

		// Activity
		{
			Name:        "activity_log",
			Description: "Return the session activity log, newest first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of entries to return. Default all",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
