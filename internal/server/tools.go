package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, channel layout and format. Only 8-bit grayscale and RGB images are accepted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_intensity_stats",
			Description: "Return width, height and the minimum, maximum and mean sample value of an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Edge Detection
		{
			Name:        "image_edge_detect",
			Description: "Compute a Canny-style edge map and return it as a base64-encoded PNG with edges drawn in red on white, plus the number of edge pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"low": map[string]interface{}{
						"type":        "number",
						"description": "Hysteresis lower bound on gradient magnitude (default: 9000)",
					},
					"high": map[string]interface{}{
						"type":        "number",
						"description": "Hysteresis upper bound on gradient magnitude (default: 12000)",
					},
					"aperture": map[string]interface{}{
						"type":        "integer",
						"description": "Sobel aperture size",
						"enum":        []int{3, 5, 7},
					},
					"blur_radius": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian blur radius applied before the gradient (default: 0, no blur)",
					},
					"l2_gradient": map[string]interface{}{
						"type":        "boolean",
						"description": "Use the L2 gradient magnitude instead of L1",
					},
					"channel_max": map[string]interface{}{
						"type":        "boolean",
						"description": "On color images, take the strongest per-channel gradient instead of the luma gradient",
					},
				},
				"required": []string{"path"},
			},
		},

		// Object Measurement
		{
			Name:        "objects_measure",
			Description: "Threshold an image, trace object outlines and return each object's bounding box, area, perimeter and centroid. Objects touching the image border are skipped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels darker than this value are foreground (default: 250)",
						"minimum":     0,
						"maximum":     255,
					},
					"border_policy": map[string]interface{}{
						"type":        "string",
						"description": "How border contact is decided",
						"enum":        []string{"strict", "legacy"},
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the labeled object image as base64 PNG",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "objects_area_histogram",
			Description: "Bin object areas into small (<1500), medium (<3000) and large classes and render the histogram figure. Pass explicit areas, or a path to measure.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"areas": map[string]interface{}{
						"type":        "array",
						"description": "Object areas in square pixels",
						"items": map[string]interface{}{
							"type": "integer",
						},
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Figure format (default: png)",
						"enum":        []string{"png", "svg", "pdf", "eps", "tex", "jpg", "tif"},
					},
				},
			},
		},
	}
}
