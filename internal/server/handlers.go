package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/image-objects/internal/detection"
	"github.com/ironsheep/image-objects/internal/histogram"
	"github.com/ironsheep/image-objects/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "objects_measure").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Arguments the client omits fall back to the server configuration.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_intensity_stats":
		return s.handleImageIntensityStats(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "objects_measure":
		return s.handleObjectsMeasure(args)
	case "objects_area_histogram":
		return s.handleObjectsAreaHistogram(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return fmt.Errorf("missing arguments")
	}
	return json.Unmarshal(args, v)
}

// === Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageIntensityStats(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	stats := imaging.Stats(r)
	return &stats, nil
}

// === Edge Detection Handler ===

type imageEdgeDetectArgs struct {
	Path       string  `json:"path"`
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
	Aperture   int     `json:"aperture"`
	BlurRadius float64 `json:"blur_radius"`
	L2Gradient *bool   `json:"l2_gradient"`
	ChannelMax *bool   `json:"channel_max"`
}

type edgeDetectResult struct {
	*imaging.EncodedImage
	EdgePixels int `json:"edge_pixels"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	p := s.cfg.Edge.Params()
	if a.Low != 0 {
		p.Low = a.Low
	}
	if a.High != 0 {
		p.High = a.High
	}
	if a.Aperture != 0 {
		p.Aperture = a.Aperture
	}
	if a.BlurRadius != 0 {
		p.BlurRadius = a.BlurRadius
	}
	if a.L2Gradient != nil {
		p.L2Gradient = *a.L2Gradient
	}
	if a.ChannelMax != nil {
		p.ChannelMax = *a.ChannelMax
	}

	r, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	edges, err := imaging.ExtractEdges(r, p)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(imaging.RenderEdges(edges, s.cfg.ResolvedPalette()))
	if err != nil {
		return nil, err
	}
	return &edgeDetectResult{EncodedImage: enc, EdgePixels: edges.Count()}, nil
}

// === Object Measurement Handlers ===

type objectsMeasureArgs struct {
	Path         string `json:"path"`
	Threshold    *int   `json:"threshold"`
	BorderPolicy string `json:"border_policy"`
	IncludeImage bool   `json:"include_image"`
}

type objectsMeasureResult struct {
	Width        int                      `json:"width"`
	Height       int                      `json:"height"`
	BorderPolicy string                   `json:"border_policy"`
	Count        int                      `json:"count"`
	Regions      []detection.Region       `json:"regions"`
	Histogram    *histogram.AreaHistogram `json:"histogram,omitempty"`
	Labels       *imaging.EncodedImage    `json:"labels,omitempty"`
}

// handleObjectsMeasure traces and measures the objects of an image.
// Unlike the batch pipeline, an image without objects is not an error:
// the result carries an empty region list and no histogram.
func (s *Server) handleObjectsMeasure(args json.RawMessage) (interface{}, error) {
	var a objectsMeasureArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	threshold := s.cfg.Threshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	if threshold < 0 || threshold > 255 {
		return nil, fmt.Errorf("%w: threshold %d outside 0..255", imaging.ErrInvalidParameter, threshold)
	}

	policy := s.cfg.Policy()
	if a.BorderPolicy != "" {
		var err error
		if policy, err = detection.ParseBorderPolicy(a.BorderPolicy); err != nil {
			return nil, err
		}
	}

	r, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	mask, err := imaging.Binarize(r, uint8(threshold))
	if err != nil {
		return nil, err
	}
	m := detection.Measurer{Policy: policy}
	regions, err := m.Measure(image.Pt(r.Width, r.Height), detection.TraceContours(mask))
	if err != nil {
		return nil, err
	}

	res := &objectsMeasureResult{
		Width:        r.Width,
		Height:       r.Height,
		BorderPolicy: policy.String(),
		Count:        len(regions),
		Regions:      regions,
	}
	if res.Regions == nil {
		res.Regions = []detection.Region{}
	}
	if len(regions) > 0 {
		if res.Histogram, err = histogram.Build(detection.Areas(regions)); err != nil {
			return nil, err
		}
	}
	if a.IncludeImage {
		labels, err := detection.RenderLabels(mask, regions, s.cfg.ResolvedPalette())
		if err != nil {
			return nil, err
		}
		if res.Labels, err = imaging.EncodePNG(labels); err != nil {
			return nil, err
		}
	}
	return res, nil
}

type objectsAreaHistogramArgs struct {
	Path   string `json:"path"`
	Areas  []int  `json:"areas"`
	Format string `json:"format"`
}

type areaHistogramResult struct {
	*histogram.AreaHistogram
	Format       string `json:"format"`
	FigureBase64 string `json:"figure_base64"`
}

// handleObjectsAreaHistogram bins explicit areas, or the areas measured in
// path when none are given, and renders the histogram figure.
func (s *Server) handleObjectsAreaHistogram(args json.RawMessage) (interface{}, error) {
	var a objectsAreaHistogramArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Format == "" {
		a.Format = s.cfg.HistogramFormat
	}
	if !histogram.SupportedFormat(a.Format) {
		return nil, fmt.Errorf("%w: figure format %q", imaging.ErrInvalidParameter, a.Format)
	}

	areas := a.Areas
	if len(areas) == 0 {
		if a.Path == "" {
			return nil, fmt.Errorf("%w: either path or areas is required", imaging.ErrInvalidParameter)
		}
		r, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		mask, err := imaging.Binarize(r, s.cfg.ThresholdValue())
		if err != nil {
			return nil, err
		}
		m := detection.Measurer{Policy: s.cfg.Policy()}
		regions, err := m.Measure(image.Pt(r.Width, r.Height), detection.TraceContours(mask))
		if err != nil {
			return nil, err
		}
		areas = detection.Areas(regions)
	}

	h, err := histogram.Build(areas)
	if err != nil {
		return nil, err
	}
	fig, err := histogram.Encode(histogram.Render(h, histogram.DefaultStyle()), a.Format)
	if err != nil {
		return nil, err
	}
	return &areaHistogramResult{
		AreaHistogram: h,
		Format:        a.Format,
		FigureBase64:  base64.StdEncoding.EncodeToString(fig),
	}, nil
}
